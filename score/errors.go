// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package score

import "github.com/juju/errors"

var (
	// ErrShapeMismatch reports operands whose shapes cannot be combined.
	// Annotations carry the offending shapes.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidActivation reports an activation outside the supported set.
	ErrInvalidActivation = errors.New("invalid activation")
	// ErrUnsupportedOperand reports an operation undefined for an operand kind,
	// for example evaluating a frame before stripping its labels.
	ErrUnsupportedOperand = errors.New("unsupported operand")
	// ErrEmptyOperand reports an aggregation over a matrix with no rows.
	ErrEmptyOperand = errors.New("empty operand")
)
