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

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// NotId represents a label that doesn't exist in an index.
const NotId = int32(-1)

// Index manages the map between row or column labels and dense positions.
// Labels identify users or items while positions address rows and columns of
// the underlying matrix.
type Index struct {
	numbers map[string]int32 // label -> position
	names   []string         // position -> label
}

// NewIndex creates an Index over the given labels. Positions follow the order
// of the slice.
func NewIndex(labels []string) *Index {
	idx := &Index{
		numbers: make(map[string]int32, len(labels)),
		names:   make([]string, 0, len(labels)),
	}
	for _, label := range labels {
		idx.Add(label)
	}
	return idx
}

// Len returns the number of indexed labels.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.names))
}

// Add adds a new label to the index.
func (idx *Index) Add(name string) {
	if _, exist := idx.numbers[name]; !exist {
		idx.numbers[name] = int32(len(idx.names))
		idx.names = append(idx.names, name)
	}
}

// ToNumber converts a label to a position. NotId is returned if the label
// doesn't exist.
func (idx *Index) ToNumber(name string) int32 {
	if position, exist := idx.numbers[name]; exist {
		return position
	}
	return NotId
}

// ToName converts a position to a label.
func (idx *Index) ToName(position int32) string {
	return idx.names[position]
}

// GetNames returns all labels in the index.
func (idx *Index) GetNames() []string {
	return idx.names
}

// validateLabels rejects duplicated labels.
func validateLabels(labels []string) error {
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(labels))
	for _, label := range labels {
		if !seen.Add(label) {
			return errors.Errorf("duplicate label %q", label)
		}
	}
	return nil
}
