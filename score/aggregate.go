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
	"io"
	"sync"

	"github.com/chewxy/math32"
	"github.com/gorse-io/scoremat/base/log"
	"github.com/gorse-io/scoremat/device"
	"github.com/gorse-io/scoremat/loader"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Reduction folds a score matrix into a single value batch by batch. Reduce
// collapses one evaluated batch and Combine merges two partial results.
// Combine must be associative and commutative: batches arrive in row order
// but partial results fold pairwise.
type Reduction struct {
	Reduce  func(*Dense) float32
	Combine func(a, b float32) float32
}

var (
	reductionsMu sync.RWMutex
	reductions   = map[string]Reduction{
		"max": {Reduce: (*Dense).Max, Combine: math32.Max},
		"min": {Reduce: (*Dense).Min, Combine: math32.Min},
		"sum": {Reduce: (*Dense).Sum, Combine: func(a, b float32) float32 { return a + b }},
	}
)

// RegisterReduction adds a named reduction for Aggregate. The builtin names
// are max, min and sum.
func RegisterReduction(name string, r Reduction) error {
	if name == "" || r.Reduce == nil || r.Combine == nil {
		return errors.New("incomplete reduction")
	}
	reductionsMu.Lock()
	defer reductionsMu.Unlock()
	if _, exist := reductions[name]; exist {
		return errors.Errorf("reduction %q is already registered", name)
	}
	reductions[name] = r
	return nil
}

func lookupReduction(name string) (Reduction, bool) {
	reductionsMu.RLock()
	defer reductionsMu.RUnlock()
	r, ok := reductions[name]
	return r, ok
}

// Aggregate reduces a whole score matrix to a single value without
// materializing it. The matrix is stripped of frames, split into recommended
// row batches, and every batch is evaluated and reduced on its own before the
// partial results fold. The result equals reducing a single whole-matrix
// evaluation, for any batch size. Aggregating a matrix with no rows returns
// ErrEmptyOperand.
func Aggregate(m Matrix, reduction string, dev device.Device) (float32, error) {
	red, ok := lookupReduction(reduction)
	if !ok {
		return 0, errors.Errorf("unknown reduction %q", reduction)
	}
	stripped := m.Stripped()
	rows, cols := stripped.Shape()
	batchSize := stripped.BatchSize(dev)
	log.Logger().Debug("aggregate score matrix",
		zap.String("reduction", reduction),
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("batch_size", batchSize))
	batches := loader.New[Matrix](stripped, batchSize)
	out, found := float32(0), false
	for {
		batch, err := batches.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return 0, errors.Trace(err)
		}
		result, err := batch.Evaluate(dev)
		if err != nil {
			return 0, errors.Trace(err)
		}
		value := red.Reduce(result.Host())
		if found {
			out = red.Combine(out, value)
		} else {
			out, found = value, true
		}
	}
	if !found {
		return 0, errors.Annotatef(ErrEmptyOperand, "aggregate %s over %dx%d", reduction, rows, cols)
	}
	return out, nil
}
