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
	"github.com/chewxy/math32"
	"github.com/gorse-io/scoremat/common/floats"
	"github.com/gorse-io/scoremat/device"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Activation maps factor products to scores. Both supported activations are
// nonnegative, which keeps reindexed fill values representable.
type Activation string

const (
	// Exp scores are exp(z).
	Exp Activation = "exp"
	// Sigmoid scores are 1/(1+exp(-z)).
	Sigmoid Activation = "sigmoid"
)

func (a Activation) valid() bool {
	return a == Exp || a == Sigmoid
}

// apply activates pre-activation values in place.
func (a Activation) apply(data []float32) {
	switch a {
	case Exp:
		floats.Exp(data)
	case Sigmoid:
		floats.Logistic(data)
	}
}

// inverse returns the pre-activation value that activates to v. Following
// IEEE semantics, v=0 maps to -Inf, a sigmoid v=1 maps to +Inf and values
// outside the activation range map to NaN.
func (a Activation) inverse(v float32) float32 {
	if a == Exp {
		return math32.Log(v)
	}
	return math32.Log(v / (1 - v))
}

// LowRank is a factored score matrix act(rowFactors times the transpose of
// colFactors). Slicing, transposition, stacking and reindexing all stay in
// factored form, so a matrix of a million users by a million items is carried
// in two thin factor blocks until evaluation.
type LowRank struct {
	rowFactors *Dense
	colFactors *Dense
	rowLabels  []string
	colLabels  []string
	act        Activation
}

// NewLowRank creates a factored score matrix. Factors must share their rank
// and labels must match factor rows.
func NewLowRank(rowFactors, colFactors *Dense, rowLabels, colLabels []string, act Activation) (*LowRank, error) {
	if !act.valid() {
		return nil, errors.Annotatef(ErrInvalidActivation, "%q", act)
	}
	if rowFactors.cols != colFactors.cols {
		return nil, errors.Annotatef(ErrShapeMismatch, "rank %d factors against rank %d", rowFactors.cols, colFactors.cols)
	}
	if len(rowLabels) != rowFactors.rows {
		return nil, errors.Annotatef(ErrShapeMismatch, "%d row labels over %d factor rows", len(rowLabels), rowFactors.rows)
	}
	if len(colLabels) != colFactors.rows {
		return nil, errors.Annotatef(ErrShapeMismatch, "%d column labels over %d factor rows", len(colLabels), colFactors.rows)
	}
	return &LowRank{
		rowFactors: rowFactors,
		colFactors: colFactors,
		rowLabels:  rowLabels,
		colLabels:  colLabels,
		act:        act,
	}, nil
}

// Shape returns the number of rows and columns.
func (m *LowRank) Shape() (int, int) { return m.rowFactors.rows, m.colFactors.rows }

// Len returns the number of rows.
func (m *LowRank) Len() int { return m.rowFactors.rows }

// Size returns the total number of entries.
func (m *LowRank) Size() int { return m.rowFactors.rows * m.colFactors.rows }

// Rank returns the number of factor components.
func (m *LowRank) Rank() int { return m.rowFactors.cols }

// Act returns the activation.
func (m *LowRank) Act() Activation { return m.act }

// RowLabels returns the row labels in matrix order.
func (m *LowRank) RowLabels() []string { return m.rowLabels }

// ColLabels returns the column labels in matrix order.
func (m *LowRank) ColLabels() []string { return m.colLabels }

func (m *LowRank) isOperand() {}

// Evaluate multiplies the factors and activates the product. Passing a
// non-nil device uploads the factors and places the result there.
func (m *LowRank) Evaluate(dev device.Device) (*Dense, error) {
	a := m.rowFactors.To(dev)
	b := m.colFactors.To(dev)
	out := Zeros(a.rows, b.rows)
	floats.MM(false, true, a.rows, b.rows, a.cols, a.data, a.cols, b.data, b.cols, out.data, b.rows)
	m.act.apply(out.data)
	return out.To(dev), nil
}

// Stripped returns the matrix itself: factored matrices carry no frames.
func (m *LowRank) Stripped() Matrix { return m }

func (m *LowRank) rowSlice(rows []int) *LowRank {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = m.rowLabels[r]
	}
	return &LowRank{
		rowFactors: m.rowFactors.RowSlice(rows...),
		colFactors: m.colFactors,
		rowLabels:  labels,
		colLabels:  m.colLabels,
		act:        m.act,
	}
}

// RowSlice selects rows by slicing the row factors. Column factors are
// shared with the parent.
func (m *LowRank) RowSlice(rows ...int) (Matrix, error) {
	return m.rowSlice(rows), nil
}

// Get returns row i as a 1 x cols matrix.
func (m *LowRank) Get(i int) (Matrix, error) {
	return m.rowSlice([]int{i}), nil
}

func (m *LowRank) transpose() *LowRank {
	return &LowRank{
		rowFactors: m.colFactors,
		colFactors: m.rowFactors,
		rowLabels:  m.colLabels,
		colLabels:  m.rowLabels,
		act:        m.act,
	}
}

// T swaps the factor pair and the label pair.
func (m *LowRank) T() Matrix { return m.transpose() }

func collateLowRank(items []*LowRank) (*LowRank, error) {
	first := items[0]
	factors := make([]*Dense, len(items))
	for i, item := range items {
		if item.act != first.act {
			return nil, errors.Annotatef(ErrUnsupportedOperand,
				"collate %s low-rank with %s", first.act, item.act)
		}
		if item.colFactors != first.colFactors && !item.colFactors.Equal(first.colFactors) {
			return nil, errors.Annotate(ErrUnsupportedOperand,
				"collate low-rank with different column factors")
		}
		factors[i] = item.rowFactors
	}
	rowFactors, err := VStackDense(factors)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &LowRank{
		rowFactors: rowFactors,
		colFactors: first.colFactors,
		rowLabels: lo.FlatMap(items, func(item *LowRank, _ int) []string {
			return item.rowLabels
		}),
		colLabels: first.colLabels,
		act:       first.act,
	}, nil
}

// Collate stacks row batches sliced from the same factored matrix. All
// batches must share the activation and the column factors.
func (m *LowRank) Collate(batch []Matrix) (Matrix, error) {
	if len(batch) == 0 {
		return nil, errors.Annotate(ErrEmptyOperand, "collate low-rank")
	}
	items := make([]*LowRank, len(batch))
	for i, b := range batch {
		item, ok := b.(*LowRank)
		if !ok {
			return nil, errors.Annotatef(ErrUnsupportedOperand, "collate low-rank with %s", kindOf(b))
		}
		items[i] = item
	}
	return collateLowRank(items)
}

// BatchSize returns the recommended number of rows per evaluation batch for
// the target device.
func (m *LowRank) BatchSize(dev device.Device) int {
	rows, cols := m.Shape()
	return RecommendedBatchSize(rows, cols, dev, DefaultMemoryFraction)
}

// Add returns the lazy elementwise sum with another operand.
func (m *LowRank) Add(other Operand) (*Expression, error) {
	return newExpression(addOp{}, m, other)
}

// Multiply returns the lazy elementwise product with another operand.
func (m *LowRank) Multiply(other Operand) (*Expression, error) {
	return newExpression(mulOp{}, m, other)
}

// Clip returns a lazy copy with all entries clamped into [lo, hi].
func (m *LowRank) Clip(lo, hi float32) *Expression {
	return newUnary(clipOp{lo: lo, hi: hi}, m)
}

// Reindex rearranges one axis to follow a new label order while staying in
// factored form. Labels absent from the axis score the fill value everywhere.
// The factors gain one component: existing rows keep a zero entry there and
// columns a one, while a synthetic row carries the pre-activation image of
// fill. Present labels therefore keep their scores exactly and absent labels
// activate to fill.
func (m *LowRank) Reindex(labels []string, axis int, fill float32) (*LowRank, error) {
	switch axis {
	case 0:
	case 1:
		t, err := m.transpose().Reindex(labels, 0, fill)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return t.transpose(), nil
	default:
		return nil, errors.Errorf("invalid axis %d", axis)
	}
	if err := validateLabels(labels); err != nil {
		return nil, errors.Trace(err)
	}
	rows, rank := m.rowFactors.Shape()
	aug := Zeros(rows+1, rank+1)
	for i := 0; i < rows; i++ {
		copy(aug.Row(i)[:rank], m.rowFactors.Row(i))
	}
	aug.Set(rows, rank, m.act.inverse(fill))
	colFactors := Zeros(m.colFactors.rows, rank+1)
	for i := 0; i < m.colFactors.rows; i++ {
		copy(colFactors.Row(i)[:rank], m.colFactors.Row(i))
		colFactors.Set(i, rank, 1)
	}
	index := NewIndex(m.rowLabels)
	positions := make([]int, len(labels))
	for i, label := range labels {
		if pos := index.ToNumber(label); pos != NotId {
			positions[i] = int(pos)
		} else {
			positions[i] = rows // the synthetic row
		}
	}
	return &LowRank{
		rowFactors: aug.RowSlice(positions...),
		colFactors: colFactors,
		rowLabels:  labels,
		colLabels:  m.colLabels,
		act:        m.act,
	}, nil
}
