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
	"fmt"

	"github.com/gorse-io/scoremat/common/floats"
	"github.com/gorse-io/scoremat/device"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// operator applies an elementwise operation to evaluated children. A 1x1
// input broadcasts against any shape.
type operator interface {
	String() string
	apply(inputs ...*Dense) *Dense
}

type addOp struct{}

func (addOp) String() string { return "Add" }

func (addOp) apply(inputs ...*Dense) *Dense {
	a, b := inputs[0], inputs[1]
	if a.scalarLike() && !b.scalarLike() {
		a, b = b, a
	}
	out := a.Clone()
	if b.scalarLike() {
		floats.AddConst(out.data, b.data[0])
	} else {
		floats.AddTo(a.data, b.data, out.data)
	}
	return out
}

type mulOp struct{}

func (mulOp) String() string { return "Multiply" }

func (mulOp) apply(inputs ...*Dense) *Dense {
	a, b := inputs[0], inputs[1]
	if a.scalarLike() && !b.scalarLike() {
		a, b = b, a
	}
	out := a.Clone()
	if b.scalarLike() {
		floats.MulConst(out.data, b.data[0])
	} else {
		floats.MulTo(a.data, b.data, out.data)
	}
	return out
}

type clipOp struct {
	lo, hi float32
}

func (c clipOp) String() string { return fmt.Sprintf("Clip(%g,%g)", c.lo, c.hi) }

func (c clipOp) apply(inputs ...*Dense) *Dense {
	out := inputs[0].Clone()
	floats.Clip(out.data, c.lo, c.hi)
	return out
}

// Expression is a lazy elementwise operation over child operands. Shape and
// labels follow the first child. Expressions hold no evaluated data: every
// Evaluate call walks the tree again.
type Expression struct {
	op        operator
	children  []Operand
	rows      int
	cols      int
	rowLabels []string
	colLabels []string
}

// Add returns the lazy elementwise sum of two operands. All operands except
// scalars must share the shape of the first.
func Add(a, b Operand) (*Expression, error) {
	return newExpression(addOp{}, a, b)
}

// Multiply returns the lazy elementwise product of two operands. All operands
// except scalars must share the shape of the first.
func Multiply(a, b Operand) (*Expression, error) {
	return newExpression(mulOp{}, a, b)
}

// Clip returns a lazy copy of an operand with all entries clamped into
// [lo, hi].
func Clip(o Operand, lo, hi float32) *Expression {
	return newUnary(clipOp{lo: lo, hi: hi}, o)
}

func newExpression(op operator, children ...Operand) (*Expression, error) {
	if _, ok := children[0].(Scalar); ok {
		return nil, errors.Annotatef(ErrUnsupportedOperand, "scalar cannot lead %s", op)
	}
	rows, cols := children[0].Shape()
	for _, child := range children[1:] {
		if _, ok := child.(Scalar); ok {
			continue
		}
		r, c := child.Shape()
		if r != rows || c != cols {
			return nil, errors.Annotatef(ErrShapeMismatch, "%s of %dx%d and %dx%d", op, rows, cols, r, c)
		}
	}
	rowLabels, colLabels := operandLabels(children[0])
	return &Expression{
		op:        op,
		children:  children,
		rows:      rows,
		cols:      cols,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}, nil
}

func newUnary(op operator, child Operand) *Expression {
	rows, cols := child.Shape()
	rowLabels, colLabels := operandLabels(child)
	return &Expression{
		op:        op,
		children:  []Operand{child},
		rows:      rows,
		cols:      cols,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}
}

// Shape returns the number of rows and columns.
func (e *Expression) Shape() (int, int) { return e.rows, e.cols }

// Len returns the number of rows.
func (e *Expression) Len() int { return e.rows }

// Size returns the total number of entries.
func (e *Expression) Size() int { return e.rows * e.cols }

// RowLabels returns the row labels inherited from the first child, or nil.
func (e *Expression) RowLabels() []string { return e.rowLabels }

// ColLabels returns the column labels inherited from the first child, or nil.
func (e *Expression) ColLabels() []string { return e.colLabels }

func (e *Expression) isOperand() {}

// Evaluate computes the dense result by evaluating every child and applying
// the operator. Children holding frames must be stripped first.
func (e *Expression) Evaluate(dev device.Device) (*Dense, error) {
	inputs := make([]*Dense, len(e.children))
	for i, child := range e.children {
		input, err := evaluateOperand(child, dev)
		if err != nil {
			return nil, errors.Annotatef(err, "evaluate %s child %d", e.op, i)
		}
		inputs[i] = input
	}
	return e.op.apply(inputs...), nil
}

func (e *Expression) stripped() *Expression {
	children := lo.Map(e.children, func(child Operand, _ int) Operand {
		return stripOperand(child)
	})
	rowLabels, colLabels := operandLabels(children[0])
	return &Expression{
		op:        e.op,
		children:  children,
		rows:      e.rows,
		cols:      e.cols,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}
}

// Stripped replaces every frame in the tree by its payload. Labels carried by
// the expression itself are dropped alongside.
func (e *Expression) Stripped() Matrix { return e.stripped() }

func (e *Expression) rowSlice(rows []int) (*Expression, error) {
	children := make([]Operand, len(e.children))
	for i, child := range e.children {
		sliced, err := sliceOperand(child, rows)
		if err != nil {
			return nil, errors.Annotatef(err, "row-slice %s child %d", e.op, i)
		}
		children[i] = sliced
	}
	rowLabels, colLabels := operandLabels(children[0])
	return &Expression{
		op:        e.op,
		children:  children,
		rows:      len(rows),
		cols:      e.cols,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}, nil
}

// RowSlice selects rows by position in every child. Scalar children broadcast
// and pass through.
func (e *Expression) RowSlice(rows ...int) (Matrix, error) {
	return e.rowSlice(rows)
}

// Get returns row i as a 1 x cols expression.
func (e *Expression) Get(i int) (Matrix, error) {
	return e.rowSlice([]int{i})
}

func (e *Expression) transpose() *Expression {
	children := lo.Map(e.children, func(child Operand, _ int) Operand {
		return transposeOperand(child)
	})
	rowLabels, colLabels := operandLabels(children[0])
	return &Expression{
		op:        e.op,
		children:  children,
		rows:      e.cols,
		cols:      e.rows,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}
}

// T transposes every child and keeps the operator.
func (e *Expression) T() Matrix { return e.transpose() }

func collateExpressions(items []*Expression) (*Expression, error) {
	first := items[0]
	rows := 0
	for _, item := range items {
		if item.op != first.op || len(item.children) != len(first.children) {
			return nil, errors.Annotatef(ErrUnsupportedOperand,
				"collate %s with %s", first.op, item.op)
		}
		rows += item.rows
	}
	children := make([]Operand, len(first.children))
	for j := range first.children {
		ops := make([]Operand, len(items))
		for i, item := range items {
			ops[i] = item.children[j]
		}
		collated, err := collateOperands(ops)
		if err != nil {
			return nil, errors.Annotatef(err, "collate %s child %d", first.op, j)
		}
		children[j] = collated
	}
	rowLabels, colLabels := operandLabels(children[0])
	return &Expression{
		op:        first.op,
		children:  children,
		rows:      rows,
		cols:      first.cols,
		rowLabels: rowLabels,
		colLabels: colLabels,
	}, nil
}

// Collate stacks expressions sliced from the same tree child by child.
func (e *Expression) Collate(batch []Matrix) (Matrix, error) {
	if len(batch) == 0 {
		return nil, errors.Annotate(ErrEmptyOperand, "collate expression")
	}
	items := make([]*Expression, len(batch))
	for i, m := range batch {
		item, ok := m.(*Expression)
		if !ok {
			return nil, errors.Annotatef(ErrUnsupportedOperand, "collate expression with %s", kindOf(m))
		}
		items[i] = item
	}
	return collateExpressions(items)
}

// BatchSize returns the recommended number of rows per evaluation batch for
// the target device.
func (e *Expression) BatchSize(dev device.Device) int {
	return RecommendedBatchSize(e.rows, e.cols, dev, DefaultMemoryFraction)
}

// Add returns the lazy elementwise sum with another operand.
func (e *Expression) Add(other Operand) (*Expression, error) {
	return newExpression(addOp{}, e, other)
}

// Multiply returns the lazy elementwise product with another operand.
func (e *Expression) Multiply(other Operand) (*Expression, error) {
	return newExpression(mulOp{}, e, other)
}

// Clip returns a lazy copy with all entries clamped into [lo, hi].
func (e *Expression) Clip(lo, hi float32) *Expression {
	return newUnary(clipOp{lo: lo, hi: hi}, e)
}
