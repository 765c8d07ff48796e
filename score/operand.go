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

// Package score evaluates huge score matrices produced by recommendation
// models without materializing them. Matrices are represented as lazy
// expression trees over heterogeneous operands. Evaluation walks the tree,
// densifies leaves and applies operators batch by batch, so that a matrix of
// hundreds of millions of entries is never resident at once.
package score

import (
	"github.com/gorse-io/scoremat/device"
	"github.com/juju/errors"
)

// Operand is a value that may appear in a score expression. The set of
// operands is closed: Scalar, *Dense, *CSR, *Frame, *Expression and *LowRank.
type Operand interface {
	// Shape returns the number of rows and columns. Scalars report 1x1 and
	// broadcast against any shape.
	Shape() (rows, cols int)

	isOperand()
}

// Matrix is a lazily evaluable score matrix. It is implemented by
// *Expression and *LowRank. A Matrix iterates as a sequence of row batches
// and evaluates to a Dense result on demand.
type Matrix interface {
	Operand

	// Len returns the number of rows.
	Len() int
	// Size returns the total number of entries.
	Size() int
	// Evaluate computes the dense result. Passing a non-nil device places
	// leaves and the result on that device. Results are never cached, every
	// call recomputes the tree.
	Evaluate(dev device.Device) (*Dense, error)
	// Stripped returns an equivalent matrix with frame labels removed, so
	// that every leaf is a native operand. Stripping twice is a no-op.
	Stripped() Matrix
	// RowSlice selects rows by position, ignoring labels.
	RowSlice(rows ...int) (Matrix, error)
	// Get returns row i as a 1 x cols matrix.
	Get(i int) (Matrix, error)
	// T returns the transpose.
	T() Matrix
	// Collate stacks row batches produced by RowSlice back into one matrix.
	Collate(batch []Matrix) (Matrix, error)
	// BatchSize returns the recommended number of rows per evaluation batch
	// for the target device.
	BatchSize(dev device.Device) int

	// Add returns the lazy elementwise sum with another operand.
	Add(other Operand) (*Expression, error)
	// Multiply returns the lazy elementwise product with another operand.
	Multiply(other Operand) (*Expression, error)
	// Clip returns a lazy copy with all entries clamped into [lo, hi].
	Clip(lo, hi float32) *Expression
}

// Scalar is a constant operand broadcast against any shape.
type Scalar float32

func (Scalar) Shape() (int, int) { return 1, 1 }

func (Scalar) isOperand() {}

// kindOf names an operand kind for error messages.
func kindOf(o Operand) string {
	switch o.(type) {
	case Scalar:
		return "scalar"
	case *Dense:
		return "dense"
	case *CSR:
		return "csr"
	case *Frame:
		return "frame"
	case *Expression:
		return "expression"
	case *LowRank:
		return "low-rank"
	default:
		return "unknown"
	}
}

// evaluateOperand densifies an operand onto the target device. Frames must be
// stripped before evaluation.
func evaluateOperand(o Operand, dev device.Device) (*Dense, error) {
	switch v := o.(type) {
	case Scalar:
		return NewDense(1, 1, []float32{float32(v)}), nil
	case *Dense:
		return v.To(dev), nil
	case *CSR:
		coo := v.COO()
		if dev != nil {
			coo = coo.To(dev)
		}
		return coo.Dense(), nil
	case *Frame:
		return nil, errors.Annotate(ErrUnsupportedOperand, "evaluate frame: strip labels first")
	case *Expression:
		return v.Evaluate(dev)
	case *LowRank:
		return v.Evaluate(dev)
	default:
		return nil, errors.Annotatef(ErrUnsupportedOperand, "evaluate %s", kindOf(o))
	}
}

// stripOperand reduces an operand to its native form. Frames are replaced by
// their payloads and expressions are stripped recursively.
func stripOperand(o Operand) Operand {
	switch v := o.(type) {
	case *Frame:
		return v.Payload()
	case *Expression:
		return v.stripped()
	default:
		return o
	}
}

// sliceOperand selects rows of an operand by position. Scalars broadcast and
// pass through unchanged.
func sliceOperand(o Operand, rows []int) (Operand, error) {
	switch v := o.(type) {
	case Scalar:
		return v, nil
	case *Dense:
		return v.RowSlice(rows...), nil
	case *CSR:
		return v.RowSlice(rows...), nil
	case *Frame:
		return nil, errors.Annotate(ErrUnsupportedOperand, "row-slice frame: strip labels first")
	case *Expression:
		return v.rowSlice(rows)
	case *LowRank:
		return v.rowSlice(rows), nil
	default:
		return nil, errors.Annotatef(ErrUnsupportedOperand, "row-slice %s", kindOf(o))
	}
}

// transposeOperand transposes an operand. Scalars pass through unchanged.
func transposeOperand(o Operand) Operand {
	switch v := o.(type) {
	case Scalar:
		return v
	case *Dense:
		return v.T()
	case *CSR:
		return v.T()
	case *Frame:
		return v.T()
	case *Expression:
		return v.transpose()
	case *LowRank:
		return v.transpose()
	default:
		return o
	}
}

// collateOperands stacks operands sliced from the same child position. The
// kind of the first operand decides the strategy and all operands must share
// that kind.
func collateOperands(ops []Operand) (Operand, error) {
	switch first := ops[0].(type) {
	case Scalar:
		return first, nil
	case *Dense:
		items := make([]*Dense, len(ops))
		for i, o := range ops {
			d, ok := o.(*Dense)
			if !ok {
				return nil, errors.Annotatef(ErrUnsupportedOperand, "collate dense with %s", kindOf(o))
			}
			items[i] = d
		}
		return VStackDense(items)
	case *CSR:
		items := make([]*CSR, len(ops))
		for i, o := range ops {
			c, ok := o.(*CSR)
			if !ok {
				return nil, errors.Annotatef(ErrUnsupportedOperand, "collate csr with %s", kindOf(o))
			}
			items[i] = c
		}
		return VStackCSR(items)
	case *Expression:
		items := make([]*Expression, len(ops))
		for i, o := range ops {
			e, ok := o.(*Expression)
			if !ok {
				return nil, errors.Annotatef(ErrUnsupportedOperand, "collate expression with %s", kindOf(o))
			}
			items[i] = e
		}
		return collateExpressions(items)
	case *LowRank:
		items := make([]*LowRank, len(ops))
		for i, o := range ops {
			m, ok := o.(*LowRank)
			if !ok {
				return nil, errors.Annotatef(ErrUnsupportedOperand, "collate low-rank with %s", kindOf(o))
			}
			items[i] = m
		}
		return collateLowRank(items)
	case *Frame:
		return nil, errors.Annotate(ErrUnsupportedOperand, "collate frame: strip labels first")
	default:
		return nil, errors.Annotatef(ErrUnsupportedOperand, "collate %s", kindOf(ops[0]))
	}
}

// operandLabels returns the row and column labels carried by an operand, or
// nil for unlabeled kinds.
func operandLabels(o Operand) (rowLabels, colLabels []string) {
	switch v := o.(type) {
	case *Frame:
		return v.RowLabels(), v.ColLabels()
	case *Expression:
		return v.RowLabels(), v.ColLabels()
	case *LowRank:
		return v.RowLabels(), v.ColLabels()
	default:
		return nil, nil
	}
}
