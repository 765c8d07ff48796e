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
	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
)

// Frame attaches row and column labels to a dense or sparse payload. Labels
// identify users and items but never change values: evaluation requires
// stripping them first.
type Frame struct {
	payload   Operand
	rowLabels []string
	colLabels []string
	rowIndex  *Index
	colIndex  *Index
}

// NewFrame creates a labeled matrix over a dense or sparse payload. Label
// counts must match the payload shape and labels must be unique per axis.
func NewFrame(payload Operand, rowLabels, colLabels []string) (*Frame, error) {
	switch payload.(type) {
	case *Dense, *CSR:
	default:
		return nil, errors.Annotatef(ErrUnsupportedOperand, "frame over %s", kindOf(payload))
	}
	rows, cols := payload.Shape()
	if len(rowLabels) != rows || len(colLabels) != cols {
		return nil, errors.Annotatef(ErrShapeMismatch,
			"%dx%d labels over %dx%d payload", len(rowLabels), len(colLabels), rows, cols)
	}
	if err := validateLabels(rowLabels); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validateLabels(colLabels); err != nil {
		return nil, errors.Trace(err)
	}
	return &Frame{
		payload:   payload,
		rowLabels: rowLabels,
		colLabels: colLabels,
		rowIndex:  NewIndex(rowLabels),
		colIndex:  NewIndex(colLabels),
	}, nil
}

// FrameFromEvents builds a sparse labeled matrix from (row label, column
// label, value) triplets, one per interaction event. Every event label must
// appear in the axis labels. Duplicate events are kept and sum on
// materialization.
func FrameFromEvents(rowLabels, colLabels, eventRows, eventCols []string, values []float32) (*Frame, error) {
	if len(eventRows) != len(values) || len(eventCols) != len(values) {
		return nil, errors.Annotatef(ErrShapeMismatch,
			"%d values over %dx%d event labels", len(values), len(eventRows), len(eventCols))
	}
	if err := validateLabels(rowLabels); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validateLabels(colLabels); err != nil {
		return nil, errors.Trace(err)
	}
	rowIndex, colIndex := NewIndex(rowLabels), NewIndex(colLabels)
	rowIndices := make([]int32, len(values))
	colIndices := make([]int32, len(values))
	for p := range values {
		if rowIndices[p] = rowIndex.ToNumber(eventRows[p]); rowIndices[p] == NotId {
			return nil, errors.Errorf("unknown row label %q", eventRows[p])
		}
		if colIndices[p] = colIndex.ToNumber(eventCols[p]); colIndices[p] == NotId {
			return nil, errors.Errorf("unknown column label %q", eventCols[p])
		}
	}
	coo := NewCOO(len(rowLabels), len(colLabels), rowIndices, colIndices, values)
	return NewFrame(coo.CSR(), rowLabels, colLabels)
}

// Shape returns the number of rows and columns.
func (f *Frame) Shape() (int, int) { return f.payload.Shape() }

func (f *Frame) isOperand() {}

// Payload returns the underlying matrix without labels.
func (f *Frame) Payload() Operand { return f.payload }

// RowLabels returns the row labels in matrix order.
func (f *Frame) RowLabels() []string { return f.rowLabels }

// ColLabels returns the column labels in matrix order.
func (f *Frame) ColLabels() []string { return f.colLabels }

// T returns the transpose with axes and labels swapped.
func (f *Frame) T() *Frame {
	var payload Operand
	switch v := f.payload.(type) {
	case *Dense:
		payload = v.T()
	case *CSR:
		payload = v.T()
	}
	return &Frame{
		payload:   payload,
		rowLabels: f.colLabels,
		colLabels: f.rowLabels,
		rowIndex:  f.colIndex,
		colIndex:  f.rowIndex,
	}
}

// COO returns the payload in coordinate form.
func (f *Frame) COO() *COO {
	switch v := f.payload.(type) {
	case *CSR:
		return v.COO()
	case *Dense:
		rowIndices := make([]int32, 0)
		colIndices := make([]int32, 0)
		values := make([]float32, 0)
		for i := 0; i < v.rows; i++ {
			for j := 0; j < v.cols; j++ {
				if entry := v.At(i, j); entry != 0 {
					rowIndices = append(rowIndices, int32(i))
					colIndices = append(colIndices, int32(j))
					values = append(values, entry)
				}
			}
		}
		return NewCOO(v.rows, v.cols, rowIndices, colIndices, values)
	default:
		return nil
	}
}

// Reindex rearranges one axis to follow a new label order. Labels absent from
// the frame produce rows or columns filled with the fill value. A sparse
// payload stays sparse: the payload is extended by a single fill row,
// explicit zeros are eliminated and rows are gathered through the label map.
func (f *Frame) Reindex(labels []string, axis int, fill float32) (*Frame, error) {
	switch axis {
	case 0:
	case 1:
		t, err := f.T().Reindex(labels, 0, fill)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return t.T(), nil
	default:
		return nil, errors.Errorf("invalid axis %d", axis)
	}
	if err := validateLabels(labels); err != nil {
		return nil, errors.Trace(err)
	}
	rows, _ := f.payload.Shape()
	found := bitset.New(uint(len(labels)))
	positions := make([]int, len(labels))
	for i, label := range labels {
		if pos := f.rowIndex.ToNumber(label); pos != NotId {
			found.Set(uint(i))
			positions[i] = int(pos)
		} else {
			positions[i] = rows // the appended fill row
		}
	}
	var payload Operand
	switch v := f.payload.(type) {
	case *CSR:
		src := v
		if !found.All() {
			stacked, err := VStackCSR([]*CSR{v, fillRow(v.Cols(), fill)})
			if err != nil {
				return nil, errors.Trace(err)
			}
			src = stacked.EliminateZeros()
		}
		payload = src.RowSlice(positions...)
	case *Dense:
		out := Zeros(len(labels), v.cols)
		for i, pos := range positions {
			row := out.Row(i)
			if pos < rows {
				copy(row, v.Row(pos))
			} else {
				for j := range row {
					row[j] = fill
				}
			}
		}
		payload = out
	}
	return NewFrame(payload, labels, f.colLabels)
}

// fillRow builds a single sparse row with an explicit fill value in every
// column.
func fillRow(cols int, fill float32) *CSR {
	indices := make([]int32, cols)
	values := make([]float32, cols)
	for j := range indices {
		indices[j] = int32(j)
		values[j] = fill
	}
	return &CSR{indptr: []int32{0, int32(cols)}, indices: indices, values: values, cols: cols}
}
