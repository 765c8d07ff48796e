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

	"github.com/gorse-io/scoremat/device"
	"github.com/juju/errors"
)

// CSR is a sparse matrix in compressed sparse row form. Entries of row i live
// at positions indptr[i] to indptr[i+1] of indices and values.
type CSR struct {
	indptr  []int32
	indices []int32
	values  []float32
	cols    int
}

// NewCSR creates a sparse matrix from compressed sparse row arrays. NewCSR
// panics if the arrays are inconsistent.
func NewCSR(indptr, indices []int32, values []float32, cols int) *CSR {
	if len(indptr) < 1 {
		panic("score: indptr must hold at least one offset")
	}
	if len(indices) != len(values) {
		panic(fmt.Sprintf("score: expected %d values but got %d", len(indices), len(values)))
	}
	if int(indptr[len(indptr)-1]) != len(indices) {
		panic(fmt.Sprintf("score: expected %d entries but got %d", indptr[len(indptr)-1], len(indices)))
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: cols}
}

// Shape returns the number of rows and columns.
func (m *CSR) Shape() (int, int) { return len(m.indptr) - 1, m.cols }

// Rows returns the number of rows.
func (m *CSR) Rows() int { return len(m.indptr) - 1 }

// Cols returns the number of columns.
func (m *CSR) Cols() int { return m.cols }

// NNZ returns the number of stored entries, including explicit zeros.
func (m *CSR) NNZ() int { return len(m.values) }

func (m *CSR) isOperand() {}

// RowSlice gathers rows by position into a new matrix.
func (m *CSR) RowSlice(rows ...int) *CSR {
	indptr := make([]int32, 1, len(rows)+1)
	indices := make([]int32, 0)
	values := make([]float32, 0)
	for _, i := range rows {
		start, end := m.indptr[i], m.indptr[i+1]
		indices = append(indices, m.indices[start:end]...)
		values = append(values, m.values[start:end]...)
		indptr = append(indptr, int32(len(indices)))
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: m.cols}
}

// T returns the transpose, rebuilt by counting entries per column.
func (m *CSR) T() *CSR {
	rows := m.Rows()
	indptr := make([]int32, m.cols+1)
	for _, j := range m.indices {
		indptr[j+1]++
	}
	for j := 0; j < m.cols; j++ {
		indptr[j+1] += indptr[j]
	}
	indices := make([]int32, len(m.indices))
	values := make([]float32, len(m.values))
	next := make([]int32, m.cols)
	copy(next, indptr[:m.cols])
	for i := 0; i < rows; i++ {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			j := m.indices[p]
			indices[next[j]] = int32(i)
			values[next[j]] = m.values[p]
			next[j]++
		}
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: rows}
}

// EliminateZeros returns a copy without explicitly stored zero values.
func (m *CSR) EliminateZeros() *CSR {
	indptr := make([]int32, 1, len(m.indptr))
	indices := make([]int32, 0, len(m.indices))
	values := make([]float32, 0, len(m.values))
	for i := 0; i < m.Rows(); i++ {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			if m.values[p] != 0 {
				indices = append(indices, m.indices[p])
				values = append(values, m.values[p])
			}
		}
		indptr = append(indptr, int32(len(indices)))
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: m.cols}
}

// Dense materializes the matrix. Duplicate entries are summed.
func (m *CSR) Dense() *Dense {
	out := Zeros(m.Rows(), m.cols)
	for i := 0; i < m.Rows(); i++ {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			out.data[i*m.cols+int(m.indices[p])] += m.values[p]
		}
	}
	return out
}

// COO converts the matrix to coordinate form.
func (m *CSR) COO() *COO {
	rowIndices := make([]int32, 0, len(m.values))
	for i := 0; i < m.Rows(); i++ {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			rowIndices = append(rowIndices, int32(i))
		}
	}
	colIndices := make([]int32, len(m.indices))
	copy(colIndices, m.indices)
	values := make([]float32, len(m.values))
	copy(values, m.values)
	return &COO{
		rowIndices: rowIndices,
		colIndices: colIndices,
		values:     values,
		rows:       m.Rows(),
		cols:       m.cols,
	}
}

// VStackCSR stacks sparse matrices vertically. All matrices must have the
// same number of columns.
func VStackCSR(items []*CSR) (*CSR, error) {
	nnz := 0
	rows := 0
	for _, item := range items {
		if item.cols != items[0].cols {
			return nil, errors.Annotatef(ErrShapeMismatch,
				"stack %dx%d on %d columns", item.Rows(), item.cols, items[0].cols)
		}
		nnz += item.NNZ()
		rows += item.Rows()
	}
	indptr := make([]int32, 1, rows+1)
	indices := make([]int32, 0, nnz)
	values := make([]float32, 0, nnz)
	for _, item := range items {
		offset := int32(len(indices))
		for _, p := range item.indptr[1:] {
			indptr = append(indptr, p+offset)
		}
		indices = append(indices, item.indices...)
		values = append(values, item.values...)
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: items[0].cols}, nil
}

// COO is a sparse matrix in coordinate form, optionally resident on a device.
// It is the transfer format for uploading sparse operands.
type COO struct {
	rowIndices []int32
	colIndices []int32
	values     []float32
	rows, cols int
	dev        device.Device
}

// NewCOO creates a sparse matrix from coordinate triplets. NewCOO panics if
// the arrays differ in length.
func NewCOO(rows, cols int, rowIndices, colIndices []int32, values []float32) *COO {
	if len(rowIndices) != len(values) || len(colIndices) != len(values) {
		panic(fmt.Sprintf("score: expected %d coordinates but got %dx%d",
			len(values), len(rowIndices), len(colIndices)))
	}
	return &COO{rowIndices: rowIndices, colIndices: colIndices, values: values, rows: rows, cols: cols}
}

// Shape returns the number of rows and columns.
func (m *COO) Shape() (int, int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *COO) NNZ() int { return len(m.values) }

// Device returns the device the matrix resides on, or nil for host memory.
func (m *COO) Device() device.Device { return m.dev }

// Values returns the stored values.
func (m *COO) Values() []float32 { return m.values }

// RowIndices returns the row coordinate of each stored value.
func (m *COO) RowIndices() []int32 { return m.rowIndices }

// ColIndices returns the column coordinate of each stored value.
func (m *COO) ColIndices() []int32 { return m.colIndices }

// To uploads coordinates and values to a device. Positions and values are
// preserved exactly. Passing nil or the current device returns the matrix
// unchanged.
func (m *COO) To(dev device.Device) *COO {
	if dev == nil || dev == m.dev {
		return m
	}
	return &COO{
		rowIndices: dev.UploadIndex(m.rowIndices),
		colIndices: dev.UploadIndex(m.colIndices),
		values:     dev.Upload(m.values),
		rows:       m.rows,
		cols:       m.cols,
		dev:        dev,
	}
}

// Dense materializes the matrix on its device. Duplicate entries are summed.
func (m *COO) Dense() *Dense {
	out := Zeros(m.rows, m.cols)
	for p, v := range m.values {
		out.data[int(m.rowIndices[p])*m.cols+int(m.colIndices[p])] += v
	}
	return out.To(m.dev)
}

// CSR converts the matrix to compressed sparse row form, sorting entries by
// row.
func (m *COO) CSR() *CSR {
	indptr := make([]int32, m.rows+1)
	for _, i := range m.rowIndices {
		indptr[i+1]++
	}
	for i := 0; i < m.rows; i++ {
		indptr[i+1] += indptr[i]
	}
	indices := make([]int32, len(m.values))
	values := make([]float32, len(m.values))
	next := make([]int32, m.rows)
	copy(next, indptr[:m.rows])
	for p, v := range m.values {
		i := m.rowIndices[p]
		indices[next[i]] = m.colIndices[p]
		values[next[i]] = v
		next[i]++
	}
	return &CSR{indptr: indptr, indices: indices, values: values, cols: m.cols}
}
