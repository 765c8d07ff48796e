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
)

// Dense is a row-major matrix of 32-bit floats, optionally resident on a
// device. A nil device means host memory.
type Dense struct {
	rows, cols int
	data       []float32
	dev        device.Device
}

// NewDense creates a dense matrix backed by data. NewDense panics if the
// length of data doesn't match rows times columns.
func NewDense(rows, cols int, data []float32) *Dense {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("score: expected %d values but got %d", rows*cols, len(data)))
	}
	return &Dense{rows: rows, cols: cols, data: data}
}

// Zeros creates a dense matrix filled with zeros.
func Zeros(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

// Shape returns the number of rows and columns.
func (d *Dense) Shape() (int, int) { return d.rows, d.cols }

// Rows returns the number of rows.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dense) Cols() int { return d.cols }

// Data returns the backing slice in row-major order.
func (d *Dense) Data() []float32 { return d.data }

// Device returns the device the matrix resides on, or nil for host memory.
func (d *Dense) Device() device.Device { return d.dev }

// At returns the entry at row i and column j.
func (d *Dense) At(i, j int) float32 { return d.data[i*d.cols+j] }

// Set writes the entry at row i and column j.
func (d *Dense) Set(i, j int, v float32) { d.data[i*d.cols+j] = v }

// Row returns row i as a slice sharing the backing array.
func (d *Dense) Row(i int) []float32 { return d.data[i*d.cols : (i+1)*d.cols] }

func (d *Dense) isOperand() {}

// scalarLike reports whether the matrix is 1x1 and broadcasts elementwise.
func (d *Dense) scalarLike() bool { return d.rows == 1 && d.cols == 1 }

// Clone returns a deep copy on the same device.
func (d *Dense) Clone() *Dense {
	data := make([]float32, len(d.data))
	copy(data, d.data)
	return &Dense{rows: d.rows, cols: d.cols, data: data, dev: d.dev}
}

// To uploads the matrix to a device. Passing nil or the current device
// returns the matrix unchanged.
func (d *Dense) To(dev device.Device) *Dense {
	if dev == nil || dev == d.dev {
		return d
	}
	return &Dense{rows: d.rows, cols: d.cols, data: dev.Upload(d.data), dev: dev}
}

// Host downloads the matrix from its device. A host matrix is returned
// unchanged.
func (d *Dense) Host() *Dense {
	if d.dev == nil {
		return d
	}
	return &Dense{rows: d.rows, cols: d.cols, data: d.dev.Download(d.data)}
}

// RowSlice gathers rows by position into a new matrix.
func (d *Dense) RowSlice(rows ...int) *Dense {
	data := make([]float32, 0, len(rows)*d.cols)
	for _, i := range rows {
		data = append(data, d.Row(i)...)
	}
	return &Dense{rows: len(rows), cols: d.cols, data: data, dev: d.dev}
}

// T returns the materialized transpose.
func (d *Dense) T() *Dense {
	data := make([]float32, len(d.data))
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			data[j*d.rows+i] = d.data[i*d.cols+j]
		}
	}
	return &Dense{rows: d.cols, cols: d.rows, data: data, dev: d.dev}
}

// Equal reports whether two matrices have the same shape and entries.
func (d *Dense) Equal(other *Dense) bool {
	if d.rows != other.rows || d.cols != other.cols {
		return false
	}
	for i, v := range d.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// Max returns the maximum entry.
func (d *Dense) Max() float32 { return floats.Max(d.data) }

// Min returns the minimum entry.
func (d *Dense) Min() float32 { return floats.Min(d.data) }

// Sum returns the sum of all entries.
func (d *Dense) Sum() float32 { return floats.Sum(d.data) }

// VStackDense stacks matrices vertically. All matrices must have the same
// number of columns.
func VStackDense(items []*Dense) (*Dense, error) {
	rows := 0
	for _, item := range items {
		if item.cols != items[0].cols {
			return nil, errors.Annotatef(ErrShapeMismatch,
				"stack %dx%d on %d columns", item.rows, item.cols, items[0].cols)
		}
		rows += item.rows
	}
	data := make([]float32, 0, rows*items[0].cols)
	for _, item := range items {
		data = append(data, item.data...)
	}
	return &Dense{rows: rows, cols: items[0].cols, data: data, dev: items[0].dev}, nil
}
