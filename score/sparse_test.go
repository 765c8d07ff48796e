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
	"testing"

	"github.com/gorse-io/scoremat/device"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRDense(t *testing.T) {
	m := newTestCSR()
	rows, cols := m.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 4, m.NNZ())
	assert.Equal(t, []float32{
		1, 0, 2,
		0, 0, 0,
		3, 4, 0,
	}, m.Dense().Data())
}

func TestNewCSRPanics(t *testing.T) {
	assert.Panics(t, func() { NewCSR([]int32{}, nil, nil, 3) })
	assert.Panics(t, func() { NewCSR([]int32{0, 2}, []int32{0, 1}, []float32{1}, 3) })
	assert.Panics(t, func() { NewCSR([]int32{0, 3}, []int32{0, 1}, []float32{1, 2}, 3) })
}

func TestCSRRowSlice(t *testing.T) {
	m := newTestCSR()
	sliced := m.RowSlice(2, 0, 2)
	assert.Equal(t, []float32{
		3, 4, 0,
		1, 0, 2,
		3, 4, 0,
	}, sliced.Dense().Data())
}

func TestCSRT(t *testing.T) {
	m := newTestCSR()
	assert.True(t, m.Dense().T().Equal(m.T().Dense()))
	// transposing twice restores the matrix
	assert.True(t, m.Dense().Equal(m.T().T().Dense()))
}

func TestCSREliminateZeros(t *testing.T) {
	m := NewCSR([]int32{0, 2, 4}, []int32{0, 1, 0, 1}, []float32{1, 0, 0, 2}, 2)
	cleaned := m.EliminateZeros()
	assert.Equal(t, 2, cleaned.NNZ())
	assert.True(t, m.Dense().Equal(cleaned.Dense()))
}

func TestCSRCOORoundTrip(t *testing.T) {
	m := newTestCSR()
	coo := m.COO()
	assert.Equal(t, m.NNZ(), coo.NNZ())
	assert.True(t, m.Dense().Equal(coo.Dense()))
	assert.True(t, m.Dense().Equal(coo.CSR().Dense()))
}

func TestVStackCSR(t *testing.T) {
	m := newTestCSR()
	stacked, err := VStackCSR([]*CSR{m, m.RowSlice(0)})
	require.NoError(t, err)
	rows, cols := stacked.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []float32{
		1, 0, 2,
		0, 0, 0,
		3, 4, 0,
		1, 0, 2,
	}, stacked.Dense().Data())

	_, err = VStackCSR([]*CSR{m, NewCSR([]int32{0, 0}, nil, nil, 2)})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestCOOUploadCopies(t *testing.T) {
	coo := NewCOO(2, 2, []int32{0, 1}, []int32{1, 0}, []float32{5, 6})
	dev := device.NewVirtual("emu0", 1<<20)
	uploaded := coo.To(dev)
	assert.Same(t, dev, uploaded.Device())
	// the upload is an independent copy
	uploaded.Values()[0] = 7
	assert.Equal(t, float32(5), coo.Values()[0])
	// re-uploading to the same device is a no-op
	assert.Same(t, uploaded, uploaded.To(dev))
	assert.Same(t, coo, coo.To(nil))
}

func TestCOODuplicatesSum(t *testing.T) {
	coo := NewCOO(1, 2, []int32{0, 0}, []int32{1, 1}, []float32{2, 3})
	assert.Equal(t, []float32{0, 5}, coo.Dense().Data())
}
