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

package floats

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	assert.InDelta(t, float32(70), Dot(a, b), eps)
	assert.Panics(t, func() { Dot(a, b[:3]) })
}

func TestAddTo(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	dst := make([]float32, 4)
	AddTo(a, b, dst)
	assert.Equal(t, []float32{6, 8, 10, 12}, dst)
	assert.Panics(t, func() { AddTo(a, b, dst[:3]) })
}

func TestMulTo(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	dst := make([]float32, 4)
	MulTo(a, b, dst)
	assert.Equal(t, []float32{5, 12, 21, 32}, dst)
	assert.Panics(t, func() { MulTo(a, b[:3], dst) })
}

func TestAddConst(t *testing.T) {
	dst := []float32{1, 2, 3, 4}
	AddConst(dst, 2)
	assert.Equal(t, []float32{3, 4, 5, 6}, dst)
}

func TestMulConst(t *testing.T) {
	dst := []float32{1, 2, 3, 4}
	MulConst(dst, 2)
	assert.Equal(t, []float32{2, 4, 6, 8}, dst)
}

func TestMulConstAdd(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	dst := []float32{1, 1, 1, 1}
	MulConstAdd(a, 2, dst)
	assert.Equal(t, []float32{3, 5, 7, 9}, dst)
	assert.Panics(t, func() { MulConstAdd(a[:3], 2, dst) })
}

func TestExp(t *testing.T) {
	dst := []float32{0, 1, -1}
	Exp(dst)
	assert.InDeltaSlice(t, []float32{1, math32.E, 1 / math32.E}, dst, eps)
}

func TestLogistic(t *testing.T) {
	dst := []float32{0, math32.Inf(1), math32.Inf(-1)}
	Logistic(dst)
	assert.InDeltaSlice(t, []float32{0.5, 1, 0}, dst, eps)
}

func TestClip(t *testing.T) {
	dst := []float32{-2, -1, 0, 1, 2}
	Clip(dst, -1, 1)
	assert.Equal(t, []float32{-1, -1, 0, 1, 1}, dst)
}

func TestSum(t *testing.T) {
	assert.InDelta(t, float32(10), Sum([]float32{1, 2, 3, 4}), eps)
	assert.Zero(t, Sum(nil))
}

func TestMax(t *testing.T) {
	assert.Equal(t, float32(4), Max([]float32{3, 1, 4, 2}))
	assert.Panics(t, func() { Max(nil) })
}

func TestMin(t *testing.T) {
	assert.Equal(t, float32(1), Min([]float32{3, 1, 4, 2}))
	assert.Panics(t, func() { Min(nil) })
}

func TestMM(t *testing.T) {
	// A = |1 2 3|  B = |1 4|
	//     |4 5 6|      |2 5|
	//                  |3 6|
	a := []float32{1, 2, 3, 4, 5, 6}
	b := []float32{1, 4, 2, 5, 3, 6}
	expected := []float32{14, 32, 32, 77}

	c := make([]float32, 4)
	MM(false, false, 2, 2, 3, a, 3, b, 2, c, 2)
	assert.InDeltaSlice(t, expected, c, eps)

	// B^T is stored 2 x 3, identical to A.
	c = make([]float32, 4)
	MM(false, true, 2, 2, 3, a, 3, a, 3, c, 2)
	assert.InDeltaSlice(t, expected, c, eps)

	// A^T is stored 3 x 2, identical to B.
	c = make([]float32, 4)
	MM(true, false, 2, 2, 3, b, 2, b, 2, c, 2)
	assert.InDeltaSlice(t, expected, c, eps)

	c = make([]float32, 4)
	MM(true, true, 2, 2, 3, b, 2, a, 3, c, 2)
	assert.InDeltaSlice(t, expected, c, eps)
}

func TestMMAccumulates(t *testing.T) {
	a := []float32{1, 0, 0, 1}
	c := []float32{1, 1, 1, 1}
	MM(false, false, 2, 2, 2, a, 2, a, 2, c, 2)
	assert.Equal(t, []float32{2, 1, 1, 2}, c)
}
