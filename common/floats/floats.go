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

// Package floats provides 32-bit float kernels for score matrix evaluation.
package floats

import (
	"github.com/chewxy/math32"
)

// Dot two vectors.
func Dot(a, b []float32) (ret float32) {
	if len(a) != len(b) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		ret += a[i] * b[i]
	}
	return
}

// AddTo adds two vectors and saves the result in dst: dst = a + b
func AddTo(a, b, dst []float32) {
	if len(a) != len(b) || len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

// MulTo multiplies two vectors and saves the result in dst: dst = a * b
func MulTo(a, b, dst []float32) {
	if len(a) != len(b) || len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] = a[i] * b[i]
	}
}

// AddConst adds a const to a vector: dst = dst + c
func AddConst(dst []float32, c float32) {
	for i := range dst {
		dst[i] += c
	}
}

// MulConst multiplies a vector by a const: dst = dst * c
func MulConst(dst []float32, c float32) {
	for i := range dst {
		dst[i] *= c
	}
}

// MulConstAdd multiplies a vector by a const, then adds to dst: dst = dst + a * c
func MulConstAdd(a []float32, c float32, dst []float32) {
	if len(a) != len(dst) {
		panic("floats: slice lengths do not match")
	}
	for i := range a {
		dst[i] += a[i] * c
	}
}

// Exp replaces each element of dst with its natural exponential.
func Exp(dst []float32) {
	for i := range dst {
		dst[i] = math32.Exp(dst[i])
	}
}

// Logistic replaces each element x of dst with 1/(1+exp(-x)).
func Logistic(dst []float32) {
	for i := range dst {
		dst[i] = 1 / (1 + math32.Exp(-dst[i]))
	}
}

// Clip clamps each element of dst into [lo, hi].
func Clip(dst []float32, lo, hi float32) {
	for i := range dst {
		if dst[i] < lo {
			dst[i] = lo
		} else if dst[i] > hi {
			dst[i] = hi
		}
	}
}

// Sum returns the sum of all elements.
func Sum(a []float32) (ret float32) {
	for i := range a {
		ret += a[i]
	}
	return
}

// Max returns the maximum element. Max panics if the slice is empty.
func Max(a []float32) float32 {
	if len(a) == 0 {
		panic("floats: maximum of an empty slice")
	}
	ret := a[0]
	for _, v := range a[1:] {
		ret = math32.Max(ret, v)
	}
	return ret
}

// Min returns the minimum element. Min panics if the slice is empty.
func Min(a []float32) float32 {
	if len(a) == 0 {
		panic("floats: minimum of an empty slice")
	}
	ret := a[0]
	for _, v := range a[1:] {
		ret = math32.Min(ret, v)
	}
	return ret
}

// MM multiplies the m x k matrix A by the k x n matrix B and adds the result
// to the m x n matrix C. Matrices are row-major with leading dimensions lda,
// ldb and ldc. If transA or transB is set, the transpose of A or B is used
// instead, in which case A is stored k x m and B is stored n x k.
func MM(transA, transB bool, m, n, k int, a []float32, lda int, b []float32, ldb int, c []float32, ldc int) {
	if !transA && !transB {
		for i := 0; i < m; i++ {
			for l := 0; l < k; l++ {
				MulConstAdd(b[l*ldb:l*ldb+n], a[i*lda+l], c[i*ldc:i*ldc+n])
			}
		}
	} else if !transA && transB {
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				c[i*ldc+j] += Dot(a[i*lda:i*lda+k], b[j*ldb:j*ldb+k])
			}
		}
	} else if transA && !transB {
		for i := 0; i < m; i++ {
			for l := 0; l < k; l++ {
				MulConstAdd(b[l*ldb:l*ldb+n], a[l*lda+i], c[i*ldc:i*ldc+n])
			}
		}
	} else {
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				for l := 0; l < k; l++ {
					c[i*ldc+j] += a[l*lda+i] * b[j*ldb+l]
				}
			}
		}
	}
}
