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

package device

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtual(t *testing.T) {
	dev := NewVirtual("emu0", 16e9)
	assert.Equal(t, "emu0", dev.Name())
	assert.Equal(t, uint64(16e9), dev.TotalMemory())
	assert.Zero(t, dev.Allocated())

	values := []float32{1, 2, 3}
	uploaded := dev.Upload(values)
	assert.Equal(t, values, uploaded)
	assert.Equal(t, uint64(12), dev.Allocated())
	// device copies are independent of host memory
	values[0] = 42
	assert.Equal(t, float32(1), uploaded[0])

	indices := dev.UploadIndex([]int32{0, 1})
	assert.Equal(t, []int32{0, 1}, indices)
	assert.Equal(t, uint64(20), dev.Allocated())

	downloaded := dev.Download(uploaded)
	assert.Equal(t, []float32{1, 2, 3}, downloaded)
	uploaded[1] = 42
	assert.Equal(t, float32(2), downloaded[1])
	// downloads do not allocate device memory
	assert.Equal(t, uint64(20), dev.Allocated())
}

func TestVirtualConcurrentUpload(t *testing.T) {
	dev := NewVirtual("emu0", 16e9)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dev.Upload(make([]float32, 100))
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(16*100*4), dev.Allocated())
}
