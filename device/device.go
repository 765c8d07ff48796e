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

// Package device abstracts accelerator placement for score evaluation.
// Callers pass a Device explicitly wherever placement matters; a nil Device
// stands for host evaluation.
package device

import "go.uber.org/atomic"

// Device is an accelerator holding evaluation operands. Implementations copy
// slices between the host and the device address space.
type Device interface {
	// Name identifies the device.
	Name() string
	// TotalMemory returns the device memory in bytes.
	TotalMemory() uint64
	// Upload copies values to the device and returns the device copy.
	Upload(data []float32) []float32
	// UploadIndex copies an index array to the device and returns the device
	// copy.
	UploadIndex(data []int32) []int32
	// Download copies values back to host memory.
	Download(data []float32) []float32
}

// Virtual emulates an accelerator in host memory. Uploads copy slices and
// track the allocated bytes, which makes placement and capacity planning
// observable in tests and benchmarks.
type Virtual struct {
	name        string
	totalMemory uint64
	allocated   atomic.Uint64
}

// NewVirtual creates an emulated device with a fixed memory capacity.
func NewVirtual(name string, totalMemory uint64) *Virtual {
	return &Virtual{name: name, totalMemory: totalMemory}
}

// Name identifies the device.
func (d *Virtual) Name() string { return d.name }

// TotalMemory returns the device memory in bytes.
func (d *Virtual) TotalMemory() uint64 { return d.totalMemory }

// Allocated returns the number of bytes uploaded so far.
func (d *Virtual) Allocated() uint64 { return d.allocated.Load() }

// Upload copies values into the emulated device space.
func (d *Virtual) Upload(data []float32) []float32 {
	out := make([]float32, len(data))
	copy(out, data)
	d.allocated.Add(uint64(len(data)) * 4)
	return out
}

// UploadIndex copies an index array into the emulated device space.
func (d *Virtual) UploadIndex(data []int32) []int32 {
	out := make([]int32, len(data))
	copy(out, data)
	d.allocated.Add(uint64(len(data)) * 4)
	return out
}

// Download copies values back to host memory.
func (d *Virtual) Download(data []float32) []float32 {
	out := make([]float32, len(data))
	copy(out, data)
	return out
}
