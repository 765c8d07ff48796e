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
	"github.com/gorse-io/scoremat/device"
)

const (
	// DefaultTotalMemory is the memory budget in bytes assumed when no device
	// is given.
	DefaultTotalMemory uint64 = 16e9
	// DefaultMemoryFraction is the share of memory a single evaluated batch
	// may occupy.
	DefaultMemoryFraction = 0.1
)

// RecommendedBatchSize returns the number of rows per batch so that one
// evaluated batch stays within a fraction of the device memory, or of
// DefaultTotalMemory when dev is nil. The estimate assumes 8 bytes per entry
// and is an approximation, not a guarantee. Batches split the rows evenly:
// the result is the ceiling of rows over the number of batches. Non-positive
// fractions fall back to DefaultMemoryFraction.
func RecommendedBatchSize(rows, cols int, dev device.Device, fraction float64) int {
	if fraction <= 0 {
		fraction = DefaultMemoryFraction
	}
	total := float64(DefaultTotalMemory)
	if dev != nil {
		total = float64(dev.TotalMemory())
	}
	maxRows := total / 8 / float64(cols) * fraction
	nBatches := int(float64(rows)/maxRows) + 1
	return (rows + nBatches - 1) / nBatches
}
