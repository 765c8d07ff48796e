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
	"github.com/stretchr/testify/assert"
)

func TestRecommendedBatchSize(t *testing.T) {
	// 16e9/8/1000*0.1 = 200000 rows per batch at most, 6 batches
	assert.Equal(t, 166667, RecommendedBatchSize(1000000, 1000, nil, 0.1))
	// everything fits into one batch
	assert.Equal(t, 7, RecommendedBatchSize(7, 3, nil, 0.1))
	// zero rows ask for nothing
	assert.Equal(t, 0, RecommendedBatchSize(0, 1000, nil, 0.1))
}

func TestRecommendedBatchSizeDevice(t *testing.T) {
	// 8e9/8/1000*0.1 = 100000 rows per batch at most, 11 batches
	dev := device.NewVirtual("emu0", 8e9)
	assert.Equal(t, 90910, RecommendedBatchSize(1000000, 1000, dev, 0.1))
	// a tiny device degrades to single-row batches
	assert.Equal(t, 1, RecommendedBatchSize(7, 3, device.NewVirtual("tiny", 240), 0.1))
}

func TestRecommendedBatchSizeFraction(t *testing.T) {
	byDefault := RecommendedBatchSize(1000000, 1000, nil, DefaultMemoryFraction)
	// halving the fraction cannot grow the batches
	assert.LessOrEqual(t, RecommendedBatchSize(1000000, 1000, nil, 0.05), byDefault)
	// non-positive fractions fall back to the default
	assert.Equal(t, byDefault, RecommendedBatchSize(1000000, 1000, nil, 0))
	assert.Equal(t, byDefault, RecommendedBatchSize(1000000, 1000, nil, -1))
}
