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

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	idx := NewIndex([]string{"a", "b", "c"})
	assert.Equal(t, int32(3), idx.Len())
	assert.Equal(t, int32(0), idx.ToNumber("a"))
	assert.Equal(t, int32(2), idx.ToNumber("c"))
	assert.Equal(t, NotId, idx.ToNumber("d"))
	assert.Equal(t, "b", idx.ToName(1))
	assert.Equal(t, []string{"a", "b", "c"}, idx.GetNames())

	idx.Add("d")
	idx.Add("a")
	assert.Equal(t, int32(4), idx.Len())
	assert.Equal(t, int32(3), idx.ToNumber("d"))

	var empty *Index
	assert.Equal(t, int32(0), empty.Len())
}

func TestValidateLabels(t *testing.T) {
	assert.NoError(t, validateLabels(nil))
	assert.NoError(t, validateLabels([]string{"a", "b"}))
	assert.ErrorContains(t, validateLabels([]string{"a", "b", "a"}), "duplicate label")
}
