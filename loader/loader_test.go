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

package loader

import (
	"io"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

// charSeq yields the characters of a string and collates them back together.
type charSeq string

func (s charSeq) Len() int { return len(s) }

func (s charSeq) Get(i int) (string, error) {
	if i < 0 || i >= len(s) {
		return "", errors.Errorf("index %d out of range", i)
	}
	return string(s[i]), nil
}

func (charSeq) Collate(batch []string) (string, error) {
	return strings.Join(batch, ""), nil
}

func TestLoader(t *testing.T) {
	l := New[string](charSeq("abcde"), 2)
	assert.Equal(t, 2, l.BatchSize())
	assert.Equal(t, 3, l.BatchCount())
	for _, expected := range []string{"ab", "cd", "e"} {
		batch, err := l.Next()
		assert.NoError(t, err)
		assert.Equal(t, expected, batch)
	}
	_, err := l.Next()
	assert.ErrorIs(t, err, io.EOF)
	// exhausted loaders stay exhausted
	_, err = l.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoaderSingleBatch(t *testing.T) {
	l := New[string](charSeq("abcde"), 10)
	assert.Equal(t, 1, l.BatchCount())
	batch, err := l.Next()
	assert.NoError(t, err)
	assert.Equal(t, "abcde", batch)
	_, err = l.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoaderClampsBatchSize(t *testing.T) {
	l := New[string](charSeq("abc"), 0)
	assert.Equal(t, 1, l.BatchSize())
	assert.Equal(t, 3, l.BatchCount())
}

func TestLoaderEmpty(t *testing.T) {
	l := New[string](charSeq(""), 4)
	assert.Equal(t, 0, l.BatchCount())
	_, err := l.Next()
	assert.ErrorIs(t, err, io.EOF)
}

// failSeq fails on every Get.
type failSeq struct{}

func (failSeq) Len() int { return 3 }

func (failSeq) Get(i int) (int, error) {
	return 0, errors.Errorf("no item %d", i)
}

func (failSeq) Collate(batch []int) (int, error) {
	return 0, nil
}

func TestLoaderGetError(t *testing.T) {
	l := New[int](failSeq{}, 2)
	_, err := l.Next()
	assert.ErrorContains(t, err, "no item 0")
}
