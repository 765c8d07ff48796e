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

// Package loader iterates finite sequences in fixed-size batches.
package loader

import (
	"io"

	"github.com/juju/errors"
	"modernc.org/mathutil"
)

// Sequence is a finite random-access collection whose items can be stacked
// back into one value.
type Sequence[T any] interface {
	// Len returns the number of items.
	Len() int
	// Get returns the item at position i.
	Get(i int) (T, error)
	// Collate stacks a batch of items into a single value.
	Collate(batch []T) (T, error)
}

// Loader yields consecutive batches of a sequence in ascending order. Every
// batch is assembled by fetching its items one by one and collating them.
// Loaders are not restartable: once Next returns io.EOF it keeps doing so.
type Loader[T any] struct {
	seq       Sequence[T]
	batchSize int
	cursor    int
}

// New creates a Loader over a sequence. Batch sizes below one are clamped to
// one.
func New[T any](seq Sequence[T], batchSize int) *Loader[T] {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Loader[T]{seq: seq, batchSize: batchSize}
}

// BatchSize returns the number of items per batch.
func (l *Loader[T]) BatchSize() int { return l.batchSize }

// BatchCount returns the total number of batches.
func (l *Loader[T]) BatchCount() int {
	return (l.seq.Len() + l.batchSize - 1) / l.batchSize
}

// Next returns the next batch, or io.EOF after the last one. The final batch
// holds the remaining items and may be short.
func (l *Loader[T]) Next() (T, error) {
	var zero T
	if l.cursor >= l.seq.Len() {
		return zero, io.EOF
	}
	end := mathutil.Min(l.cursor+l.batchSize, l.seq.Len())
	items := make([]T, 0, end-l.cursor)
	for i := l.cursor; i < end; i++ {
		item, err := l.seq.Get(i)
		if err != nil {
			return zero, errors.Trace(err)
		}
		items = append(items, item)
	}
	l.cursor = end
	return l.seq.Collate(items)
}
