// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package container

import (
	"fmt"
	"io"

	"github.com/solarisdb/lrukv/golibs/errors"
)

type (
	// RingBuffer is a FIFO queue with the fixed capacity. It never allocates
	// after creation, which makes it suitable for keeping free slots of
	// pre-sized arenas.
	RingBuffer[V any] interface {
		// Write puts v to the end of the queue. It returns errors.ErrExhausted
		// if the maximum capacity of the buffer is reached
		Write(v V) error
		// Read takes the value from the head of the queue. It returns io.EOF
		// if the buffer is empty
		Read() (V, error)
		// Clear removes all elements from the buffer
		Clear()
		// Len returns the actual number of values can be read
		Len() int
		// Cap returns the maximum buffer capacity
		Cap() int
	}

	ringBuffer[V any] struct {
		r   int
		w   int
		buf []V
	}
)

var _ RingBuffer[int] = (*ringBuffer[int])(nil)

// NewRingBuffer returns the new instance of the *ringBuffer (which implements the RingBuffer)
func NewRingBuffer[V any](size uint) *ringBuffer[V] {
	// one extra cell distinguishes full from empty
	return &ringBuffer[V]{buf: make([]V, size+1)}
}

func (r *ringBuffer[V]) Write(v V) error {
	if r.Len() == r.Cap() {
		return fmt.Errorf("the buffer is full(%d): %w", r.Len(), errors.ErrExhausted)
	}
	r.buf[r.w] = v
	r.w = r.advance(r.w)
	return nil
}

func (r *ringBuffer[V]) Read() (V, error) {
	if r.r == r.w {
		return *new(V), io.EOF
	}
	v := r.buf[r.r]
	r.buf[r.r] = *new(V)
	r.r = r.advance(r.r)
	return v, nil
}

func (r *ringBuffer[V]) Clear() {
	SliceFill(r.buf, *new(V))
	r.r, r.w = 0, 0
}

func (r *ringBuffer[V]) Len() int {
	if r.r <= r.w {
		return r.w - r.r
	}
	return len(r.buf) - (r.r - r.w)
}

func (r *ringBuffer[V]) Cap() int {
	return len(r.buf) - 1
}

func (r *ringBuffer[V]) advance(i int) int {
	i++
	if i == len(r.buf) {
		return 0
	}
	return i
}
