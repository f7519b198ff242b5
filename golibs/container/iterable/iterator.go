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
package iterable

// Iterator walks over a collection. The caller checks HasNext, takes the
// element with Next and must call Close when done, even if the walk stopped
// early.
type Iterator[V any] interface {
	// HasNext returns true if Next has an element to return
	HasNext() bool

	// Next returns the current element and moves the iterator forward. The
	// second value is false when there is nothing left, the first one is the
	// zero value then.
	Next() (V, bool)

	// Close releases the iterator resources. The iterator must not be used
	// after the call.
	Close() error
}

// EmptyIterator is the Iterator over nothing
type EmptyIterator[V any] struct{}

var _ Iterator[int] = (*EmptyIterator[int])(nil)

func (ei *EmptyIterator[V]) HasNext() bool {
	return false
}

func (ei *EmptyIterator[V]) Next() (V, bool) {
	return *new(V), false
}

func (ei *EmptyIterator[V]) Close() error {
	return nil
}
