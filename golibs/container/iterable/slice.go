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

type sliceIterator[V any] struct {
	s   []V
	idx int
}

var _ Iterator[int] = (*sliceIterator[int])(nil)

// WrapSlice returns the Iterator over the elements of s in the order they
// are stored in the slice. The slice is not copied, so the caller must not
// modify it until the iterator is closed.
func WrapSlice[V any](s []V) Iterator[V] {
	if len(s) == 0 {
		return &EmptyIterator[V]{}
	}
	return &sliceIterator[V]{s: s}
}

func (si *sliceIterator[V]) HasNext() bool {
	return si.idx < len(si.s)
}

func (si *sliceIterator[V]) Next() (V, bool) {
	if si.idx < len(si.s) {
		i := si.idx
		si.idx++
		return si.s[i], true
	}
	return *new(V), false
}

func (si *sliceIterator[V]) Close() error {
	si.s = nil
	si.idx = 0
	return nil
}

// Collect drains the iterator into a slice and closes it.
func Collect[V any](it Iterator[V]) []V {
	defer it.Close()
	var res []V
	for it.HasNext() {
		if v, ok := it.Next(); ok {
			res = append(res, v)
		}
	}
	return res
}
