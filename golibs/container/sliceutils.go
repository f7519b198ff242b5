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

// IndexFunc returns the position of the first element of the slice for which
// the predicate f returns true, or -1 if there is no such element.
func IndexFunc[V any](slice []V, f func(v V) bool) int {
	for idx := range slice {
		if f(slice[idx]) {
			return idx
		}
	}
	return -1
}

// SliceRemoveIdx removes the element at idx from the slice and return the updated slice.
// The last element is moved to idx, so the order of elements is not preserved. The
// function does it in place, so the original slice is changed
func SliceRemoveIdx[V any](slice []V, idx int) []V {
	last := len(slice) - 1
	slice[idx] = slice[last]
	slice[last] = *new(V)
	return slice[:last]
}

// SliceFill sets all values of s to v
func SliceFill[V any](s []V, v V) {
	// magic number when copy becomes faster
	if len(s) < 50 {
		for i := range s {
			s[i] = v
		}
		return
	}
	s[0] = v
	for j := 1; j < len(s); j *= 2 {
		copy(s[j:], s[:j])
	}
}
