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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapSlice(t *testing.T) {
	it := WrapSlice([]int{1, 2, 3})
	for i := 1; i <= 3; i++ {
		assert.True(t, it.HasNext())
		v, ok := it.Next()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.False(t, it.HasNext())
	_, ok := it.Next()
	assert.False(t, ok)
	assert.Nil(t, it.Close())
	assert.False(t, it.HasNext())
}

func TestWrapSlice_Empty(t *testing.T) {
	it := WrapSlice[string](nil)
	assert.False(t, it.HasNext())
	v, ok := it.Next()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.Nil(t, it.Close())
}

func TestCollect(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Collect(WrapSlice([]string{"a", "b"})))
	assert.Nil(t, Collect[int](&EmptyIterator[int]{}))
}
