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
package kvs

import (
	"testing"
	"time"

	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/stretchr/testify/assert"
)

func TestRecord_Copy(t *testing.T) {
	r := Record{Key: "aa", Version: "333", Value: []byte("ddfd"), ExpiresAt: cast.Ptr(time.Now())}
	r1 := r.Copy()
	assert.Equal(t, r, r1)
	r1.Value[0] = 'x'
	assert.Equal(t, byte('d'), r.Value[0])
}

func TestRecord_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Record{}.Expired(now))
	assert.False(t, Record{ExpiresAt: cast.Ptr(now.Add(time.Second))}.Expired(now))
	assert.True(t, Record{ExpiresAt: cast.Ptr(now)}.Expired(now))
}
