// Copyright 2023 The acquirecloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
/*
Package lru contains the container with limited size capacity and LRU
(Least Recently Used) pull out discipline. The container uses golang generics,
so it can be instantiated for different key and value types.

Cache is built of two structures. The entries store keeps the values in a
pre-sized arena and links them into the recency list, the most recently used
entry is the head and the least recently used one is the tail. The index is a
fixed-width table of buckets which maps a key to the handle of its entry in
the store. The bucket of a key is chosen by the Hasher provided on the Cache
creation.

Cache is not safe for concurrent use. LoadingCache wraps it with a mutex and
adds loading of missing values on demand.
*/
package lru
