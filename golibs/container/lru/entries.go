// Copyright 2024 The Solaris Authors
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
package lru

import (
	"fmt"
	"math"

	"github.com/solarisdb/lrukv/golibs/container"
)

type (
	// handle addresses an entry in the store. The gen must match the slot
	// generation, otherwise the handle outlived its entry.
	handle struct {
		slot uint32
		gen  uint32
	}

	entry[K comparable, V any] struct {
		key   K
		value V
		prev  handle
		next  handle
		gen   uint32
		live  bool
	}

	kv[K comparable, V any] struct {
		key   K
		value V
	}

	// entries is the recency ordered list of key-value pairs. The head is the
	// most recently used entry, the tail is the least recently used one.
	// The number of entries never exceeds the capacity.
	entries[K comparable, V any] struct {
		slots    []entry[K, V]
		free     container.RingBuffer[uint32]
		head     handle
		tail     handle
		length   int
		capacity int
	}
)

var nilHandle = handle{slot: math.MaxUint32}

func newEntries[K comparable, V any](capacity int) *entries[K, V] {
	return &entries[K, V]{
		slots:    make([]entry[K, V], 0, capacity),
		free:     container.NewRingBuffer[uint32](uint(capacity)),
		head:     nilHandle,
		tail:     nilHandle,
		capacity: capacity,
	}
}

// at returns the live entry for h, or nil if h is nil or stale.
func (es *entries[K, V]) at(h handle) *entry[K, V] {
	if h.slot >= uint32(len(es.slots)) {
		return nil
	}
	e := &es.slots[h.slot]
	if !e.live || e.gen != h.gen {
		return nil
	}
	return e
}

// append puts the key-value pair to the head of the list. If the store is
// full, the tail is evicted first and returned with true in the last value.
func (es *entries[K, V]) append(key K, value V) (handle, kv[K, V], bool) {
	var (
		evicted kv[K, V]
		ok      bool
	)
	if es.length >= es.capacity {
		evicted, ok = es.evictLeastRecentlyUsed()
	}

	slot := es.alloc()
	e := &es.slots[slot]
	e.key = key
	e.value = value
	e.live = true
	h := handle{slot: slot, gen: e.gen}
	es.linkHead(h, e)
	es.length++
	return h, evicted, ok
}

// detach removes the entry h from the list and releases its slot. It returns
// false if h does not address a live entry.
func (es *entries[K, V]) detach(h handle) (kv[K, V], bool) {
	e := es.at(h)
	if e == nil {
		return kv[K, V]{}, false
	}
	es.unlink(e)
	res := kv[K, V]{key: e.key, value: e.value}
	es.release(h.slot)
	es.length--
	return res, true
}

// promote moves the entry h to the head of the list. The entry keeps its slot,
// so h stays valid.
func (es *entries[K, V]) promote(h handle) (V, bool) {
	e := es.at(h)
	if e == nil {
		return *new(V), false
	}
	if es.head != h {
		es.unlink(e)
		es.linkHead(h, e)
	}
	return e.value, true
}

func (es *entries[K, V]) peek(h handle) (V, bool) {
	e := es.at(h)
	if e == nil {
		return *new(V), false
	}
	return e.value, true
}

// evictLeastRecentlyUsed detaches the tail of the list.
func (es *entries[K, V]) evictLeastRecentlyUsed() (kv[K, V], bool) {
	return es.detach(es.tail)
}

// walk calls f for the entries from the most recently used to the least
// recently used one until f returns false.
func (es *entries[K, V]) walk(f func(key K, value V) bool) {
	for h := es.head; h != nilHandle; {
		e := &es.slots[h.slot]
		if !f(e.key, e.value) {
			return
		}
		h = e.next
	}
}

// clear drops all entries at once. Every slot gets the new generation and
// goes back to the free list.
func (es *entries[K, V]) clear() {
	es.free.Clear()
	for i := range es.slots {
		e := &es.slots[i]
		*e = entry[K, V]{gen: e.gen + 1}
		if err := es.free.Write(uint32(i)); err != nil {
			panic(fmt.Sprintf("lru: could not release slot %d: %s", i, err))
		}
	}
	es.head, es.tail = nilHandle, nilHandle
	es.length = 0
}

func (es *entries[K, V]) linkHead(h handle, e *entry[K, V]) {
	e.prev = nilHandle
	e.next = es.head
	if es.head == nilHandle {
		es.tail = h
	} else {
		es.slots[es.head.slot].prev = h
	}
	es.head = h
}

func (es *entries[K, V]) unlink(e *entry[K, V]) {
	if e.prev == nilHandle {
		es.head = e.next
	} else {
		es.slots[e.prev.slot].next = e.next
	}
	if e.next == nilHandle {
		es.tail = e.prev
	} else {
		es.slots[e.next.slot].prev = e.prev
	}
	e.prev, e.next = nilHandle, nilHandle
}

func (es *entries[K, V]) alloc() uint32 {
	if slot, err := es.free.Read(); err == nil {
		return slot
	}
	if len(es.slots) == es.capacity {
		panic(fmt.Sprintf("lru: no free slots, length=%d, capacity=%d", es.length, es.capacity))
	}
	es.slots = append(es.slots, entry[K, V]{})
	return uint32(len(es.slots) - 1)
}

// release resets the slot and bumps its generation, so all handles to the
// slot become stale.
func (es *entries[K, V]) release(slot uint32) {
	e := &es.slots[slot]
	*e = entry[K, V]{gen: e.gen + 1}
	if err := es.free.Write(slot); err != nil {
		panic(fmt.Sprintf("lru: could not release slot %d: %s", slot, err))
	}
}
