// Copyright © 2022 Alibaba Group Holding Ltd.
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

package deque

// Deque is a fixed capacity FIFO ring buffer. Pushing onto a full Deque
// evicts the oldest element.
type Deque[T any] struct {
	buf  []T
	head int
	size int
}

// New returns an empty Deque holding at most capacity elements.
// A capacity below 1 is raised to 1.
func New[T any](capacity int) *Deque[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Deque[T]{buf: make([]T, capacity)}
}

// PushBack appends v, evicting the oldest element when d is full.
func (d *Deque[T]) PushBack(v T) {
	if d.size == len(d.buf) {
		d.buf[d.head] = v
		d.head = (d.head + 1) % len(d.buf)
		return
	}
	d.buf[(d.head+d.size)%len(d.buf)] = v
	d.size++
}

// Front returns the oldest element.
func (d *Deque[T]) Front() (T, bool) {
	var zero T
	if d.size == 0 {
		return zero, false
	}
	return d.buf[d.head], true
}

func (d *Deque[T]) Len() int {
	return d.size
}

func (d *Deque[T]) Cap() int {
	return len(d.buf)
}

// Reset drops every element but keeps the capacity.
func (d *Deque[T]) Reset() {
	var zero T
	for i := range d.buf {
		d.buf[i] = zero
	}
	d.head = 0
	d.size = 0
}
