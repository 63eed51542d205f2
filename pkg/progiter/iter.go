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

package progiter

import (
	"bufio"
	"iter"
	"slices"
)

// Iter reports progress while seq is consumed. The index is advanced before
// an item is handed out, so the first item is seen at StartIndex+1. The
// session ends once seq is exhausted or the consumer stops early.
//
// A disabled ProgIter returns seq itself.
func Iter[T any](p *ProgIter, seq iter.Seq[T]) iter.Seq[T] {
	if !p.Enabled() {
		return seq
	}
	return func(yield func(T) bool) {
		if !p.started {
			p.Begin()
		}
		for item := range seq {
			p.advance()
			if !yield(item) {
				p.End()
				return
			}
			p.Step(0, false)
		}
		p.End()
	}
}

// Slice reports progress over items. The total is taken from len(items)
// unless it is already known.
func Slice[T any](p *ProgIter, items []T) iter.Seq[T] {
	if !p.Enabled() {
		return slices.Values(items)
	}
	p.inferTotal(int64(len(items)))
	return Iter(p, slices.Values(items))
}

// Range reports progress over 0, 1, ..., n-1.
func Range(p *ProgIter, n int) iter.Seq[int] {
	seq := func(yield func(int) bool) {
		for i := 0; i < n; i++ {
			if !yield(i) {
				return
			}
		}
	}
	if !p.Enabled() {
		return seq
	}
	if n >= 0 {
		p.inferTotal(int64(n))
	}
	return Iter(p, seq)
}

// Lines reports progress over the lines of sc. Check sc.Err once the
// sequence is done.
func Lines(p *ProgIter, sc *bufio.Scanner) iter.Seq[string] {
	return Iter(p, func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	})
}
