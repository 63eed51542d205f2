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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeque_PushBack(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		push      []int
		wantLen   int
		wantFront int
	}{
		{"below capacity", 3, []int{1, 2}, 2, 1},
		{"at capacity", 3, []int{1, 2, 3}, 3, 1},
		{"evicts oldest first", 3, []int{1, 2, 3, 4, 5}, 3, 3},
		{"zero capacity is raised to one", 0, []int{1, 2}, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New[int](tt.capacity)
			for _, v := range tt.push {
				d.PushBack(v)
			}
			front, ok := d.Front()
			assert.True(t, ok)
			assert.Equal(t, tt.wantFront, front)
			assert.Equal(t, tt.wantLen, d.Len())
			assert.LessOrEqual(t, d.Len(), d.Cap())
		})
	}
}

func TestDeque_Empty(t *testing.T) {
	d := New[string](2)
	_, ok := d.Front()
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 2, d.Cap())
}

func TestDeque_Reset(t *testing.T) {
	d := New[int](4)
	for i := 0; i < 6; i++ {
		d.PushBack(i)
	}
	d.Reset()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 4, d.Cap())
	_, ok := d.Front()
	assert.False(t, ok)

	d.PushBack(7)
	front, _ := d.Front()
	assert.Equal(t, 7, front)
}
