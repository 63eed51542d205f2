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
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexWidth(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{UnknownTotal, 4},
		{-100, 4},
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
		{1000, 4},
		{123456, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, indexWidth(tt.total), "total %d", tt.total)
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, "0"},
		{0.0005, "0.0005"},
		{0.001, "0.00"},
		{1, "1.00"},
		{2.25, "2.25"},
		{12.5, "12.50"},
		{1234.5678, "1234.57"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatRate(tt.rate), "rate %v", tt.rate)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		micro   bool
		want    string
	}{
		{"zero", 0, false, "0:00:00"},
		{"fraction is truncated", 59.9, false, "0:00:59"},
		{"hours", 3661, false, "1:01:01"},
		{"one day", 86400, false, "1 day, 0:00:00"},
		{"days", 2*86400 + 5, false, "2 days, 0:00:05"},
		{"microseconds", 1.5, true, "0:00:01.500000"},
		{"whole seconds with microseconds", 2, true, "0:00:02"},
		{"negative", -5, false, "-0:00:05"},
		{"infinite", math.Inf(1), false, "?"},
		{"not a number", math.NaN(), true, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSeconds(tt.seconds, tt.micro))
		})
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want string
	}{
		{
			"append mode ends with a newline",
			[]Option{WithRedrawInPlace(false), WithShowRateAndEta(false)},
			" 0000/?... \n",
		},
		{
			"redraw mode starts with a carriage return",
			[]Option{WithRedrawInPlace(true), WithShowRateAndEta(false)},
			"\r 0000/?... ",
		},
		{
			"description and known total",
			[]Option{WithRedrawInPlace(false), WithShowRateAndEta(false), WithDescription("files"), WithTotal(250)},
			"files 000/250... \n",
		},
		{
			"rate and eta",
			[]Option{WithRedrawInPlace(false), WithTotal(7)},
			" 0/7... rate=0 Hz, eta=?, total=0:00:00\n",
		},
		{
			"rate, eta and wall clock",
			[]Option{WithRedrawInPlace(false), WithShowWallClock(true)},
			" 0000/?... rate=0 Hz, eta=?, total=0:00:00, wall=2022-01-02 03:04 UTC\n",
		},
		{
			"chunked",
			[]Option{WithRedrawInPlace(false), WithShowRateAndEta(false), WithChunkSize(10), WithTotal(100)},
			" 0.00% of 10x100... \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithStream(&bytes.Buffer{}), WithClock(newFakeClock())}, tt.opts...)
			p := New(opts...)
			assert.Equal(t, tt.want, p.FormatMessage())
		})
	}
}
