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
	"io"
	"os"
	"time"
)

const (
	// UnknownTotal marks a session whose length is not known in advance.
	UnknownTotal int64 = -1
	// NoWindow disables sliding window rate smoothing.
	NoWindow = 0

	DefaultWindowSize    = 64
	DefaultTimeThreshold = 2.0
)

// Clock is the time source of a session.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Options configures a ProgIter.
type Options struct {
	// Description is shown in front of the counter.
	Description string
	// Total is the expected number of steps, UnknownTotal if not known.
	Total int64
	// Cadence is how many steps must pass between two displayed messages.
	Cadence int64
	// StartIndex is the index the session starts counting from.
	StartIndex int64
	// WindowSize is the number of recent measurements used to estimate
	// the rate. NoWindow averages over the whole run instead.
	WindowSize int
	// RedrawInPlace overwrites the previous message with a carriage return,
	// otherwise every message goes on its own line.
	RedrawInPlace bool
	// AdaptiveCadence lets the session adjust Cadence so that messages are
	// about TimeThreshold seconds apart.
	AdaptiveCadence bool
	TimeThreshold   float64
	ShowRateAndEta  bool
	ShowWallClock   bool
	Enabled         bool
	// Verbosity, when set, overrides Enabled, RedrawInPlace and
	// AdaptiveCadence. See resolveVerbosity.
	Verbosity *int
	// Stream is where messages are written. Default: os.Stdout
	Stream io.Writer
	// ChunkSize indicates every step processes a batch of this many items.
	// The rate is then reported per item.
	ChunkSize int64
	// MicrosecondPrecision shows sub-second durations.
	MicrosecondPrecision bool
	Clock                Clock
}

// DefaultOptions returns the options a ProgIter uses when nothing is set.
func DefaultOptions() Options {
	return Options{
		Total:           UnknownTotal,
		Cadence:         1,
		WindowSize:      DefaultWindowSize,
		RedrawInPlace:   true,
		AdaptiveCadence: true,
		TimeThreshold:   DefaultTimeThreshold,
		ShowRateAndEta:  true,
		Enabled:         true,
		Stream:          os.Stdout,
		Clock:           realClock{},
	}
}

type verbosityMode struct {
	enabled         bool
	redrawInPlace   bool
	adaptiveCadence bool
}

// resolveVerbosity maps a verbosity level onto the display mode it stands for.
func resolveVerbosity(level int) verbosityMode {
	switch {
	case level <= 0:
		return verbosityMode{}
	case level == 1:
		return verbosityMode{enabled: true, redrawInPlace: true, adaptiveCadence: true}
	case level == 2:
		return verbosityMode{enabled: true, redrawInPlace: false, adaptiveCadence: true}
	default:
		return verbosityMode{enabled: true, redrawInPlace: false, adaptiveCadence: false}
	}
}

// applyVerbosity folds Verbosity into the flags it controls and clears it.
func (o *Options) applyVerbosity() {
	if o.Verbosity == nil {
		return
	}
	mode := resolveVerbosity(*o.Verbosity)
	o.Verbosity = nil
	if !mode.enabled {
		o.Enabled = false
		return
	}
	o.Enabled = true
	o.RedrawInPlace = mode.redrawInPlace
	o.AdaptiveCadence = mode.adaptiveCadence
}

func (o Options) resolved() Options {
	o.applyVerbosity()
	if o.Stream == nil {
		o.Stream = os.Stdout
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
	if o.Cadence < 1 {
		o.Cadence = 1
	}
	if o.TimeThreshold <= 0 {
		o.TimeThreshold = DefaultTimeThreshold
	}
	if o.ChunkSize < 0 {
		o.ChunkSize = 0
	}
	return o
}

// Option mutates Options before a ProgIter is built.
type Option func(*Options)

// WithOptions replaces every option with o. Options given after it still apply.
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
	}
}

func WithDescription(desc string) Option {
	return func(o *Options) { o.Description = desc }
}

func WithTotal(total int64) Option {
	return func(o *Options) { o.Total = total }
}

func WithCadence(cadence int64) Option {
	return func(o *Options) { o.Cadence = cadence }
}

func WithStartIndex(start int64) Option {
	return func(o *Options) { o.StartIndex = start }
}

func WithWindowSize(size int) Option {
	return func(o *Options) { o.WindowSize = size }
}

func WithRedrawInPlace(redraw bool) Option {
	return func(o *Options) { o.RedrawInPlace = redraw }
}

func WithAdaptiveCadence(adaptive bool) Option {
	return func(o *Options) { o.AdaptiveCadence = adaptive }
}

func WithTimeThreshold(seconds float64) Option {
	return func(o *Options) { o.TimeThreshold = seconds }
}

func WithShowRateAndEta(show bool) Option {
	return func(o *Options) { o.ShowRateAndEta = show }
}

func WithShowWallClock(show bool) Option {
	return func(o *Options) { o.ShowWallClock = show }
}

func WithEnabled(enabled bool) Option {
	return func(o *Options) { o.Enabled = enabled }
}

// WithVerbosity sets the verbosity shorthand:
// 0 disables, 1 redraws in place, 2 appends lines, 3 and above also
// keeps the cadence fixed.
func WithVerbosity(level int) Option {
	return func(o *Options) { o.Verbosity = &level }
}

func WithStream(w io.Writer) Option {
	return func(o *Options) { o.Stream = w }
}

func WithChunkSize(size int64) Option {
	return func(o *Options) { o.ChunkSize = size }
}

func WithMicrosecondPrecision(on bool) Option {
	return func(o *Options) { o.MicrosecondPrecision = on }
}

func WithClock(c Clock) Option {
	return func(o *Options) { o.Clock = c }
}
