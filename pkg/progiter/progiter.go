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

// Package progiter measures and prints the progress of an iterative process.
//
// A ProgIter never starts a goroutine or a timer: every message is written
// from the caller's own goroutine while it steps the session, which keeps it
// safe to use around fork/exec heavy code. It either wraps a sequence
//
//	prog := progiter.New(progiter.WithDescription("hashing"))
//	for f := range progiter.Slice(prog, files) {
//		hash(f)
//	}
//
// or is driven by hand
//
//	prog.Begin()
//	for ... {
//		prog.Step(1, false)
//	}
//	prog.End()
//
// and writes lines such as
//
//	hashing 0257/1000... rate=308037.13 Hz, eta=0:00:00, total=0:00:00
package progiter

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sealerio/progiter/utils/deque"
)

const (
	clearBefore = "\r"
	atEnd       = "\n"
)

type sample struct {
	idx int64
	at  time.Time
}

// ProgIter is a single progress session. It is not safe for concurrent use.
type ProgIter struct {
	opts   Options
	desc   string
	total  int64
	extra  string
	stream io.Writer
	clock  Clock

	started  bool
	finished bool
	// true when nothing has been written on the current line
	cursorAtNewline bool

	iterIdx  int64
	beginIdx int64
	// now is the most recent measurement, last is the one before it
	nowIdx   int64
	nowTime  time.Time
	lastIdx  int64
	lastTime time.Time

	startTime       time.Time
	totalSeconds    float64
	betweenTime     float64
	betweenCount    int64
	maxBetweenTime  float64
	maxBetweenCount float64
	cadence         int64

	itersPerSecond float64
	etaSeconds     float64
	etaKnown       bool

	window *deque.Deque[sample]
	// messages displayed since Begin, the initial one excluded
	displays int
}

// New builds a ProgIter. It does not write anything until it begins.
func New(opts ...Option) *ProgIter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o = o.resolved()

	p := &ProgIter{
		opts:            o,
		desc:            o.Description,
		total:           o.Total,
		stream:          o.Stream,
		clock:           o.Clock,
		cursorAtNewline: true,
	}
	p.resetInternals()
	return p
}

func (p *ProgIter) resetInternals() {
	p.etaKnown = false
	p.etaSeconds = 0
	p.totalSeconds = 0
	p.betweenTime = 0
	p.iterIdx = p.opts.StartIndex
	p.beginIdx = p.opts.StartIndex
	p.lastIdx = p.opts.StartIndex - 1
	p.nowIdx = p.opts.StartIndex
	p.nowTime = time.Time{}
	p.betweenCount = -1
	p.maxBetweenTime = -1
	p.maxBetweenCount = -1
	p.itersPerSecond = 0
	p.cadence = p.opts.Cadence
	p.displays = 0
}

// Begin resets the measurements and writes the initial message. Calling it
// again restarts the session from StartIndex. It only needs to be called
// when the ProgIter does not wrap a sequence.
func (p *ProgIter) Begin() {
	if !p.opts.Enabled || p.finished {
		return
	}
	p.resetInternals()

	p.tryFlush()
	p.display()

	p.startTime = p.clock.Now()
	p.lastTime = p.startTime
	p.nowIdx = p.iterIdx
	p.nowTime = p.startTime
	p.beginIdx = p.iterIdx

	if p.opts.WindowSize > NoWindow {
		if p.window == nil || p.window.Cap() != p.opts.WindowSize {
			p.window = deque.New[sample](p.opts.WindowSize)
		} else {
			p.window.Reset()
		}
		p.window.PushBack(sample{idx: p.iterIdx, at: p.startTime})
	} else {
		p.window = nil
	}

	p.cursorAtNewline = !p.opts.RedrawInPlace
	p.started = true
	p.displays = 0
}

// Step advances the index by inc and displays a message when force is set,
// when the index is a multiple of the cadence, or when more than a cadence
// worth of steps passed since the last message.
func (p *ProgIter) Step(inc int64, force bool) {
	if !p.opts.Enabled || p.finished {
		return
	}
	if !p.started {
		p.Begin()
	}
	if inc < 0 {
		inc = 0
	}
	p.iterIdx += inc

	between := p.iterIdx - p.nowIdx
	if force || p.iterIdx%p.cadence == 0 || between > p.cadence {
		p.recordSample()
		p.updateEstimates()
		p.display()
	}
}

// End writes the final message if the index moved since the last one and
// leaves the cursor on a fresh line. It does nothing once the session has
// finished.
func (p *ProgIter) End() {
	if !p.opts.Enabled || p.finished {
		return
	}
	if !p.started {
		p.Begin()
	}
	if p.iterIdx != p.nowIdx || p.displays == 0 {
		p.recordSample()
		p.updateEstimates()
		p.etaSeconds = 0
		p.etaKnown = true
		p.display()
	}
	p.EnsureNewline()
	p.cursorAtNewline = true
	p.finished = true
}

// SetExtra sets a message appended to the counter of every following message.
func (p *ProgIter) SetExtra(extra string) {
	p.extra = extra
}

// EnsureNewline moves the cursor to a fresh line unless it already is at
// one. Call it before printing anything else to the same stream.
func (p *ProgIter) EnsureNewline() {
	if !p.opts.Enabled {
		return
	}
	if !p.cursorAtNewline {
		p.write(atEnd)
		p.cursorAtNewline = true
	}
}

// DisplayMessage writes the current progress to the stream.
func (p *ProgIter) DisplayMessage() {
	if !p.opts.Enabled || p.finished {
		return
	}
	p.display()
}

func (p *ProgIter) display() {
	p.write(p.FormatMessage())
	p.tryFlush()
	p.cursorAtNewline = !p.opts.RedrawInPlace
	p.displays++
}

// advance moves the index by one without any display logic. Wrapped
// sequences call it before handing out an item.
func (p *ProgIter) advance() {
	if p.opts.Enabled && !p.finished {
		p.iterIdx++
	}
}

type flusher interface {
	Flush() error
}

func (p *ProgIter) tryFlush() {
	if f, ok := p.stream.(flusher); ok {
		// some writers cannot flush, that is fine
		_ = f.Flush()
	}
}

func (p *ProgIter) write(msg string) {
	if _, err := io.WriteString(p.stream, msg); err != nil {
		logrus.Debugf("failed to write progress message: %v", err)
	}
}

// Index is the number of completed steps, StartIndex included.
func (p *ProgIter) Index() int64 {
	return p.iterIdx
}

// Total is the expected number of steps, negative when unknown.
func (p *ProgIter) Total() int64 {
	return p.total
}

// SetTotal changes the expected number of steps.
func (p *ProgIter) SetTotal(total int64) {
	p.total = total
}

func (p *ProgIter) inferTotal(n int64) {
	if p.total < 0 {
		p.total = n
	}
}

func (p *ProgIter) Description() string {
	return p.desc
}

func (p *ProgIter) Extra() string {
	return p.extra
}

func (p *ProgIter) Cadence() int64 {
	return p.cadence
}

// Rate is the last estimated number of steps per second.
func (p *ProgIter) Rate() float64 {
	return p.itersPerSecond
}

// Remaining is the last estimated time left. ok is false when it cannot be
// estimated yet.
func (p *ProgIter) Remaining() (d time.Duration, ok bool) {
	if !p.etaKnown {
		return 0, false
	}
	return secondsToDuration(p.etaSeconds), true
}

// Elapsed is the time between Begin and the last measurement.
func (p *ProgIter) Elapsed() time.Duration {
	return secondsToDuration(p.totalSeconds)
}

func (p *ProgIter) Enabled() bool {
	return p.opts.Enabled
}

func (p *ProgIter) Started() bool {
	return p.started
}

func (p *ProgIter) Finished() bool {
	return p.finished
}
