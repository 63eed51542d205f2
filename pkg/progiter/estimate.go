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
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	epsilon = 1e-9
	// a cadence grows at most by this factor and this amount per adjustment
	cadenceRelLimit = 2.0
	cadenceAbsLimit = 256
	// larger durations are clamped before converting to time.Duration
	maxSeconds = float64(math.MaxInt64/int64(time.Second)) - 1
)

// recordSample moves the most recent measurement to last and measures now.
func (p *ProgIter) recordSample() {
	p.lastIdx = p.nowIdx
	p.lastTime = p.nowTime

	p.nowIdx = p.iterIdx
	p.nowTime = p.clock.Now()

	p.betweenTime = p.nowTime.Sub(p.lastTime).Seconds()
	p.betweenCount = p.nowIdx - p.lastIdx
	p.totalSeconds = p.nowTime.Sub(p.startTime).Seconds()
}

func (p *ProgIter) updateEstimates() {
	p.itersPerSecond = p.estimateRate()
	p.etaSeconds, p.etaKnown = p.estimateRemaining()

	// keep printing from slowing down the work being measured
	thresh := p.opts.TimeThreshold
	if p.opts.AdaptiveCadence && (p.betweenTime < thresh || p.betweenTime > thresh*2.0) {
		p.adjustCadence()
	}
}

// estimateRate averages over the whole run, or over the samples still held
// by the window when one is configured.
func (p *ProgIter) estimateRate() float64 {
	if p.window == nil {
		return rate(p.nowIdx-p.beginIdx, p.totalSeconds)
	}
	p.window.PushBack(sample{idx: p.nowIdx, at: p.nowTime})
	oldest, _ := p.window.Front()
	return rate(p.nowIdx-oldest.idx, p.nowTime.Sub(oldest.at).Seconds())
}

func rate(count int64, seconds float64) float64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return float64(count) / seconds
}

func (p *ProgIter) estimateRemaining() (float64, bool) {
	if p.total < 0 || p.itersPerSecond <= 0 {
		return 0, false
	}
	return float64(p.total-p.nowIdx) / p.itersPerSecond, true
}

// adjustCadence picks the cadence that would put TimeThreshold seconds
// between messages if progress were uniform. Growth is damped, shrinking
// is not.
func (p *ProgIter) adjustCadence() {
	p.maxBetweenTime = math.Max(p.maxBetweenTime, p.betweenTime)
	p.maxBetweenTime = math.Max(p.maxBetweenTime, epsilon)
	p.maxBetweenCount = math.Max(p.maxBetweenCount, float64(p.betweenCount))

	candidate := p.opts.TimeThreshold * p.maxBetweenCount / p.maxBetweenTime
	ceiling := p.cadence + cadenceAbsLimit
	if rel := int64(float64(p.cadence) * cadenceRelLimit); rel < ceiling {
		ceiling = rel
	}
	next := int64(math.Min(candidate, float64(ceiling)))
	if next < 1 {
		next = 1
	}
	if next != p.cadence {
		logrus.Tracef("progiter: cadence %d -> %d", p.cadence, next)
	}
	p.cadence = next
}

func secondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) {
		return 0
	}
	seconds = math.Max(math.Min(seconds, maxSeconds), -maxSeconds)
	return time.Duration(seconds * float64(time.Second))
}
