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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	unknownPlaceholder = "?"
	unknownTotalWidth  = 4
	wallClockPattern   = "%Y-%m-%d %H:%M %Z"
)

var wallClockFormat = mustStrftime(wallClockPattern)

func mustStrftime(pattern string) *strftime.Strftime {
	f, err := strftime.New(pattern)
	if err != nil {
		panic(fmt.Sprintf("invalid strftime pattern %q: %v", pattern, err))
	}
	return f
}

// FormatMessage renders the current state as it would be written,
// carriage return or trailing newline included.
func (p *ProgIter) FormatMessage() string {
	line := p.statusLine()
	if p.opts.RedrawInPlace {
		return clearBefore + line
	}
	return line + atEnd
}

func (p *ProgIter) statusLine() string {
	var b strings.Builder
	itemRate := p.itersPerSecond

	b.WriteString(p.desc)
	if p.opts.ChunkSize > 0 && p.total > 0 {
		percent := float64(p.nowIdx) / float64(p.total) * 100
		fmt.Fprintf(&b, " %03.2f%% of %dx%d...", percent, p.opts.ChunkSize, p.total)
		itemRate *= float64(p.opts.ChunkSize)
	} else {
		fmt.Fprintf(&b, " %0*d/%s...", indexWidth(p.total), p.nowIdx, totalText(p.total))
	}
	b.WriteString(p.extra)
	b.WriteByte(' ')

	fields := make([]string, 0, 4)
	if p.opts.ShowRateAndEta {
		eta := unknownPlaceholder
		if p.etaKnown {
			eta = formatSeconds(p.etaSeconds, p.opts.MicrosecondPrecision)
		}
		fields = append(fields,
			"rate="+formatRate(itemRate)+" Hz",
			"eta="+eta,
			"total="+formatSeconds(p.totalSeconds, p.opts.MicrosecondPrecision),
		)
	}
	if p.opts.ShowWallClock {
		fields = append(fields, "wall="+formatWallClock(p.clock.Now()))
	}
	b.WriteString(strings.Join(fields, ", "))
	return b.String()
}

// indexWidth is the number of digits of total, 4 when total is unknown.
func indexWidth(total int64) int {
	switch {
	case total < 0:
		return unknownTotalWidth
	case total == 0:
		return 1
	default:
		return len(strconv.FormatInt(total, 10))
	}
}

func totalText(total int64) string {
	if total < 0 {
		return unknownPlaceholder
	}
	return strconv.FormatInt(total, 10)
}

// formatRate avoids printing misleading digits for near-zero rates.
func formatRate(rate float64) string {
	if rate >= 0.001 {
		return fmt.Sprintf("%4.2f", rate)
	}
	return fmt.Sprintf("%g", rate)
}

// formatSeconds renders seconds as H:MM:SS. Without microsecond precision
// the fraction is truncated.
func formatSeconds(seconds float64, micro bool) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return unknownPlaceholder
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	seconds = math.Min(seconds, maxSeconds)

	var usec int64
	if micro {
		usec = int64(math.Round(seconds * 1e6))
	} else {
		usec = int64(seconds) * 1e6
	}

	const usecPerDay = 24 * 60 * 60 * 1e6
	days := usec / usecPerDay
	usec %= usecPerDay
	hours := usec / 3600e6
	usec %= 3600e6
	minutes := usec / 60e6
	usec %= 60e6
	secs := usec / 1e6
	usec %= 1e6

	out := fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	if usec != 0 {
		out += fmt.Sprintf(".%06d", usec)
	}
	switch {
	case days == 1:
		out = "1 day, " + out
	case days > 1:
		out = fmt.Sprintf("%d days, %s", days, out)
	}
	return sign + out
}

func formatWallClock(t time.Time) string {
	return wallClockFormat.FormatString(t)
}
