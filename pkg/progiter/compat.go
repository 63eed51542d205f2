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
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// The methods below mirror the tqdm API so code written against it reads
// the same with a ProgIter.

// Update is Step(n, false).
func (p *ProgIter) Update(n int64) {
	p.Step(n, false)
}

// Close is End.
func (p *ProgIter) Close() {
	p.End()
}

// Refresh writes the current message again, beginning the session if needed.
func (p *ProgIter) Refresh() {
	if !p.opts.Enabled || p.finished {
		return
	}
	if !p.started {
		p.Begin()
	}
	p.display()
}

func (p *ProgIter) SetDescription(desc string, refresh bool) {
	p.desc = desc
	if refresh {
		p.Refresh()
	}
}

// SetPostfixStr sets the extra message.
func (p *ProgIter) SetPostfixStr(s string, refresh bool) {
	p.SetExtra(s)
	if refresh {
		p.Refresh()
	}
}

// SetPostfix sets the extra message to the key=value pairs of postfix,
// sorted by key. Numbers are shortened to three significant digits.
func (p *ProgIter) SetPostfix(postfix map[string]interface{}, refresh bool) {
	keys := make([]string, 0, len(postfix))
	for k := range postfix {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+strings.TrimSpace(postfixValue(postfix[k])))
	}
	p.SetPostfixStr(strings.Join(pairs, ", "), refresh)
}

func postfixValue(v interface{}) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%2.3g", cast.ToFloat64(v))
	}
	return fmt.Sprint(v)
}

// Length is Total, kept for callers of the older API.
func (p *ProgIter) Length() int64 {
	return p.Total()
}

// Label is Description, kept for callers of the older API.
func (p *ProgIter) Label() string {
	return p.Description()
}
