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
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

var (
	ErrUnknownOption = errors.New("unknown progiter option")
	ErrInvalidOption = errors.New("invalid progiter option")
)

// OptionSpec describes one key accepted by ParseConfig.
type OptionSpec struct {
	Key     string
	Aliases []string
	Default string
	Usage   string
}

var optionSpecs = []OptionSpec{
	{Key: "description", Aliases: []string{"desc", "label"}, Default: `""`, Usage: "text shown in front of the counter"},
	{Key: "total", Aliases: []string{"length"}, Default: "-1", Usage: "expected number of steps, negative if unknown"},
	{Key: "cadence", Aliases: []string{"freq"}, Default: "1", Usage: "steps between two messages"},
	{Key: "startIndex", Aliases: []string{"initial", "start"}, Default: "0", Usage: "index to start counting from"},
	{Key: "windowSize", Aliases: []string{"eta_window"}, Default: "64", Usage: "measurements used to estimate the rate, 0 averages the whole run"},
	{Key: "redrawInPlace", Aliases: []string{"clearline"}, Default: "true", Usage: "overwrite the previous message instead of appending lines"},
	{Key: "adaptiveCadence", Aliases: []string{"adjust"}, Default: "true", Usage: "adjust the cadence to keep messages timeThreshold seconds apart"},
	{Key: "timeThreshold", Aliases: []string{"time_thresh"}, Default: "2", Usage: "target seconds between two messages"},
	{Key: "showRateAndEta", Aliases: []string{"show_times"}, Default: "true", Usage: "show rate, eta and elapsed time"},
	{Key: "showWallClock", Aliases: []string{"show_wall"}, Default: "false", Usage: "show the wall clock time"},
	{Key: "enabled", Default: "true", Usage: "write progress at all"},
	{Key: "verbosityLevel", Aliases: []string{"verbose"}, Default: "unset", Usage: "0 off, 1 redraw, 2 append, 3 append with a fixed cadence"},
	{Key: "stream", Aliases: []string{"file"}, Default: "stdout", Usage: "io.Writer messages are written to"},
	{Key: "chunkSize", Default: "0", Usage: "items processed by every step"},
	{Key: "microsecondPrecision", Aliases: []string{"microseconds"}, Default: "false", Usage: "show sub-second durations"},
	{Key: "disable", Default: "false", Usage: "inverse of enabled"},
	{Key: "miniters", Default: "unset", Usage: "cadence that also turns adaptive cadence off"},
}

// accepted for compatibility, they have no effect
var ignoredKeys = []string{"position", "dynamic_ncols", "leave"}

// OptionSpecs lists the keys ParseConfig understands.
func OptionSpecs() []OptionSpec {
	specs := make([]OptionSpec, len(optionSpecs))
	copy(specs, optionSpecs)
	return specs
}

// IgnoredKeys lists keys ParseConfig accepts without effect.
func IgnoredKeys() []string {
	return append([]string(nil), ignoredKeys...)
}

// CanonicalKey resolves a key or one of its aliases, in any case, to the
// canonical key.
func CanonicalKey(name string) (string, bool) {
	lc := strings.ToLower(name)
	for _, spec := range optionSpecs {
		if strings.ToLower(spec.Key) == lc {
			return spec.Key, true
		}
		for _, alias := range spec.Aliases {
			if strings.ToLower(alias) == lc {
				return spec.Key, true
			}
		}
	}
	return "", false
}

type rawOptions struct {
	Description          *string  `mapstructure:"description"`
	Total                *int64   `mapstructure:"total"`
	Cadence              *int64   `mapstructure:"cadence"`
	StartIndex           *int64   `mapstructure:"startIndex"`
	WindowSize           *int     `mapstructure:"windowSize"`
	RedrawInPlace        *bool    `mapstructure:"redrawInPlace"`
	AdaptiveCadence      *bool    `mapstructure:"adaptiveCadence"`
	TimeThreshold        *float64 `mapstructure:"timeThreshold"`
	ShowRateAndEta       *bool    `mapstructure:"showRateAndEta"`
	ShowWallClock        *bool    `mapstructure:"showWallClock"`
	Enabled              *bool    `mapstructure:"enabled"`
	VerbosityLevel       *int     `mapstructure:"verbosityLevel"`
	ChunkSize            *int64   `mapstructure:"chunkSize"`
	MicrosecondPrecision *bool    `mapstructure:"microsecondPrecision"`
	Disable              *bool    `mapstructure:"disable"`
	Miniters             *int64   `mapstructure:"miniters"`
}

func (r rawOptions) applyTo(o *Options) {
	if r.Description != nil {
		o.Description = *r.Description
	}
	if r.Total != nil {
		o.Total = *r.Total
	}
	if r.Cadence != nil {
		o.Cadence = *r.Cadence
	}
	if r.StartIndex != nil {
		o.StartIndex = *r.StartIndex
	}
	if r.WindowSize != nil {
		o.WindowSize = *r.WindowSize
	}
	if r.RedrawInPlace != nil {
		o.RedrawInPlace = *r.RedrawInPlace
	}
	if r.AdaptiveCadence != nil {
		o.AdaptiveCadence = *r.AdaptiveCadence
	}
	if r.TimeThreshold != nil {
		o.TimeThreshold = *r.TimeThreshold
	}
	if r.ShowRateAndEta != nil {
		o.ShowRateAndEta = *r.ShowRateAndEta
	}
	if r.ShowWallClock != nil {
		o.ShowWallClock = *r.ShowWallClock
	}
	if r.Enabled != nil {
		o.Enabled = *r.Enabled
	}
	if r.VerbosityLevel != nil {
		level := *r.VerbosityLevel
		o.Verbosity = &level
	}
	if r.ChunkSize != nil {
		o.ChunkSize = *r.ChunkSize
	}
	if r.MicrosecondPrecision != nil {
		o.MicrosecondPrecision = *r.MicrosecondPrecision
	}
}

// ParseConfig builds Options from string keyed settings, as they come out
// of a config file or a flag set. Keys match case-insensitively, aliases
// are resolved, and every unknown key or bad value is reported.
//
// Resolution order: explicit keys, then verbosityLevel, then the disable
// and miniters aliases, each overriding what came before.
func ParseConfig(cfg map[string]interface{}) (Options, error) {
	opts := DefaultOptions()
	var result *multierror.Error

	lowered := make(map[string]interface{}, len(cfg))
	for k, v := range cfg {
		lowered[strings.ToLower(k)] = v
	}

	known := make(map[string]bool)
	canonical := make(map[string]interface{})
	for _, spec := range optionSpecs {
		names := append([]string{spec.Key}, spec.Aliases...)
		for _, name := range names {
			lc := strings.ToLower(name)
			known[lc] = true
			if v, ok := lowered[lc]; ok {
				canonical[spec.Key] = v
			}
		}
	}
	for _, k := range ignoredKeys {
		known[k] = true
	}

	var unknown []string
	for k := range cfg {
		if !known[strings.ToLower(k)] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		result = multierror.Append(result, errors.Wrapf(ErrUnknownOption, "%q", k))
	}

	if v, ok := canonical["stream"]; ok {
		delete(canonical, "stream")
		switch w := v.(type) {
		case nil:
		case io.Writer:
			opts.Stream = w
		default:
			result = multierror.Append(result, errors.Wrapf(ErrInvalidOption, "stream: %T is not an io.Writer", v))
		}
	}

	var raw rawOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &raw,
	})
	if err != nil {
		return opts, errors.Wrap(err, "failed to create option decoder")
	}
	if err := decoder.Decode(canonical); err != nil {
		result = multierror.Append(result, errors.Wrap(ErrInvalidOption, err.Error()))
	}

	raw.applyTo(&opts)
	opts.applyVerbosity()
	if raw.Disable != nil {
		opts.Enabled = !*raw.Disable
	}
	if raw.Miniters != nil {
		opts.Cadence = *raw.Miniters
		opts.AdaptiveCadence = false
	}

	result = multierror.Append(result, validate(opts)...)
	return opts, result.ErrorOrNil()
}

func validate(o Options) []error {
	var errs []error
	if o.Cadence < 1 {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "cadence must be at least 1, got %d", o.Cadence))
	}
	if o.ChunkSize < 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "chunkSize must not be negative, got %d", o.ChunkSize))
	}
	if o.TimeThreshold <= 0 {
		errs = append(errs, errors.Wrapf(ErrInvalidOption, "timeThreshold must be positive, got %v", o.TimeThreshold))
	}
	return errs
}

// NewFromConfig parses cfg and builds a ProgIter from it. opts are applied
// on top of the parsed options.
func NewFromConfig(cfg map[string]interface{}, opts ...Option) (*ProgIter, error) {
	parsed, err := ParseConfig(cfg)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithOptions(parsed)}, opts...)...), nil
}
