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

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sealerio/progiter/pkg/config"
	"github.com/sealerio/progiter/pkg/progiter"
)

// progressFlags are the tracker options settable from the command line.
type progressFlags struct {
	desc         string
	total        int64
	cadence      int64
	start        int64
	window       int
	verbose      int
	timeThresh   float64
	noTimes      bool
	wall         bool
	microseconds bool
	disable      bool
	miniters     int64
	stream       string
}

// flag name to option key
var progressFlagKeys = map[string]string{
	"desc":         "description",
	"total":        "total",
	"cadence":      "cadence",
	"start":        "startIndex",
	"window":       "windowSize",
	"verbose":      "verbosityLevel",
	"time-thresh":  "timeThreshold",
	"no-times":     "showRateAndEta",
	"wall":         "showWallClock",
	"microseconds": "microsecondPrecision",
	"disable":      "disable",
	"miniters":     "miniters",
	"stream":       "stream",
}

func (f *progressFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.desc, "desc", "", "text shown in front of the counter")
	fs.Int64Var(&f.total, "total", progiter.UnknownTotal, "expected number of steps, negative if unknown")
	fs.Int64Var(&f.cadence, "cadence", 1, "steps between two messages")
	fs.Int64Var(&f.start, "start", 0, "index to start counting from")
	fs.IntVar(&f.window, "window", progiter.DefaultWindowSize, "measurements used to estimate the rate, 0 averages the whole run")
	fs.IntVarP(&f.verbose, "verbose", "v", 1, "0 off, 1 redraw, 2 append, 3 append with a fixed cadence")
	fs.Float64Var(&f.timeThresh, "time-thresh", progiter.DefaultTimeThreshold, "target seconds between two messages")
	fs.BoolVar(&f.noTimes, "no-times", false, "hide rate, eta and elapsed time")
	fs.BoolVar(&f.wall, "wall", false, "show the wall clock time")
	fs.BoolVar(&f.microseconds, "microseconds", false, "show sub-second durations")
	fs.BoolVar(&f.disable, "disable", false, "write no progress at all")
	fs.Int64Var(&f.miniters, "miniters", 1, "fixed cadence, turns adaptive cadence off")
	fs.StringVar(&f.stream, "stream", "stderr", "where progress is written, stderr or stdout")
}

func (f *progressFlags) value(name string) interface{} {
	switch name {
	case "desc":
		return f.desc
	case "total":
		return f.total
	case "cadence":
		return f.cadence
	case "start":
		return f.start
	case "window":
		return f.window
	case "verbose":
		return f.verbose
	case "time-thresh":
		return f.timeThresh
	case "no-times":
		return !f.noTimes
	case "wall":
		return f.wall
	case "microseconds":
		return f.microseconds
	case "disable":
		return f.disable
	case "miniters":
		return f.miniters
	case "stream":
		return f.stream
	}
	return nil
}

// settings returns the options of the flags the user set, keyed by option key.
// Changed is checked on every flag, the set pflag remembers for Visit
// survives a flag set being parsed again.
func (f *progressFlags) settings(fs *pflag.FlagSet) map[string]interface{} {
	out := make(map[string]interface{})
	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		if key, ok := progressFlagKeys[flag.Name]; ok {
			out[key] = f.value(flag.Name)
		}
	})
	return out
}

// newTracker builds a tracker from the config file, the environment and
// the changed flags of cmd, in increasing precedence.
func newTracker(cmd *cobra.Command, opts ...progiter.Option) (*progiter.ProgIter, error) {
	fileSettings, err := config.Load(rootOpt.cfgFile)
	if err != nil {
		return nil, err
	}
	settings, err := config.Merge(fileSettings, progressOpt.settings(cmd.Flags()))
	if err != nil {
		return nil, err
	}

	stream, err := resolveStream(cmd, settings["stream"])
	if err != nil {
		return nil, err
	}
	settings["stream"] = stream
	if _, ok := settings["redrawInPlace"]; !ok {
		settings["redrawInPlace"] = isTerminal(stream)
	}
	logrus.Debugf("tracker settings: %v", settings)

	return progiter.NewFromConfig(settings, opts...)
}

// resolveStream maps the names stdout and stderr to the command's writers.
func resolveStream(cmd *cobra.Command, v interface{}) (io.Writer, error) {
	switch s := v.(type) {
	case nil:
		return cmd.ErrOrStderr(), nil
	case io.Writer:
		return s, nil
	case string:
		switch strings.ToLower(s) {
		case "", "stderr":
			return cmd.ErrOrStderr(), nil
		case "stdout":
			return cmd.OutOrStdout(), nil
		}
	}
	return nil, fmt.Errorf("invalid stream %v, the possible values can be [stderr stdout]", v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
