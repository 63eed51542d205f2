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

package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogOptions struct {
	// OutputPath is the log directory, default is `$HOME/.progiter/log`.
	OutputPath string
	// Verbose turns on debug level.
	Verbose bool
	// Trace turns on trace level, which also reports cadence changes.
	Trace bool
	// DisableColor if true will disable outputting colors.
	DisableColor bool
	HideLogTime  bool
	HideLogPath  bool
	// LogToFile writes log messages to disk as well.
	LogToFile bool
	// Out receives console log messages, stderr when nil. Progress and
	// command data share stdout and stderr, so logs default away from stdout.
	Out io.Writer
}

func Init(options LogOptions) error {
	switch {
	case options.Trace:
		logrus.SetLevel(logrus.TraceLevel)
	case options.Verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	out := options.Out
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)
	logrus.SetReportCaller(true)

	logrus.SetFormatter(&Formatter{
		DisableColor: options.DisableColor,
		HideLogTime:  options.HideLogTime,
		HideLogPath:  options.HideLogPath,
	})

	if options.LogToFile {
		fh, err := NewFileHook(options.OutputPath)
		if err != nil {
			return errors.Errorf("failed to init log file hook: %v", err)
		}
		logrus.AddHook(fh)
	}

	return nil
}
