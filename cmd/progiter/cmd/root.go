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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sealerio/progiter/common"
	"github.com/sealerio/progiter/pkg/logger"
	"github.com/sealerio/progiter/pkg/version"
)

type rootOpts struct {
	cfgFile     string
	debugModeOn bool
	traceModeOn bool
	hideLogTime bool
	hideLogPath bool
	logToFile   bool
	logDir      string
	colorMode   string
}

var rootOpt rootOpts

var progressOpt progressFlags

const (
	colorModeNever  = "never"
	colorModeAlways = "always"
)

var supportedColorModes = []string{
	colorModeNever,
	colorModeAlways,
}

var longRootCmdDescription = `progiter drives a progress tracker over simple workloads: counting,
reading lines and copying data. Progress is written to stderr, data to stdout.

Tracker options come from the config file (default $HOME/.progiter.yaml),
then PROGITER_<KEY> environment variables, then command line flags.
`

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               common.ExecBinaryFileName,
	Short:             "Show progress of long running loops",
	Long:              longRootCmdDescription,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: validateRootOpts,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("progiter-%s: %v", version.GetSingleVersion(), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger)

	rootCmd.AddCommand(NewCountCmd(), NewLinesCmd(), NewCopyCmd(), NewOptionsCmd(), NewVersionCmd())

	fs := rootCmd.PersistentFlags()
	fs.StringVar(&rootOpt.cfgFile, "config", "", "config file of progiter (default is $HOME/.progiter.yaml)")
	fs.BoolVarP(&rootOpt.debugModeOn, "debug", "d", false, "turn on debug mode")
	fs.BoolVar(&rootOpt.traceModeOn, "trace", false, "turn on trace mode, reports every cadence change")
	fs.BoolVar(&rootOpt.hideLogTime, "hide-time", false, "hide the log time")
	fs.BoolVar(&rootOpt.hideLogPath, "hide-path", false, "hide the log path")
	fs.BoolVar(&rootOpt.logToFile, "log-to-file", false, "write log message to disk")
	fs.StringVar(&rootOpt.logDir, "log-dir", "", "directory of the log files (default is $HOME/.progiter/log)")
	fs.StringVar(&rootOpt.colorMode, "color", colorModeAlways, fmt.Sprintf("set the log color mode, the possible values can be %v", supportedColorModes))
	progressOpt.bind(fs)
	rootCmd.DisableAutoGenTag = true
}

func validateRootOpts(cmd *cobra.Command, args []string) error {
	for _, mode := range supportedColorModes {
		if rootOpt.colorMode == mode {
			return nil
		}
	}
	return fmt.Errorf("invalid color mode %q, the possible values can be %v", rootOpt.colorMode, supportedColorModes)
}

func initLogger() {
	if err := logger.Init(logger.LogOptions{
		OutputPath:   rootOpt.logDir,
		Verbose:      rootOpt.debugModeOn,
		Trace:        rootOpt.traceModeOn,
		DisableColor: rootOpt.colorMode == colorModeNever,
		HideLogTime:  rootOpt.hideLogTime,
		HideLogPath:  rootOpt.hideLogPath,
		LogToFile:    rootOpt.logToFile,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v\n", err))
	}
}
