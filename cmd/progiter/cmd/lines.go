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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sealerio/progiter/pkg/progiter"
)

var exampleForLinesCmd = `
  progiter lines access.log > /dev/null
  cat access.log | progiter lines --quiet-lines
`

func NewLinesCmd() *cobra.Command {
	var quiet bool

	linesCmd := &cobra.Command{
		Use:     "lines [FILE]",
		Short:   "read lines from FILE or stdin, showing progress",
		Example: exampleForLinesCmd,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(filepath.Clean(args[0]))
				if err != nil {
					return fmt.Errorf("failed to open %s: %v", args[0], err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						logrus.Warnf("failed to close %s: %v", args[0], err)
					}
				}()
				in = f
			}

			p, err := newTracker(cmd)
			if err != nil {
				return err
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			scanner := bufio.NewScanner(in)
			for line := range progiter.Lines(p, scanner) {
				if quiet {
					continue
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return fmt.Errorf("failed to write line: %v", err)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read lines: %v", err)
			}
			return out.Flush()
		},
	}
	linesCmd.Flags().BoolVar(&quiet, "quiet-lines", false, "do not echo the lines to stdout")
	return linesCmd
}
