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
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sealerio/progiter/pkg/progiter"
)

var exampleForCountCmd = `
  progiter count 1000 --sleep 10ms
  progiter count 50 --verbose 2 --desc "counting"
`

func NewCountCmd() *cobra.Command {
	var sleep time.Duration

	countCmd := &cobra.Command{
		Use:     "count N",
		Short:   "count from zero to N, showing progress",
		Example: exampleForCountCmd,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid count %q, must be a non-negative integer", args[0])
			}

			p, err := newTracker(cmd)
			if err != nil {
				return err
			}
			for range progiter.Range(p, n) {
				time.Sleep(sleep)
			}
			logrus.Debugf("counted %d items in %s", n, p.Elapsed())
			return nil
		},
	}
	countCmd.Flags().DurationVar(&sleep, "sleep", 0, "time spent on every item")
	return countCmd
}
