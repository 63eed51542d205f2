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
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sealerio/progiter/pkg/progiter"
)

func NewOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "options",
		Short:   "list the tracker options accepted in the config file",
		Example: "  progiter options",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"key", "aliases", "default", "usage"})
			table.SetAutoWrapText(false)
			for _, spec := range progiter.OptionSpecs() {
				table.Append([]string{spec.Key, strings.Join(spec.Aliases, ", "), spec.Default, spec.Usage})
			}
			table.Render()

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "accepted without effect: %s\n", strings.Join(progiter.IgnoredKeys(), ", "))
			return err
		},
	}
}
