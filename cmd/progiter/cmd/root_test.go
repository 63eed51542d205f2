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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progiter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCount(t *testing.T) {
	cfg := writeConfig(t, "")
	stdout, stderr, err := execute(t, "", "count", "3", "--config", cfg, "--verbose", "3", "--no-times")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, " 0/3... \n 1/3... \n 2/3... \n 3/3... \n", stderr)
}

func TestCount_FlagsOverrideConfigFile(t *testing.T) {
	cfg := writeConfig(t, "desc: from file\nverbose: 3\nshow_times: false\ncadence: 2\n")
	_, stderr, err := execute(t, "", "count", "2", "--config", cfg, "--desc", "flag")
	require.NoError(t, err)
	assert.Equal(t, "flag 0/2... \nflag 2/2... \n", stderr)
}

func TestCount_ConsecutiveRunsDoNotShareFlags(t *testing.T) {
	cfg := writeConfig(t, "")
	_, stderr, err := execute(t, "", "count", "1", "--config", cfg, "--verbose", "3", "--no-times", "--desc", "first")
	require.NoError(t, err)
	assert.Equal(t, "first 0/1... \nfirst 1/1... \n", stderr)

	cfg = writeConfig(t, "desc: from file\nverbose: 3\nshow_times: false\ncadence: 2\n")
	_, stderr, err = execute(t, "", "count", "2", "--config", cfg, "--desc", "second")
	require.NoError(t, err)
	assert.Equal(t, "second 0/2... \nsecond 2/2... \n", stderr)

	_, stderr, err = execute(t, "", "count", "2", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "from file 0/2... \nfrom file 2/2... \n", stderr)
}

func TestRootCmd_Name(t *testing.T) {
	assert.Equal(t, "progiter", rootCmd.Name())
}

func TestCount_Errors(t *testing.T) {
	cfg := writeConfig(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"count", "abc", "--config", cfg}},
		{"missing argument", []string{"count", "--config", cfg}},
		{"bad color mode", []string{"count", "1", "--config", cfg, "--color", "sometimes"}},
		{"bad option in config", []string{"count", "1", "--config", writeConfig(t, "bogus: 1\n")}},
		{"missing config", []string{"count", "1", "--config", filepath.Join(t.TempDir(), "absent.yaml")}},
		{"bad stream", []string{"count", "1", "--config", cfg, "--stream", "printer"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLines(t *testing.T) {
	cfg := writeConfig(t, "")
	stdout, stderr, err := execute(t, "a\nb\nc\n", "lines", "--config", cfg, "--disable")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", stdout)
	assert.Empty(t, stderr)

	stdout, stderr, err = execute(t, "a\nb\n", "lines", "--config", cfg, "--quiet-lines", "--verbose", "3", "--no-times")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, " 0000/?... \n 0001/?... \n 0002/?... \n", stderr)
}

func TestCopy(t *testing.T) {
	cfg := writeConfig(t, "verbose: 3\nshow_times: false\n")
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("hello world!"), 0600))

	_, stderr, err := execute(t, "", "copy", src, dst, "--config", cfg, "--chunk-size", "4B")
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world!", string(data))
	assert.Equal(t, " 0.00% of 4x3... \n 33.33% of 4x3... \n 66.67% of 4x3... \n 100.00% of 4x3... \n", stderr)
}

func TestCopy_Stdio(t *testing.T) {
	cfg := writeConfig(t, "")
	stdout, _, err := execute(t, "streamed data", "copy", "--config", cfg, "--disable")
	require.NoError(t, err)
	assert.Equal(t, "streamed data", stdout)

	_, _, err = execute(t, "", "copy", "--config", cfg, "--chunk-size", "lots")
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	stdout, _, err := execute(t, "", "options")
	require.NoError(t, err)
	assert.Contains(t, stdout, "eta_window")
	assert.Contains(t, stdout, "miniters")
	assert.Contains(t, stdout, "accepted without effect: position, dynamic_ncols, leave")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Contains(t, out, "progiterVersion")

	stdout, _, err = execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "progiterVersion:")

	_, _, err = execute(t, "", "version", "-o", "xml")
	assert.Error(t, err)
}

func TestProgressFlags_Settings(t *testing.T) {
	var f progressFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)
	require.NoError(t, fs.Parse([]string{"--desc", "x", "--no-times", "--window", "0", "--time-thresh", "0.5"}))

	assert.Equal(t, map[string]interface{}{
		"description":    "x",
		"showRateAndEta": false,
		"windowSize":     0,
		"timeThreshold":  0.5,
	}, f.settings(fs))
}

func TestProgressFlags_SettingsIgnoresResetFlags(t *testing.T) {
	var f progressFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bind(fs)
	require.NoError(t, fs.Parse([]string{"--verbose", "3", "--no-times"}))

	fs.VisitAll(func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})
	require.NoError(t, fs.Parse([]string{"--desc", "again"}))

	assert.Equal(t, map[string]interface{}{"description": "again"}, f.settings(fs))
}

func TestResolveStream(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	c := &cobra.Command{}
	c.SetOut(stdout)
	c.SetErr(stderr)
	custom := &bytes.Buffer{}

	tests := []struct {
		name    string
		value   interface{}
		want    interface{}
		wantErr bool
	}{
		{"unset", nil, stderr, false},
		{"stderr", "stderr", stderr, false},
		{"stdout in capitals", "STDOUT", stdout, false},
		{"writer", custom, custom, false},
		{"unknown name", "printer", nil, true},
		{"wrong type", 42, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveStream(c, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}
