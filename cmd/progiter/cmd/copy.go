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
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sealerio/progiter/common"
	"github.com/sealerio/progiter/pkg/progiter"
)

const defaultChunkSize = "64KiB"

var exampleForCopyCmd = `
  progiter copy image.tar /mnt/backup/image.tar
  curl -s https://example.com/big.iso | progiter copy --chunk-size 1MiB - big.iso
`

type copyOpts struct {
	chunkSize string
}

func NewCopyCmd() *cobra.Command {
	opts := copyOpts{}

	copyCmd := &cobra.Command{
		Use:     "copy [SRC] [DST]",
		Short:   "copy SRC to DST in chunks, showing progress",
		Long:    "copy SRC to DST in chunks, showing progress. SRC defaults to stdin and DST to stdout, \"-\" selects them explicitly.",
		Example: exampleForCopyCmd,
		Args:    cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunk, err := units.RAMInBytes(opts.chunkSize)
			if err != nil {
				return fmt.Errorf("invalid chunk size %q: %v", opts.chunkSize, err)
			}
			if chunk <= 0 {
				return fmt.Errorf("chunk size must be positive, got %q", opts.chunkSize)
			}

			src, size, closeSrc, err := openSource(cmd, args)
			if err != nil {
				return err
			}
			defer closeSrc()

			dst, closeDst, err := openDestination(cmd, args)
			if err != nil {
				return err
			}

			p, err := newTracker(cmd, progiter.WithChunkSize(chunk))
			if err != nil {
				_ = closeDst()
				return err
			}
			if size >= 0 && p.Total() < 0 {
				p.SetTotal((size + chunk - 1) / chunk)
			}

			written, err := copyChunks(p, dst, src, chunk)
			if cerr := closeDst(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			logrus.Infof("copied %s in %s", units.BytesSize(float64(written)), p.Elapsed())
			return nil
		},
	}
	copyCmd.Flags().StringVar(&opts.chunkSize, "chunk-size", defaultChunkSize, "bytes read per step, such as 4KiB or 1MiB")
	return copyCmd
}

// openSource returns the reader and its size, -1 when the size is unknown.
func openSource(cmd *cobra.Command, args []string) (io.Reader, int64, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), -1, func() {}, nil
	}

	f, err := os.Open(filepath.Clean(args[0]))
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to open %s: %v", args[0], err)
	}
	closeFn := func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close %s: %v", args[0], err)
		}
	}

	info, err := f.Stat()
	if err != nil {
		closeFn()
		return nil, 0, nil, fmt.Errorf("failed to stat %s: %v", args[0], err)
	}
	size := int64(-1)
	if info.Mode().IsRegular() {
		size = info.Size()
	}
	return f, size, closeFn, nil
}

func openDestination(cmd *cobra.Command, args []string) (io.Writer, func() error, error) {
	if len(args) < 2 || args[1] == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}

	f, err := os.OpenFile(filepath.Clean(args[1]), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, common.FileMode0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %v", args[1], err)
	}
	return f, f.Close, nil
}

// copyChunks copies src to dst one chunk per step.
func copyChunks(p *progiter.ProgIter, dst io.Writer, src io.Reader, chunk int64) (int64, error) {
	buf := make([]byte, chunk)
	var written int64

	p.Begin()
	defer p.End()
	for {
		n, rerr := io.ReadFull(src, buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, fmt.Errorf("failed to write: %v", err)
			}
			written += int64(n)
			p.Step(1, false)
		}
		switch rerr {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			return written, nil
		default:
			return written, fmt.Errorf("failed to read: %v", rerr)
		}
	}
}
