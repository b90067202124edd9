// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chantsune/pna/ioutil/atomic"
)

// atomicFileSink buffers one volume's bytes in memory and, on Close,
// publishes them to filename via ioutil/atomic.WriteFile: a caller never
// observes a partially-written volume file, even if the process is
// interrupted mid-write.
type atomicFileSink struct {
	filename string
	buf      bytes.Buffer
}

func newAtomicFileSink(filename string) *atomicFileSink {
	return &atomicFileSink{filename: filename}
}

func (s *atomicFileSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *atomicFileSink) Close() error {
	if err := atomic.WriteFile(s.filename, bytes.NewReader(s.buf.Bytes())); err != nil {
		return fmt.Errorf("archive: unable to publish volume %q: %w", s.filename, err)
	}
	return nil
}

// NewFileSplitWriter opens a SplitWriter whose volumes are named
// SplitName(baseName, n) and published atomically: each volume is built
// fully in memory, then rename(2)'d into place on Close, so a reader never
// sees a truncated volume file on disk.
func NewFileSplitWriter(baseName string, maxVolumeBytes int64) (*SplitWriter, error) {
	nextSink := func(volumeNumber uint32) (io.WriteCloser, error) {
		return newAtomicFileSink(SplitName(baseName, int(volumeNumber))), nil
	}
	first, err := nextSink(1)
	if err != nil {
		return nil, err
	}
	return NewSplitWriter(first, maxVolumeBytes, nextSink)
}
