// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/log"
	"github.com/chantsune/pna/solid"
)

// NextSinkFunc opens volume i (1-based) of a split archive on demand, given
// the previous volume's writer has just been closed.
type NextSinkFunc func(volumeNumber uint32) (io.WriteCloser, error)

// volumeCounter tracks how many bytes have landed on the current volume so
// SplitWriter can decide, between top-level items, whether the next one
// still fits the budget.
type volumeCounter struct {
	w io.Writer
	n int64
}

func (c *volumeCounter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// SplitWriter serialises an archive across an ordered sequence of volumes,
// given a max_volume_bytes budget and a factory for opening the next
// volume's sink. Per item (entry or solid block) is built into memory
// first so its full encoded size is known before a split decision is made;
// splits therefore land between items rather than inside one, which
// satisfies the "never inside a chunk" invariant at a coarser but simpler
// granularity.
type SplitWriter struct {
	maxVolumeBytes int64
	nextSink       NextSinkFunc

	cur          io.WriteCloser
	counter      *volumeCounter
	aw           *Writer
	volumeNumber uint32
	volumeID     uuid.UUID
}

// NewSplitWriter opens the first volume on first, writes its header, and
// returns a writer ready to accept entries. maxVolumeBytes <= 0 disables
// splitting: everything is written to first.
func NewSplitWriter(first io.WriteCloser, maxVolumeBytes int64, nextSink NextSinkFunc) (*SplitWriter, error) {
	sw := &SplitWriter{maxVolumeBytes: maxVolumeBytes, nextSink: nextSink, volumeNumber: 1}
	if err := sw.openVolume(first, 1); err != nil {
		return nil, err
	}
	return sw, nil
}

func (sw *SplitWriter) openVolume(sink io.WriteCloser, volumeNumber uint32) error {
	sw.cur = sink
	sw.counter = &volumeCounter{w: sink}
	sw.aw = NewWriter(sw.counter)
	sw.volumeNumber = volumeNumber
	sw.volumeID = uuid.New()
	log.Field("volume_id", sw.volumeID).
		Field("volume_number", volumeNumber).
		Message("opening archive volume")
	return sw.aw.writeHeaderVolume(volumeNumber)
}

// SplitEntryHandle builds one entry in memory before it is committed to a
// volume by Finish.
type SplitEntryHandle struct {
	*entry.Writer
	buf *bytes.Buffer
	sw  *SplitWriter
}

// Finish completes the entry and commits its bytes to the current (or, if
// the budget requires it, the next) volume.
func (h *SplitEntryHandle) Finish() error {
	if err := h.Writer.Finish(); err != nil {
		return err
	}
	return h.sw.commit(h.buf.Bytes())
}

// StartEntry begins building one entry for eventual placement in the split
// archive.
func (sw *SplitWriter) StartEntry(header metadata.Header, opts ...entry.Option) (*SplitEntryHandle, error) {
	buf := &bytes.Buffer{}
	ew, err := entry.NewWriter(buf, header, opts...)
	if err != nil {
		return nil, err
	}
	return &SplitEntryHandle{Writer: ew, buf: buf, sw: sw}, nil
}

// AddSolidBlock builds a solid block in memory and commits it as one item.
func (sw *SplitWriter) AddSolidBlock(inner *solid.Writer, outer metadata.SolidHeader, opts ...solid.Option) error {
	buf := &bytes.Buffer{}
	if err := inner.Finish(buf, outer, opts...); err != nil {
		return err
	}
	return sw.commit(buf.Bytes())
}

func (sw *SplitWriter) commit(data []byte) error {
	if sw.maxVolumeBytes > 0 && sw.counter.n > 0 && sw.counter.n+int64(len(data)) > sw.maxVolumeBytes {
		if err := sw.rollVolume(); err != nil {
			return err
		}
	}
	return sw.aw.AddEntry(data)
}

func (sw *SplitWriter) rollVolume() error {
	if err := sw.aw.finalizeVolume(true); err != nil {
		return fmt.Errorf("archive: unable to finalize volume %d: %w", sw.volumeNumber, err)
	}
	if err := sw.cur.Close(); err != nil {
		return fmt.Errorf("archive: unable to close volume %d: %w", sw.volumeNumber, err)
	}
	next, err := sw.nextSink(sw.volumeNumber + 1)
	if err != nil {
		return fmt.Errorf("%w: %w", pna.ErrTruncatedSplit, err)
	}
	return sw.openVolume(next, sw.volumeNumber+1)
}

// Close finalizes the current (final) volume with a plain AEND and closes
// its sink.
func (sw *SplitWriter) Close() error {
	if err := sw.aw.Finalize(); err != nil {
		return err
	}
	return sw.cur.Close()
}
