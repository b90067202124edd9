// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/chunk"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/solid"
)

type writerState uint8

const (
	stateFresh writerState = iota
	stateHeaderWritten
	stateEntryInProgress
	stateIdle
	stateFinalized
)

// Writer implements the archive writer state machine: Fresh ->
// HeaderWritten -> (EntryInProgress|Idle)* -> Finalized.
type Writer struct {
	sink  io.Writer
	state writerState
}

// NewWriter returns a writer in the Fresh state.
func NewWriter(sink io.Writer) *Writer {
	return &Writer{sink: sink, state: stateFresh}
}

// WriteHeader emits the magic signature and AHED(archive_number=1).
func (w *Writer) WriteHeader() error {
	return w.writeHeaderVolume(1)
}

func (w *Writer) writeHeaderVolume(archiveNumber uint32) error {
	if w.state != stateFresh {
		return fmt.Errorf("archive: WriteHeader called outside the Fresh state")
	}
	if _, err := w.sink.Write(pna.Magic[:]); err != nil {
		return fmt.Errorf("archive: unable to write magic: %w", err)
	}
	h := header{Major: pna.CurrentMajor, Minor: pna.CurrentMinor, ArchiveNumber: archiveNumber}
	if err := chunk.Encode(w.sink, chunk.TypeAHED, h.encode()); err != nil {
		return fmt.Errorf("archive: unable to write AHED: %w", err)
	}
	w.state = stateHeaderWritten
	return nil
}

// EntryHandle wraps entry.Writer, returning the archive writer to Idle when
// Finish is called.
type EntryHandle struct {
	*entry.Writer
	archive *Writer
}

// Finish completes the underlying entry and returns the archive writer to
// the Idle state.
func (h *EntryHandle) Finish() error {
	if err := h.Writer.Finish(); err != nil {
		return err
	}
	h.archive.state = stateIdle
	return nil
}

// StartEntry transitions to EntryInProgress and returns a builder handle
// for one entry. The archive writer must be in HeaderWritten or Idle.
func (w *Writer) StartEntry(header metadata.Header, opts ...entry.Option) (*EntryHandle, error) {
	if err := w.requireReady(); err != nil {
		return nil, err
	}
	ew, err := entry.NewWriter(w.sink, header, opts...)
	if err != nil {
		return nil, err
	}
	w.state = stateEntryInProgress
	return &EntryHandle{Writer: ew, archive: w}, nil
}

// AddSolidBlock writes a fully built solid block atomically: SHED, the
// outer compressed/encrypted stream, and SEND. The archive writer must be
// in HeaderWritten or Idle; it remains Idle afterwards, since the solid
// writer already buffered its inner entries off-stream.
func (w *Writer) AddSolidBlock(sw *solid.Writer, outer metadata.SolidHeader, opts ...solid.Option) error {
	if err := w.requireReady(); err != nil {
		return err
	}
	return sw.Finish(w.sink, outer, opts...)
}

// AddEntry appends an already-serialised entry (a complete FHED…FEND byte
// sequence) atomically. The archive writer must be in HeaderWritten or
// Idle.
func (w *Writer) AddEntry(prebuilt []byte) error {
	if err := w.requireReady(); err != nil {
		return err
	}
	if _, err := w.sink.Write(prebuilt); err != nil {
		return fmt.Errorf("archive: unable to write prebuilt entry: %w", err)
	}
	return nil
}

func (w *Writer) requireReady() error {
	switch w.state {
	case stateFresh:
		return ErrHeaderNotWritten
	case stateEntryInProgress:
		return ErrEntryInProgress
	case stateFinalized:
		return ErrWriterFinalized
	default:
		return nil
	}
}

// Finalize emits AEND and transitions to Finalized. Any further write
// operation fails with ErrWriterFinalized.
func (w *Writer) Finalize() error {
	return w.finalizeVolume(false)
}

func (w *Writer) finalizeVolume(anxt bool) error {
	if w.state == stateFinalized {
		return nil
	}
	if w.state == stateEntryInProgress {
		return ErrEntryInProgress
	}
	if anxt {
		if err := chunk.Encode(w.sink, chunk.TypeANXT, nil); err != nil {
			return fmt.Errorf("archive: unable to write ANXT: %w", err)
		}
	}
	if err := chunk.Encode(w.sink, chunk.TypeAEND, nil); err != nil {
		return fmt.Errorf("archive: unable to write AEND: %w", err)
	}
	w.state = stateFinalized
	return nil
}
