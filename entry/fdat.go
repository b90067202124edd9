// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package entry

import (
	"fmt"
	"io"

	"github.com/chantsune/pna/chunk"
)

// maxChunkPayload bounds the size of a single FDAT chunk's payload. The
// format does not require any particular value; this ceiling keeps memory
// use predictable for large entries.
const maxChunkPayload = 32 * 1024

// fdatWriter accumulates ciphertext/compressed bytes and emits them as
// FDAT chunks once the buffer reaches maxChunkPayload, or whatever remains
// on flush.
type fdatWriter struct {
	w        io.Writer
	typ      chunk.Type
	buf      []byte
	wroteAny bool
}

func newFDATWriter(w io.Writer, typ chunk.Type) *fdatWriter {
	return &fdatWriter{w: w, typ: typ}
}

func (f *fdatWriter) Write(p []byte) (int, error) {
	n := len(p)
	f.buf = append(f.buf, p...)
	for len(f.buf) >= maxChunkPayload {
		if err := f.emit(f.buf[:maxChunkPayload]); err != nil {
			return n, err
		}
		f.buf = f.buf[maxChunkPayload:]
	}
	return n, nil
}

func (f *fdatWriter) emit(payload []byte) error {
	if err := chunk.Encode(f.w, f.typ, payload); err != nil {
		return fmt.Errorf("entry: unable to write %s chunk: %w", f.typ, err)
	}
	f.wroteAny = true
	return nil
}

// flush emits any remaining buffered bytes as a final chunk. It always
// emits at least one chunk so readers see an explicit (possibly empty)
// payload fragment for zero-byte entries.
func (f *fdatWriter) flush() error {
	if len(f.buf) > 0 || !f.wroteAny {
		if err := f.emit(f.buf); err != nil {
			return err
		}
		f.buf = nil
	}
	return nil
}

// fdatReader presents the concatenation of FDAT payloads up to FEND as a
// single io.Reader, reading chunks lazily as the buffer drains.
type fdatReader struct {
	r       io.Reader
	buf     []byte
	done    bool
	dataTyp chunk.Type
	endTyp  chunk.Type
}

// newFDATReader builds a reader over the FDAT/FEND stream. pendingType and
// pendingData are a chunk the caller already decoded while scanning
// metadata chunks (the first FDAT or the empty FEND that terminates a
// payload-less entry); they are consumed before any further chunk is read
// from r.
func newFDATReader(r io.Reader, dataTyp, endTyp, pendingType chunk.Type, pendingData []byte) *fdatReader {
	f := &fdatReader{r: r, dataTyp: dataTyp, endTyp: endTyp}
	switch pendingType {
	case dataTyp:
		f.buf = pendingData
	case endTyp:
		f.done = true
	}
	return f
}

func (f *fdatReader) Read(p []byte) (int, error) {
	for len(f.buf) == 0 {
		if f.done {
			return 0, io.EOF
		}
		typ, data, err := chunk.Decode(f.r)
		if err != nil {
			return 0, fmt.Errorf("entry: unable to read payload chunk: %w", err)
		}
		switch typ {
		case f.dataTyp:
			f.buf = data
		case f.endTyp:
			f.done = true
			return 0, io.EOF
		default:
			return 0, fmt.Errorf("%w: unexpected chunk %s in payload", ErrMalformedEntry, typ)
		}
	}
	n := copy(p, f.buf)
	f.buf = f.buf[n:]
	return n, nil
}
