// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/internal/crc32pna"
	"github.com/chantsune/pna/ioutil"
)

// MaxDataLen is the largest data payload a single chunk may carry, bound by
// the u32-be length field.
const MaxDataLen = 1<<32 - 1

// maxPreviewBytes bounds the hex sample attached to a corrupt chunk's Error,
// so a huge bogus chunk doesn't turn into a huge error string.
const maxPreviewBytes = 16

// Error wraps a decoding/encoding failure with the chunk type and (when
// known) its byte offset within the stream, so a caller can localise a
// failure instead of just seeing a bare sentinel error. Preview, when
// non-empty, is a truncated hex sample of the chunk's data for diagnostics;
// it is never used to reconstruct the chunk.
type Error struct {
	Type    Type
	Offset  int64
	Err     error
	Preview []byte
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("chunk %s", e.Type)
	if e.Offset >= 0 {
		loc = fmt.Sprintf("chunk %s at offset %d", e.Type, e.Offset)
	}
	if len(e.Preview) > 0 {
		return fmt.Sprintf("%s: %v (data: %x...)", loc, e.Err, e.Preview)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

// previewOf returns a bounded hex-ready sample of data, used to annotate a
// corrupt chunk's Error without holding onto (or printing) the whole thing.
func previewOf(data []byte) []byte {
	var buf bytes.Buffer
	_, _ = io.Copy(ioutil.LimitWriter(&buf, maxPreviewBytes), bytes.NewReader(data))
	return buf.Bytes()
}

func (e *Error) Unwrap() error { return e.Err }

// Encode writes one chunk to w as length(BE u32) ‖ type(4) ‖ data ‖
// crc32(BE u32), where crc32 covers type ‖ data (not length). It returns
// ErrChunkTooLarge if len(data) does not fit in a u32.
func Encode(w io.Writer, typ Type, data []byte) error {
	if len(data) > MaxDataLen {
		return &Error{Type: typ, Offset: -1, Err: pna.ErrChunkTooLarge}
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], typ[:])

	if _, err := w.Write(header[:]); err != nil {
		return &Error{Type: typ, Offset: -1, Err: fmt.Errorf("unable to write chunk header: %w", err)}
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return &Error{Type: typ, Offset: -1, Err: fmt.Errorf("unable to write chunk data: %w", err)}
		}
	}

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc32pna.Sum(typ, data))
	if _, err := w.Write(trailer[:]); err != nil {
		return &Error{Type: typ, Offset: -1, Err: fmt.Errorf("unable to write chunk crc: %w", err)}
	}

	return nil
}

// Decode reads one chunk from r, verifying its CRC. On a CRC mismatch it
// returns ErrCorruptChunk; on EOF inside the framing it returns
// ErrTruncatedChunk (clean EOF before any byte of the length field is
// returned as-is, a io.EOF, to signal a clean end of stream to the caller).
func Decode(r io.Reader) (Type, []byte, error) {
	var header [8]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return Type{}, nil, io.EOF
		}
		return Type{}, nil, &Error{Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, err)}
	}

	length := binary.BigEndian.Uint32(header[:4])
	var typ Type
	copy(typ[:], header[4:])

	// The length field is attacker-controlled and read before anything is
	// verified, so the payload is streamed into a buffer capped at the
	// declared length rather than allocated up front with make([]byte,
	// length): a bogus multi-gigabyte length fails as a short read instead
	// of an instant multi-gigabyte allocation.
	var body bytes.Buffer
	if length > 0 {
		n, err := ioutil.LimitCopy(&body, io.LimitReader(r, int64(length)), uint64(length))
		if err != nil {
			return typ, nil, &Error{Type: typ, Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, err)}
		}
		if n != uint64(length) {
			return typ, nil, &Error{Type: typ, Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, io.ErrUnexpectedEOF)}
		}
	}
	data := body.Bytes()

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return typ, nil, &Error{Type: typ, Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, err)}
	}

	want := binary.BigEndian.Uint32(trailer[:])
	got := crc32pna.Sum(typ, data)
	if want != got {
		return typ, nil, &Error{Type: typ, Offset: -1, Err: pna.ErrCorruptChunk, Preview: previewOf(data)}
	}

	return typ, data, nil
}

// Walk decodes every chunk from r in sequence, calling fn with its type,
// data length, and whether its CRC matched, until r is exhausted. It never
// returns the chunk body, so it is cheap to run over an entire archive
// purely to enumerate its framing (e.g. a "list chunks" tool). A CRC
// mismatch is reported to fn (crcOK=false) rather than aborting the walk,
// since enumerating framing should not require every payload to be intact;
// any other decode failure (truncation, I/O error) stops the walk and is
// returned. fn's own error also stops the walk and is returned unwrapped.
func Walk(r io.Reader, fn func(typ Type, length int, crcOK bool) error) error {
	for {
		typ, data, err := Decode(r)
		if err == io.EOF {
			return nil
		}
		var chunkErr *Error
		if errors.As(err, &chunkErr) && errors.Is(chunkErr.Err, pna.ErrCorruptChunk) {
			if err := fn(typ, len(data), false); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(typ, len(data), true); err != nil {
			return err
		}
	}
}

// Skip reads one whole chunk from r through Decode, discards its data and
// returns only its type and data length, for callers that only need to
// advance past it. It still validates the CRC, since a corrupt
// chunk must be reported even when its content is never inspected.
func Skip(r io.Reader) (Type, int, error) {
	typ, data, err := Decode(r)
	if err != nil {
		return typ, 0, err
	}
	return typ, len(data), nil
}

// SkipSeek is like Skip but avoids reading the chunk body entirely when r
// supports seeking. It does not
// verify the CRC, since doing so would require reading the data anyway;
// callers that need integrity verification while skipping should use Skip.
func SkipSeek(r io.ReadSeeker) (Type, int64, error) {
	var header [8]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return Type{}, 0, io.EOF
		}
		return Type{}, 0, &Error{Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, err)}
	}

	length := binary.BigEndian.Uint32(header[:4])
	var typ Type
	copy(typ[:], header[4:])

	if _, err := r.Seek(int64(length)+4, io.SeekCurrent); err != nil {
		return typ, 0, &Error{Type: typ, Offset: -1, Err: fmt.Errorf("%w: %w", pna.ErrTruncatedChunk, err)}
	}

	return typ, int64(length), nil
}
