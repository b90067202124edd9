// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"errors"
	"io"

	"github.com/chantsune/pna"
)

// Kind identifies a supported compression method.
type Kind uint8

const (
	// Store applies no compression at all.
	Store Kind = iota
	// Deflate selects RFC 1950 DEFLATE, via the standard library.
	Deflate
	// Zstd selects Zstandard.
	Zstd
	// XZ selects XZ/LZMA2.
	XZ
)

// Level selects a compression level. The two sentinels are valid for every
// Kind; numeric levels are interpreted per-format (Deflate: 1-9, Zstd: 1-4
// mapped to the library's speed/ratio presets, XZ: 0-9 dictionary presets).
type Level int

const (
	// LevelDefault requests the format's own default level.
	LevelDefault Level = -3
	// LevelMin requests the fastest, least dense setting the format offers.
	LevelMin Level = -1
	// LevelMax requests the slowest, most dense setting the format offers.
	LevelMax Level = -2
)

// ErrCorruptCompressedStream wraps any trailer/frame validation failure
// surfaced by the underlying compression library.
var ErrCorruptCompressedStream = pna.ErrCorruptCompressedStream

// ErrUnsupportedKind is returned for a Kind value this package does not
// implement.
var ErrUnsupportedKind = errors.New("compress: unsupported kind")

// NewWriter returns a streaming compressing io.WriteCloser for kind. Closing
// it flushes and finalizes the underlying format's trailer; it does not
// close w.
func NewWriter(kind Kind, w io.Writer, level Level) (io.WriteCloser, error) {
	switch kind {
	case Store:
		return newStoreWriter(w), nil
	case Deflate:
		return newDeflateWriter(w, level)
	case Zstd:
		return newZstdWriter(w, level)
	case XZ:
		return newXZWriter(w, level)
	default:
		return nil, ErrUnsupportedKind
	}
}

// NewReader returns a streaming decompressing io.ReadCloser for kind.
func NewReader(kind Kind, r io.Reader) (io.ReadCloser, error) {
	switch kind {
	case Store:
		return newStoreReader(r), nil
	case Deflate:
		return newDeflateReader(r)
	case Zstd:
		return newZstdReader(r)
	case XZ:
		return newXZReader(r)
	default:
		return nil, ErrUnsupportedKind
	}
}
