// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package pna

import "errors"

// Magic is the eight-byte signature every PNA archive volume starts with,
// modeled after PNG's own magic ("\x89PNG\r\n\x1a\n").
var Magic = [8]byte{0x89, 'P', 'N', 'A', 0x0D, 0x0A, 0x1A, 0x0A}

// CurrentMajor/CurrentMinor are the version bits this implementation writes
// into every AHED chunk it produces.
const (
	CurrentMajor uint8 = 0
	CurrentMinor uint8 = 1
)

// Error taxonomy. Each is a distinct, testable condition;
// callers classify with errors.Is. Packages wrap these with extra context
// (chunk type, offset, inner cause) rather than introducing their own
// parallel sentinel errors for the same condition.
var (
	// ErrTruncatedArchive is returned when EOF is reached before AEND.
	ErrTruncatedArchive = errors.New("pna: truncated archive (missing AEND)")
	// ErrTruncatedSplit is returned when ANXT is present but the next volume
	// is unavailable.
	ErrTruncatedSplit = errors.New("pna: truncated split archive (missing next volume)")
	// ErrCorruptChunk is returned on a CRC mismatch while decoding a chunk.
	ErrCorruptChunk = errors.New("pna: corrupt chunk (crc mismatch)")
	// ErrTruncatedChunk is returned on EOF inside chunk framing.
	ErrTruncatedChunk = errors.New("pna: truncated chunk")
	// ErrUnknownCriticalChunk is returned for an unrecognised critical chunk type.
	ErrUnknownCriticalChunk = errors.New("pna: unknown critical chunk")
	// ErrMalformedEntry is returned when the chunk sequence violates the
	// entry state machine (e.g. FDAT without a preceding FHED).
	ErrMalformedEntry = errors.New("pna: malformed entry")
	// ErrUnsupportedVersion is returned when AHED.Major is not recognised.
	ErrUnsupportedVersion = errors.New("pna: unsupported archive version")
	// ErrDecryptFailed is returned on an unpad error, missing password, or
	// wrong password.
	ErrDecryptFailed = errors.New("pna: decryption failed")
	// ErrKdfParameterError is returned for an unparseable or rejected PHSF chunk.
	ErrKdfParameterError = errors.New("pna: invalid kdf parameters")
	// ErrCorruptCompressedStream is returned on a decompressor trailer error.
	ErrCorruptCompressedStream = errors.New("pna: corrupt compressed stream")
	// ErrNestedSolid is returned when SHED is encountered inside a solid payload.
	ErrNestedSolid = errors.New("pna: nested solid block")
	// ErrChunkTooLarge is returned on the write path when a chunk's data
	// exceeds the u32 length field; callers should fragment into more chunks.
	ErrChunkTooLarge = errors.New("pna: chunk data too large")
	// ErrDuplicatePath is reported informationally by higher layers; the
	// codec itself admits duplicate paths (last-write-wins on extraction).
	ErrDuplicatePath = errors.New("pna: duplicate entry path")
)
