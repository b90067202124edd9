// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package entry

import (
	"fmt"
	"io"

	"github.com/awnumar/memguard"

	"github.com/chantsune/pna/chunk"
	"github.com/chantsune/pna/cipher"
	"github.com/chantsune/pna/compress"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/kdf"
)

type writerPhase uint8

const (
	phaseMetadata writerPhase = iota
	phasePayload
	phaseFinished
)

// Writer emits one entry: FHED, optional PHSF, metadata chunks, buffered
// FDAT payload fragments and a terminating FEND.
type Writer struct {
	sink   io.Writer
	header metadata.Header
	phase  writerPhase

	fdat      *fdatWriter
	cipherW   io.WriteCloser
	compressW io.WriteCloser
}

// NewWriter writes the FHED chunk (and, if the header requests encryption,
// derives a key and writes PHSF) and returns a Writer ready to accept
// metadata calls followed by Write calls.
func NewWriter(sink io.Writer, header metadata.Header, opts ...Option) (*Writer, error) {
	var cfg writerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := chunk.Encode(sink, chunk.TypeFHED, header.Encode()); err != nil {
		return nil, fmt.Errorf("entry: unable to write FHED: %w", err)
	}

	var key []byte
	if header.Encryption != metadata.EncryptionNone {
		if len(cfg.password) == 0 {
			return nil, ErrPasswordRequired
		}
		deriver := cfg.deriver
		if deriver == nil {
			salt, err := kdf.RandomSalt(kdf.DefaultSaltLen)
			if err != nil {
				return nil, fmt.Errorf("entry: unable to generate kdf salt: %w", err)
			}
			deriver = kdf.NewArgon2id(salt, kdf.DefaultArgon2idTime, kdf.DefaultArgon2idMemory, kdf.DefaultArgon2idThreads)
		}
		derivedKey, phc, err := kdf.Derive(deriver, cfg.password)
		if err != nil {
			return nil, fmt.Errorf("entry: unable to derive key: %w", err)
		}
		if err := chunk.Encode(sink, chunk.TypePHSF, []byte(phc)); err != nil {
			return nil, fmt.Errorf("entry: unable to write PHSF: %w", err)
		}
		key = derivedKey
	}
	// The derived key is only needed to construct the cipher stage below;
	// once that has happened the block cipher holds its own expanded round
	// keys and this buffer must not linger in memory.
	if key != nil {
		defer memguard.WipeBytes(key)
	}

	fdat := newFDATWriter(sink, chunk.TypeFDAT)

	cipherW, err := buildCipherWriter(fdat, header, key)
	if err != nil {
		return nil, err
	}
	compressW, err := buildCompressWriter(cipherW, header)
	if err != nil {
		return nil, err
	}

	return &Writer{
		sink:      sink,
		header:    header,
		fdat:      fdat,
		cipherW:   cipherW,
		compressW: compressW,
	}, nil
}

func buildCipherWriter(w io.Writer, header metadata.Header, key []byte) (io.WriteCloser, error) {
	if header.Encryption == metadata.EncryptionNone {
		return nopWriteCloser{w}, nil
	}
	alg, err := algorithmFromHeader(header.Encryption)
	if err != nil {
		return nil, err
	}
	mode, err := modeFromHeader(header.CipherMode)
	if err != nil {
		return nil, err
	}
	cw, err := cipher.NewWriter(w, alg, mode, key)
	if err != nil {
		return nil, fmt.Errorf("entry: unable to create cipher writer: %w", err)
	}
	return cw, nil
}

func buildCompressWriter(w io.Writer, header metadata.Header) (io.WriteCloser, error) {
	kind, err := kindFromHeader(header.Compression)
	if err != nil {
		return nil, err
	}
	cw, err := compress.NewWriter(kind, w, compress.LevelDefault)
	if err != nil {
		return nil, fmt.Errorf("entry: unable to create compress writer: %w", err)
	}
	return cw, nil
}

// metadata emission helpers -- each writes one ancillary chunk and must be
// called before the first Write.

func (w *Writer) SetTimestamps(ts metadata.Timestamps) error {
	return w.writeMetadata(chunk.TypeFTIM, ts.Encode())
}

func (w *Writer) SetPermission(p metadata.Permission) error {
	return w.writeMetadata(chunk.TypeFPRM, p.Encode())
}

func (w *Writer) AddXattr(x metadata.Xattr) error {
	return w.writeMetadata(chunk.TypeXATR, x.Encode())
}

func (w *Writer) SetACL(marker metadata.ACLMarker, entries []metadata.ACLEntry) error {
	// ACLEntry.Encode always writes the current layout, so the marker
	// always declares ACLEncodingCurrent.
	marker.Encoding = metadata.ACLEncodingCurrent
	if err := w.writeMetadata(chunk.TypeFACL, marker.Encode()); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.writeMetadata(chunk.TypeFACE, e.Encode()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) SetFlags(f metadata.Flags) error {
	return w.writeMetadata(chunk.TypeFFLG, f.Encode())
}

// AddPrivate re-emits an opaque ancillary chunk carried forward unchanged
// from a source archive during a transform.
func (w *Writer) AddPrivate(p metadata.Private) error {
	return w.writeMetadata(p.Type, p.Data)
}

func (w *Writer) writeMetadata(typ chunk.Type, data []byte) error {
	if w.phase != phaseMetadata {
		return fmt.Errorf("%w: metadata chunk %s after payload started", ErrMalformedEntry, typ)
	}
	if err := chunk.Encode(w.sink, typ, data); err != nil {
		return fmt.Errorf("entry: unable to write %s chunk: %w", typ, err)
	}
	return nil
}

// Write pipes plaintext through compress -> cipher -> buffered FDAT
// emission. The first call transitions the writer out of the metadata
// phase.
func (w *Writer) Write(p []byte) (int, error) {
	if w.phase == phaseFinished {
		return 0, errClosed
	}
	w.phase = phasePayload
	return w.compressW.Write(p)
}

// Finish flushes the compressor, then the cipher stage, then drains the
// remaining buffered bytes as a final FDAT chunk, then emits FEND.
func (w *Writer) Finish() error {
	if w.phase == phaseFinished {
		return nil
	}
	w.phase = phaseFinished

	if err := w.compressW.Close(); err != nil {
		return fmt.Errorf("entry: unable to flush compressor: %w", err)
	}
	if err := w.cipherW.Close(); err != nil {
		return fmt.Errorf("entry: unable to flush cipher: %w", err)
	}
	if err := w.fdat.flush(); err != nil {
		return err
	}
	if err := chunk.Encode(w.sink, chunk.TypeFEND, nil); err != nil {
		return fmt.Errorf("entry: unable to write FEND: %w", err)
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
