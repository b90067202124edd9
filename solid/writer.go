// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package solid

import (
	"bytes"
	"fmt"
	"io"

	"github.com/awnumar/memguard"

	"github.com/chantsune/pna/chunk"
	"github.com/chantsune/pna/cipher"
	"github.com/chantsune/pna/compress"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/kdf"
)

// maxChunkPayload bounds a single SDAT chunk's payload, mirroring the FDAT
// ceiling.
const maxChunkPayload = 32 * 1024

// Writer accumulates inner FHED…FEND groups into a byte buffer, each
// emitted via entry.Writer with compression and encryption forced off
// regardless of what the caller's header requested, then wraps that buffer
// in a single outer compress+cipher stream on Finish.
type Writer struct {
	inner bytes.Buffer
}

// NewWriter returns an empty solid-block builder.
func NewWriter() *Writer {
	return &Writer{}
}

// StartEntry begins one inner entry. The header's Compression and
// Encryption fields are overwritten to Store/None: double-wrapping a solid
// block's members is rejected by the format, not merely discouraged.
func (w *Writer) StartEntry(header metadata.Header) (*entry.Writer, error) {
	header.Compression = metadata.CompressionStore
	header.Encryption = metadata.EncryptionNone
	return entry.NewWriter(&w.inner, header)
}

// Finish wraps the accumulated inner stream in SHED ‖ SDAT* ‖ SEND, using
// outer's compression/encryption/cipher-mode. If outer requests
// encryption, password must be supplied.
func (w *Writer) Finish(sink io.Writer, outer metadata.SolidHeader, opts ...Option) error {
	var cfg solidWriterConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := chunk.Encode(sink, chunk.TypeSHED, outer.Encode()); err != nil {
		return fmt.Errorf("solid: unable to write SHED: %w", err)
	}

	var key []byte
	if outer.Encryption != metadata.EncryptionNone {
		if len(cfg.password) == 0 {
			return entry.ErrPasswordRequired
		}
		deriver := cfg.deriver
		if deriver == nil {
			salt, err := kdf.RandomSalt(kdf.DefaultSaltLen)
			if err != nil {
				return fmt.Errorf("solid: unable to generate kdf salt: %w", err)
			}
			deriver = kdf.NewArgon2id(salt, kdf.DefaultArgon2idTime, kdf.DefaultArgon2idMemory, kdf.DefaultArgon2idThreads)
		}
		derivedKey, phc, err := kdf.Derive(deriver, cfg.password)
		if err != nil {
			return fmt.Errorf("solid: unable to derive key: %w", err)
		}
		if err := chunk.Encode(sink, chunk.TypePHSF, []byte(phc)); err != nil {
			return fmt.Errorf("solid: unable to write PHSF: %w", err)
		}
		key = derivedKey
	}
	// Only needed to construct the outer cipher stage below; the block
	// cipher it builds keeps its own expanded round keys.
	if key != nil {
		defer memguard.WipeBytes(key)
	}

	sdat := newSDATWriter(sink)

	var cipherW io.WriteCloser = nopWriteCloser{sdat}
	if outer.Encryption != metadata.EncryptionNone {
		alg, err := algorithmFor(outer.Encryption)
		if err != nil {
			return err
		}
		mode, err := modeFor(outer.CipherMode)
		if err != nil {
			return err
		}
		cw, err := cipher.NewWriter(sdat, alg, mode, key)
		if err != nil {
			return fmt.Errorf("solid: unable to create cipher writer: %w", err)
		}
		cipherW = cw
	}

	kind, err := kindFor(outer.Compression)
	if err != nil {
		return err
	}
	compressW, err := compress.NewWriter(kind, cipherW, compress.LevelDefault)
	if err != nil {
		return fmt.Errorf("solid: unable to create compress writer: %w", err)
	}

	if _, err := compressW.Write(w.inner.Bytes()); err != nil {
		return fmt.Errorf("solid: unable to write inner stream: %w", err)
	}
	if err := compressW.Close(); err != nil {
		return fmt.Errorf("solid: unable to flush compressor: %w", err)
	}
	if err := cipherW.Close(); err != nil {
		return fmt.Errorf("solid: unable to flush cipher: %w", err)
	}
	if err := sdat.flush(); err != nil {
		return err
	}
	if err := chunk.Encode(sink, chunk.TypeSEND, nil); err != nil {
		return fmt.Errorf("solid: unable to write SEND: %w", err)
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type sdatWriter struct {
	w        io.Writer
	buf      []byte
	wroteAny bool
}

func newSDATWriter(w io.Writer) *sdatWriter {
	return &sdatWriter{w: w}
}

func (s *sdatWriter) Write(p []byte) (int, error) {
	n := len(p)
	s.buf = append(s.buf, p...)
	for len(s.buf) >= maxChunkPayload {
		if err := s.emit(s.buf[:maxChunkPayload]); err != nil {
			return n, err
		}
		s.buf = s.buf[maxChunkPayload:]
	}
	return n, nil
}

func (s *sdatWriter) emit(payload []byte) error {
	if err := chunk.Encode(s.w, chunk.TypeSDAT, payload); err != nil {
		return fmt.Errorf("solid: unable to write SDAT chunk: %w", err)
	}
	s.wroteAny = true
	return nil
}

func (s *sdatWriter) flush() error {
	if len(s.buf) > 0 || !s.wroteAny {
		if err := s.emit(s.buf); err != nil {
			return err
		}
		s.buf = nil
	}
	return nil
}
