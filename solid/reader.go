// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package solid

import (
	"fmt"
	"io"

	"github.com/awnumar/memguard"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/chunk"
	"github.com/chantsune/pna/cipher"
	"github.com/chantsune/pna/compress"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/kdf"
)

// ReadOption configures a Reader.
type ReadOption func(*readerConfig)

type readerConfig struct {
	password []byte
}

// WithReadPassword supplies the password used to recover the solid block's
// outer encryption key.
func WithReadPassword(password []byte) ReadOption {
	return func(c *readerConfig) {
		c.password = password
	}
}

// ReadSHED decodes the solid block header chunk.
func ReadSHED(r io.Reader) (metadata.SolidHeader, error) {
	typ, data, err := chunk.Decode(r)
	if err != nil {
		return metadata.SolidHeader{}, fmt.Errorf("solid: unable to read SHED: %w", err)
	}
	if typ != chunk.TypeSHED {
		return metadata.SolidHeader{}, fmt.Errorf("%w: expected SHED, got %s", entry.ErrMalformedEntry, typ)
	}
	return metadata.DecodeSolidHeader(data)
}

// Reader iterates the inner entries of a solid block, already positioned
// immediately after an SHED chunk decoded by the caller (e.g. the archive
// reader, which must distinguish FHED from SHED before dispatching here).
type Reader struct {
	Outer metadata.SolidHeader

	inner io.Reader
	raw   *sdatReader
}

// NewReader builds the decrypt/decompress stack over the SDAT/SEND stream
// following outer's SHED, consuming the block's PHSF chunk first if outer
// requests encryption.
func NewReader(r io.Reader, outer metadata.SolidHeader, opts ...ReadOption) (*Reader, error) {
	var cfg readerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var key []byte
	var phc []byte
	if outer.Encryption != metadata.EncryptionNone {
		typ, data, err := chunk.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("solid: unable to read PHSF: %w", err)
		}
		if typ != chunk.TypePHSF {
			return nil, fmt.Errorf("%w: expected PHSF, got %s", entry.ErrMalformedEntry, typ)
		}
		phc = data
	}

	// Built before any key-derivation error can be returned, so a failed
	// password still leaves the underlying stream positioned at the next
	// top-level chunk for a caller iterating an archive.
	sdat := newSDATReader(r)
	drain := func(err error) error {
		buf := make([]byte, 32*1024)
		for {
			_, derr := sdat.Read(buf)
			if derr == io.EOF {
				return err
			}
			if derr != nil {
				return fmt.Errorf("%w (also failed to drain solid payload: %v)", err, derr)
			}
		}
	}

	if outer.Encryption != metadata.EncryptionNone {
		if len(cfg.password) == 0 {
			return nil, drain(entry.ErrPasswordRequired)
		}
		recovered, err := kdf.Recover(string(phc), cfg.password)
		if err != nil {
			return nil, drain(err)
		}
		key = recovered
	}
	// Only needed to construct the outer cipher stage below.
	if key != nil {
		defer memguard.WipeBytes(key)
	}

	var cipherR io.Reader = sdat
	if outer.Encryption != metadata.EncryptionNone {
		alg, err := algorithmFor(outer.Encryption)
		if err != nil {
			return nil, drain(err)
		}
		mode, err := modeFor(outer.CipherMode)
		if err != nil {
			return nil, drain(err)
		}
		cr, err := cipher.NewReader(sdat, alg, mode, key)
		if err != nil {
			return nil, drain(fmt.Errorf("solid: unable to create cipher reader: %w", err))
		}
		cipherR = cr
	}

	kind, err := kindFor(outer.Compression)
	if err != nil {
		return nil, drain(err)
	}
	innerStream, err := compress.NewReader(kind, cipherR)
	if err != nil {
		return nil, drain(fmt.Errorf("solid: unable to create compress reader: %w", err))
	}

	return &Reader{Outer: outer, inner: innerStream, raw: sdat}, nil
}

// SkipRemaining discards any unread SDAT/SEND chunks directly, without
// decrypting or decompressing them, so a caller can abandon a solid block
// mid-iteration and still leave the underlying archive stream positioned
// at the next top-level chunk.
func (r *Reader) SkipRemaining() error {
	buf := make([]byte, 32*1024)
	for {
		_, err := r.raw.Read(buf)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Next decodes the following inner entry. It returns io.EOF once the inner
// stream is exhausted.
func (r *Reader) Next() (*entry.Reader, error) {
	typ, data, err := chunk.Decode(r.inner)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("solid: unable to read inner chunk: %w", err)
	}
	switch typ {
	case chunk.TypeSHED:
		return nil, pna.ErrNestedSolid
	case chunk.TypeFHED:
		header, err := metadata.DecodeHeader(data)
		if err != nil {
			return nil, err
		}
		return entry.NewReader(r.inner, header)
	default:
		return nil, fmt.Errorf("%w: unexpected chunk %s starting an inner entry", entry.ErrMalformedEntry, typ)
	}
}

type sdatReader struct {
	r    io.Reader
	buf  []byte
	done bool
}

func newSDATReader(r io.Reader) *sdatReader {
	return &sdatReader{r: r}
}

func (s *sdatReader) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		if s.done {
			return 0, io.EOF
		}
		typ, data, err := chunk.Decode(s.r)
		if err != nil {
			return 0, fmt.Errorf("solid: unable to read SDAT/SEND chunk: %w", err)
		}
		switch typ {
		case chunk.TypeSDAT:
			s.buf = data
		case chunk.TypeSEND:
			s.done = true
			return 0, io.EOF
		default:
			return 0, fmt.Errorf("%w: unexpected chunk %s in solid payload", entry.ErrMalformedEntry, typ)
		}
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}
