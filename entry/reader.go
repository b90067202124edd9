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

// ReadFHED decodes the entry header chunk. Callers that need to
// distinguish an entry from a solid block (whose framing starts with SHED
// instead) decode the leading chunk themselves and dispatch accordingly;
// ReadFHED is for the common case of reading straight into an entry.
func ReadFHED(r io.Reader) (metadata.Header, error) {
	typ, data, err := chunk.Decode(r)
	if err != nil {
		return metadata.Header{}, fmt.Errorf("entry: unable to read FHED: %w", err)
	}
	if typ != chunk.TypeFHED {
		return metadata.Header{}, fmt.Errorf("%w: expected FHED, got %s", ErrMalformedEntry, typ)
	}
	return metadata.DecodeHeader(data)
}

// Reader presents one entry's decoded metadata and decrypted/decompressed
// payload.
type Reader struct {
	Header      metadata.Header
	Timestamps  *metadata.Timestamps
	Permission  *metadata.Permission
	Xattrs      []metadata.Xattr
	ACLMarker   *metadata.ACLMarker
	ACLEntries  []metadata.ACLEntry
	Flags       *metadata.Flags
	Private     []metadata.Private

	payload io.Reader
	raw     *fdatReader
}

// NewReader collects the in-order metadata chunks following an
// already-decoded FHED, then builds the decrypt/decompress stack over the
// remaining FDAT/FEND stream.
func NewReader(r io.Reader, header metadata.Header, opts ...ReadOption) (*Reader, error) {
	var cfg readerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rd := &Reader{Header: header}

	var phc string
	var pendingType chunk.Type
	var pendingData []byte

	for {
		typ, data, err := chunk.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("entry: unable to read metadata chunk: %w", err)
		}
		switch typ {
		case chunk.TypePHSF:
			phc = string(data)
		case chunk.TypeFTIM:
			ts, err := metadata.DecodeTimestamps(data)
			if err != nil {
				return nil, err
			}
			rd.Timestamps = &ts
		case chunk.TypeFPRM:
			p, err := metadata.DecodePermission(data)
			if err != nil {
				return nil, err
			}
			rd.Permission = &p
		case chunk.TypeXATR:
			x, err := metadata.DecodeXattr(data)
			if err != nil {
				return nil, err
			}
			rd.Xattrs = append(rd.Xattrs, x)
		case chunk.TypeFACL:
			m, err := metadata.DecodeACLMarker(data)
			if err != nil {
				return nil, err
			}
			rd.ACLMarker = &m
		case chunk.TypeFACE:
			var e metadata.ACLEntry
			if rd.ACLMarker != nil && rd.ACLMarker.Encoding == metadata.ACLEncodingLegacy {
				e, err = metadata.DecodeLegacyACLEntry(data)
			} else {
				e, err = metadata.DecodeACLEntry(data)
			}
			if err != nil {
				return nil, err
			}
			rd.ACLEntries = append(rd.ACLEntries, e)
		case chunk.TypeFFLG:
			f, err := metadata.DecodeFlags(data)
			if err != nil {
				return nil, err
			}
			rd.Flags = &f
		case chunk.TypeFDAT, chunk.TypeFEND:
			pendingType, pendingData = typ, data
		default:
			if typ.IsCritical() {
				return nil, fmt.Errorf("%w: unknown critical chunk %s in entry metadata", ErrMalformedEntry, typ)
			}
			rd.Private = append(rd.Private, metadata.Private{Type: [4]byte(typ), Data: data})
		}
		if pendingType != (chunk.Type{}) {
			break
		}
	}

	// The raw FDAT/FEND reader is built before key derivation can fail so
	// that any error below can still drain the entry's payload chunks,
	// leaving the underlying stream positioned at the next top-level
	// chunk for a caller iterating an archive.
	fdat := newFDATReader(r, chunk.TypeFDAT, chunk.TypeFEND, pendingType, pendingData)
	rd.raw = fdat

	var key []byte
	if header.Encryption != metadata.EncryptionNone {
		if phc == "" {
			return nil, rd.failAndDrain(fmt.Errorf("%w: no PHSF chunk", kdf.ErrInvalidPHC))
		}
		if len(cfg.password) == 0 {
			return nil, rd.failAndDrain(ErrPasswordRequired)
		}
		recovered, err := kdf.Recover(phc, cfg.password)
		if err != nil {
			return nil, rd.failAndDrain(err)
		}
		key = recovered
	}
	// Re-derived key material is only needed to construct the cipher
	// stage below; the stream's cipher.Stream retains its own expanded
	// keystream state afterward.
	if key != nil {
		defer memguard.WipeBytes(key)
	}

	cipherR, err := buildCipherReader(fdat, header, key)
	if err != nil {
		return nil, rd.failAndDrain(err)
	}
	payload, err := buildCompressReader(cipherR, header)
	if err != nil {
		return nil, rd.failAndDrain(err)
	}
	rd.payload = payload

	return rd, nil
}

// failAndDrain discards the entry's remaining raw FDAT/FEND chunks before
// returning err, so a caller that cannot construct this Reader can still
// keep reading the rest of the archive.
func (r *Reader) failAndDrain(err error) error {
	if drainErr := r.SkipRemaining(); drainErr != nil {
		return fmt.Errorf("%w (also failed to drain payload: %v)", err, drainErr)
	}
	return err
}

// SkipRemaining discards any unread FDAT/FEND chunks belonging to this
// entry directly, without routing them through decryption or
// decompression, so a caller can abandon an entry reader mid-payload and
// still leave the underlying stream positioned at the next FHED. It is
// idempotent and safe to call after the payload has already been fully
// read.
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

func buildCipherReader(r io.Reader, header metadata.Header, key []byte) (io.Reader, error) {
	if header.Encryption == metadata.EncryptionNone {
		return r, nil
	}
	alg, err := algorithmFromHeader(header.Encryption)
	if err != nil {
		return nil, err
	}
	mode, err := modeFromHeader(header.CipherMode)
	if err != nil {
		return nil, err
	}
	cr, err := cipher.NewReader(r, alg, mode, key)
	if err != nil {
		return nil, fmt.Errorf("entry: unable to create cipher reader: %w", err)
	}
	return cr, nil
}

func buildCompressReader(r io.Reader, header metadata.Header) (io.Reader, error) {
	kind, err := kindFromHeader(header.Compression)
	if err != nil {
		return nil, err
	}
	cr, err := compress.NewReader(kind, r)
	if err != nil {
		return nil, fmt.Errorf("entry: unable to create compress reader: %w", err)
	}
	return cr, nil
}

// Read returns decrypted, decompressed payload bytes.
func (r *Reader) Read(p []byte) (int, error) {
	return r.payload.Read(p)
}
