// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/chunk"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/solid"
)

type readerState uint8

const (
	stateReaderFresh readerState = iota
	stateReaderHeaderRead
	stateReaderBetweenEntries
	stateReaderEnd
	stateReaderPoisoned
)

// ItemKind distinguishes what Reader.Next returned.
type ItemKind uint8

const (
	ItemEntry ItemKind = iota
	ItemSolid
)

// Item is one value yielded by Reader.Next: either a normal entry or a
// solid block.
type Item struct {
	Kind  ItemKind
	Entry *entry.Reader
	Solid *solid.Reader
}

// skipRemaining discards whatever is left unread in the item so the
// underlying stream is correctly positioned at the next top-level chunk.
func (it *Item) skipRemaining() error {
	switch it.Kind {
	case ItemEntry:
		return it.Entry.SkipRemaining()
	case ItemSolid:
		return it.Solid.SkipRemaining()
	default:
		return nil
	}
}

// ReadOption configures a Reader.
type ReadOption func(*readerConfig)

type readerConfig struct {
	password []byte
}

// WithPassword supplies the password used to decrypt any encrypted entry
// or solid block encountered while reading.
func WithPassword(password []byte) ReadOption {
	return func(c *readerConfig) {
		c.password = password
	}
}

// NextSourceFunc opens the next volume of a split archive. Its argument is
// the current volume's AHED archive number plus one, i.e. the number of the
// volume to open. It is invoked by Next when a volume ends with ANXT.
type NextSourceFunc func(archiveNumber uint32) (io.Reader, error)

// Reader implements the archive reader state machine: Fresh -> HeaderRead
// -> (EntryAvailable|BetweenEntries)* -> End.
type Reader struct {
	src     io.Reader
	cfg     readerConfig
	state   readerState
	pend    *Item
	nextSrc NextSourceFunc

	volumeNumber uint32
	sawANXT      bool
}

// NewReader returns a reader in the Fresh state. nextSrc may be nil for a
// single-volume archive; Next returns ErrTruncatedSplit if ANXT is
// encountered without one.
func NewReader(src io.Reader, nextSrc NextSourceFunc, opts ...ReadOption) *Reader {
	var cfg readerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{src: src, cfg: cfg, nextSrc: nextSrc}
}

// ReadHeader consumes the magic signature and AHED chunk, validating the
// major version.
func (r *Reader) ReadHeader() error {
	if r.state != stateReaderFresh {
		return fmt.Errorf("archive: ReadHeader called outside the Fresh state")
	}
	magic := make([]byte, len(pna.Magic))
	if _, err := io.ReadFull(r.src, magic); err != nil {
		return fmt.Errorf("%w: %w", pna.ErrTruncatedArchive, err)
	}
	if !bytes.Equal(magic, pna.Magic[:]) {
		return fmt.Errorf("archive: not a PNA archive: bad magic")
	}
	typ, data, err := chunk.Decode(r.src)
	if err != nil {
		return fmt.Errorf("archive: unable to read AHED: %w", err)
	}
	if typ != chunk.TypeAHED {
		return fmt.Errorf("archive: expected AHED, got %s", typ)
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	if h.Major != pna.CurrentMajor {
		return pna.ErrUnsupportedVersion
	}
	r.volumeNumber = h.ArchiveNumber
	r.state = stateReaderHeaderRead
	return nil
}

// Next returns the following item, or io.EOF once AEND with no further
// volume has been reached; calls after that return ErrReaderEnded.
func (r *Reader) Next() (*Item, error) {
	if r.state == stateReaderPoisoned {
		return nil, ErrReaderPoisoned
	}
	if r.state == stateReaderEnd {
		return nil, ErrReaderEnded
	}
	if r.state == stateReaderFresh {
		return nil, ErrHeaderNotWritten
	}

	if r.pend != nil {
		if err := r.pend.skipRemaining(); err != nil {
			r.state = stateReaderPoisoned
			return nil, err
		}
		r.pend = nil
	}

	for {
		typ, data, err := chunk.Decode(r.src)
		if err != nil {
			r.state = stateReaderPoisoned
			return nil, fmt.Errorf("archive: unable to read chunk: %w", err)
		}
		switch typ {
		case chunk.TypeFHED:
			header, err := decodeFHED(data)
			if err != nil {
				r.state = stateReaderPoisoned
				return nil, err
			}
			er, err := entry.NewReader(r.src, header, entryReadOpts(r.cfg)...)
			if err != nil {
				// Per-entry errors (bad password, malformed metadata)
				// do not poison the archive reader.
				return nil, err
			}
			item := &Item{Kind: ItemEntry, Entry: er}
			r.pend = item
			r.state = stateReaderBetweenEntries
			return item, nil
		case chunk.TypeSHED:
			outer, err := decodeSHED(data)
			if err != nil {
				r.state = stateReaderPoisoned
				return nil, err
			}
			sr, err := solid.NewReader(r.src, outer, solidReadOpts(r.cfg)...)
			if err != nil {
				return nil, err
			}
			item := &Item{Kind: ItemSolid, Solid: sr}
			r.pend = item
			r.state = stateReaderBetweenEntries
			return item, nil
		case chunk.TypeANXT:
			r.sawANXT = true
			continue
		case chunk.TypeAEND:
			return r.handleVolumeEnd()
		default:
			if typ.IsCritical() {
				r.state = stateReaderPoisoned
				return nil, fmt.Errorf("%w: %s", pna.ErrUnknownCriticalChunk, typ)
			}
			// Unknown ancillary chunk between entries: skip.
			continue
		}
	}
}

// handleVolumeEnd is reached on AEND. If the volume's last chunk before
// AEND was ANXT, another volume follows and nextSrc must be set; otherwise
// this AEND is the archive's true end.
func (r *Reader) handleVolumeEnd() (*Item, error) {
	if !r.sawANXT {
		r.state = stateReaderEnd
		return nil, io.EOF
	}
	if r.nextSrc == nil {
		r.state = stateReaderPoisoned
		return nil, fmt.Errorf("%w: no NextSourceFunc configured", pna.ErrTruncatedSplit)
	}
	next, err := r.nextSrc(r.volumeNumber + 1)
	if err != nil {
		r.state = stateReaderPoisoned
		return nil, fmt.Errorf("%w: %w", pna.ErrTruncatedSplit, err)
	}
	r.src = next
	r.sawANXT = false
	if err := r.readVolumeHeader(); err != nil {
		r.state = stateReaderPoisoned
		return nil, err
	}
	return r.Next()
}

func (r *Reader) readVolumeHeader() error {
	magic := make([]byte, len(pna.Magic))
	if _, err := io.ReadFull(r.src, magic); err != nil {
		return fmt.Errorf("%w: %w", pna.ErrTruncatedSplit, err)
	}
	if !bytes.Equal(magic, pna.Magic[:]) {
		return fmt.Errorf("archive: not a PNA archive volume: bad magic")
	}
	typ, data, err := chunk.Decode(r.src)
	if err != nil {
		return fmt.Errorf("archive: unable to read volume AHED: %w", err)
	}
	if typ != chunk.TypeAHED {
		return fmt.Errorf("archive: expected AHED, got %s", typ)
	}
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	r.volumeNumber = h.ArchiveNumber
	return nil
}
