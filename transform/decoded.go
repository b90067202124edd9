// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"io"

	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
)

// Decoded is one entry fully materialised in memory: its header, every
// metadata chunk, and its complete decoded payload. A mutate callback
// receives and returns one of these so it never has to reason about the
// underlying chunk/cipher/compress stack.
type Decoded struct {
	Header     metadata.Header
	Timestamps *metadata.Timestamps
	Permission *metadata.Permission
	Xattrs     []metadata.Xattr
	ACLMarker  *metadata.ACLMarker
	ACLEntries []metadata.ACLEntry
	Flags      *metadata.Flags
	Private    []metadata.Private
	Payload    []byte
}

func decodeEntry(er *entry.Reader) (*Decoded, error) {
	payload, err := io.ReadAll(er)
	if err != nil {
		return nil, fmt.Errorf("transform: unable to read entry payload: %w", err)
	}
	return &Decoded{
		Header:     er.Header,
		Timestamps: er.Timestamps,
		Permission: er.Permission,
		Xattrs:     er.Xattrs,
		ACLMarker:  er.ACLMarker,
		ACLEntries: er.ACLEntries,
		Flags:      er.Flags,
		Private:    er.Private,
		Payload:    payload,
	}, nil
}

// writeEntry replays d's metadata and payload through a fresh
// entry.Writer obtained from newWriter, in FHED's documented order:
// timestamps, permission, xattrs, ACL, flags, then private/unknown
// ancillary chunks.
func writeEntry(d *Decoded, newWriter func(metadata.Header) (finisher, error)) error {
	w, err := newWriter(d.Header)
	if err != nil {
		return err
	}
	if d.Timestamps != nil {
		if err := w.SetTimestamps(*d.Timestamps); err != nil {
			return err
		}
	}
	if d.Permission != nil {
		if err := w.SetPermission(*d.Permission); err != nil {
			return err
		}
	}
	for _, x := range d.Xattrs {
		if err := w.AddXattr(x); err != nil {
			return err
		}
	}
	if d.ACLMarker != nil {
		if err := w.SetACL(*d.ACLMarker, d.ACLEntries); err != nil {
			return err
		}
	}
	if d.Flags != nil {
		if err := w.SetFlags(*d.Flags); err != nil {
			return err
		}
	}
	for _, p := range d.Private {
		if err := w.AddPrivate(p); err != nil {
			return err
		}
	}
	if _, err := w.Write(d.Payload); err != nil {
		return fmt.Errorf("transform: unable to write entry payload: %w", err)
	}
	return w.Finish()
}

// finisher is the subset of *entry.Writer (or a wrapper around one, e.g.
// archive.EntryHandle) that writeEntry needs.
type finisher interface {
	SetTimestamps(metadata.Timestamps) error
	SetPermission(metadata.Permission) error
	AddXattr(metadata.Xattr) error
	SetACL(metadata.ACLMarker, []metadata.ACLEntry) error
	SetFlags(metadata.Flags) error
	AddPrivate(metadata.Private) error
	Write([]byte) (int, error)
	Finish() error
}
