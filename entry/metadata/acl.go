// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
)

// ACLEncoding distinguishes the legacy (pre-0.19.1) ACL wire encoding from
// the current one. Transforms only ever read the legacy form; new archives
// are always written with ACLEncodingCurrent.
type ACLEncoding uint8

const (
	// ACLEncodingCurrent is the encoding used by every archive this
	// package writes.
	ACLEncodingCurrent ACLEncoding = iota
	// ACLEncodingLegacy marks an faCl chunk using the pre-0.19.1 layout.
	// It is accepted on read, where its entries are upgraded to the current
	// layout; a rewrite emits ACLEncodingCurrent, so this package never
	// produces it.
	ACLEncodingLegacy
)

// ACLTag identifies which principal an ACL entry applies to.
type ACLTag uint8

const (
	ACLTagUser ACLTag = iota
	ACLTagGroup
	ACLTagOther
	ACLTagMask
)

// ACLMarker is the decoded form of the faCl chunk: it precedes zero or more
// faCe entries and records which encoding they use.
type ACLMarker struct {
	Encoding ACLEncoding
	Count    uint32
}

// Encode serialises m as: u8 encoding, u32 count, big-endian.
func (m ACLMarker) Encode() []byte {
	buf := make([]byte, 5)
	buf[0] = byte(m.Encoding)
	binary.BigEndian.PutUint32(buf[1:5], m.Count)
	return buf
}

// DecodeACLMarker parses an faCl chunk body.
func DecodeACLMarker(data []byte) (ACLMarker, error) {
	if len(data) != 5 {
		return ACLMarker{}, fmt.Errorf("metadata: faCl chunk must be 5 bytes, got %d", len(data))
	}
	return ACLMarker{
		Encoding: ACLEncoding(data[0]),
		Count:    binary.BigEndian.Uint32(data[1:5]),
	}, nil
}

// ACLEntry is the decoded form of a single faCe chunk.
type ACLEntry struct {
	Tag         ACLTag
	Qualifier   uint64 // uid/gid for ACLTagUser/ACLTagGroup; unused otherwise
	Permissions uint8  // rwx bits, low 3 bits
}

// Encode serialises e as: u8 tag, u64 qualifier, u8 permissions, big-endian.
// This is the current (post-0.19.1) layout; legacy-encoded entries are
// never produced by this method.
func (e ACLEntry) Encode() []byte {
	buf := make([]byte, 10)
	buf[0] = byte(e.Tag)
	binary.BigEndian.PutUint64(buf[1:9], e.Qualifier)
	buf[9] = e.Permissions
	return buf
}

// DecodeACLEntry parses a faCe chunk body written in the current encoding.
// Legacy-encoded faCe bodies use a shorter, u32-qualifier layout and must be
// decoded with DecodeLegacyACLEntry instead.
func DecodeACLEntry(data []byte) (ACLEntry, error) {
	if len(data) != 10 {
		return ACLEntry{}, fmt.Errorf("metadata: faCe chunk must be 10 bytes, got %d", len(data))
	}
	return ACLEntry{
		Tag:         ACLTag(data[0]),
		Qualifier:   binary.BigEndian.Uint64(data[1:9]),
		Permissions: data[9],
	}, nil
}

// DecodeLegacyACLEntry parses a faCe chunk body written in the legacy
// (pre-0.19.1) layout and upgrades it to the current representation via
// UpgradeACL. It is read-only: this package has no corresponding Encode
// for the legacy form, matching the one-way migration observed in the
// source archives.
func DecodeLegacyACLEntry(data []byte) (ACLEntry, error) {
	legacy, err := decodeLegacyACLEntry(data)
	if err != nil {
		return ACLEntry{}, err
	}
	return UpgradeACL(legacy), nil
}
