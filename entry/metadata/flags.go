// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
)

// Flags is the decoded form of an fFLG chunk: a raw BSD/Linux filesystem
// flags bitmask (e.g. immutable, append-only, nodump). This package does
// not interpret individual bits; the filesystem collaborator does.
type Flags struct {
	Bits uint32
}

// Encode serialises f as a single big-endian u32.
func (f Flags) Encode() []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, f.Bits)
	return buf
}

// DecodeFlags parses an fFLG chunk body.
func DecodeFlags(data []byte) (Flags, error) {
	if len(data) != 4 {
		return Flags{}, fmt.Errorf("metadata: fFLG chunk must be 4 bytes, got %d", len(data))
	}
	return Flags{Bits: binary.BigEndian.Uint32(data)}, nil
}
