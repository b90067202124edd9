// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
)

// Xattr is the decoded form of an xATR chunk.
type Xattr struct {
	Name  string
	Value []byte
}

// Encode serialises x as: u32 name_len, name, u32 value_len, value,
// big-endian.
func (x Xattr) Encode() []byte {
	buf := make([]byte, 0, 4+len(x.Name)+4+len(x.Value))
	buf = appendLenPrefixed(buf, x.Name)

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(x.Value)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, x.Value...)
	return buf
}

// DecodeXattr parses an xATR chunk body.
func DecodeXattr(data []byte) (Xattr, error) {
	name, rest, err := readLenPrefixed(data)
	if err != nil {
		return Xattr{}, err
	}
	if len(rest) < 4 {
		return Xattr{}, fmt.Errorf("metadata: xATR chunk truncated before value length")
	}
	n := binary.BigEndian.Uint32(rest[0:4])
	rest = rest[4:]
	if uint64(len(rest)) < uint64(n) {
		return Xattr{}, fmt.Errorf("metadata: xATR chunk truncated value")
	}
	value := append([]byte(nil), rest[:n]...)
	rest = rest[n:]
	if len(rest) != 0 {
		return Xattr{}, fmt.Errorf("metadata: xATR chunk has trailing bytes")
	}
	return Xattr{Name: name, Value: value}, nil
}
