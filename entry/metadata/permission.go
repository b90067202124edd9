// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
)

// Permission is the decoded form of an fPRM chunk.
type Permission struct {
	UID   uint64
	GID   uint64
	Mode  uint16
	Uname string
	Gname string
}

// Encode serialises p as: u64 uid, u64 gid, u16 mode, u32 uname_len, uname,
// u32 gname_len, gname, all big-endian.
func (p Permission) Encode() []byte {
	buf := make([]byte, 0, 8+8+2+4+len(p.Uname)+4+len(p.Gname))
	var head [18]byte
	binary.BigEndian.PutUint64(head[0:8], p.UID)
	binary.BigEndian.PutUint64(head[8:16], p.GID)
	binary.BigEndian.PutUint16(head[16:18], p.Mode)
	buf = append(buf, head[:]...)

	buf = appendLenPrefixed(buf, p.Uname)
	buf = appendLenPrefixed(buf, p.Gname)
	return buf
}

func appendLenPrefixed(buf []byte, s string) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, s...)
	return buf
}

func readLenPrefixed(data []byte) (string, []byte, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("metadata: truncated length-prefixed field")
	}
	n := binary.BigEndian.Uint32(data[0:4])
	data = data[4:]
	if uint64(len(data)) < uint64(n) {
		return "", nil, fmt.Errorf("metadata: truncated length-prefixed field body")
	}
	return string(data[:n]), data[n:], nil
}

// DecodePermission parses an fPRM chunk body.
func DecodePermission(data []byte) (Permission, error) {
	if len(data) < 18 {
		return Permission{}, fmt.Errorf("metadata: fPRM chunk too short")
	}
	p := Permission{
		UID:  binary.BigEndian.Uint64(data[0:8]),
		GID:  binary.BigEndian.Uint64(data[8:16]),
		Mode: binary.BigEndian.Uint16(data[16:18]),
	}
	data = data[18:]

	uname, rest, err := readLenPrefixed(data)
	if err != nil {
		return Permission{}, err
	}
	p.Uname = uname

	gname, rest, err := readLenPrefixed(rest)
	if err != nil {
		return Permission{}, err
	}
	p.Gname = gname

	if len(rest) != 0 {
		return Permission{}, fmt.Errorf("metadata: fPRM chunk has trailing bytes")
	}
	return p, nil
}
