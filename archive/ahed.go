// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"fmt"
)

// header is the decoded form of an AHED chunk.
type header struct {
	Major         uint8
	Minor         uint8
	ArchiveNumber uint32
}

func (h header) encode() []byte {
	buf := make([]byte, 8)
	buf[0] = h.Major
	buf[1] = h.Minor
	// buf[2:4] reserved, left zero
	binary.BigEndian.PutUint32(buf[4:8], h.ArchiveNumber)
	return buf
}

func decodeHeader(data []byte) (header, error) {
	if len(data) != 8 {
		return header{}, fmt.Errorf("archive: AHED chunk must be 8 bytes, got %d", len(data))
	}
	return header{
		Major:         data[0],
		Minor:         data[1],
		ArchiveNumber: binary.BigEndian.Uint32(data[4:8]),
	}, nil
}
