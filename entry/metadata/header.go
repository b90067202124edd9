// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"strings"
)

// Compression identifies the FHED compression field.
type Compression uint8

const (
	CompressionStore   Compression = 0
	CompressionDeflate Compression = 1
	CompressionZstd    Compression = 2
	CompressionXZ      Compression = 4
)

// Encryption identifies the FHED encryption field.
type Encryption uint8

const (
	EncryptionNone        Encryption = 0
	EncryptionAES256      Encryption = 1
	EncryptionCamellia256 Encryption = 2
)

// CipherMode identifies the FHED cipher_mode field.
type CipherMode uint8

const (
	CipherModeCBC CipherMode = 0
	CipherModeCTR CipherMode = 1
)

// DataKind identifies the FHED data_kind field.
type DataKind uint8

const (
	DataKindFile DataKind = iota
	DataKindDir
	DataKindSymlink
	DataKindHardlink
)

// Header is the decoded form of an FHED chunk.
type Header struct {
	Major       uint8
	Minor       uint8
	Compression Compression
	Encryption  Encryption
	CipherMode  CipherMode
	DataKind    DataKind
	Path        string
}

// Encode serialises h as the six fixed header bytes followed by the UTF-8
// path. The path has already been normalised to forward slashes and
// stripped of any root prefix by the caller.
func (h Header) Encode() []byte {
	buf := make([]byte, 6+len(h.Path))
	buf[0] = h.Major
	buf[1] = h.Minor
	buf[2] = byte(h.Compression)
	buf[3] = byte(h.Encryption)
	buf[4] = byte(h.CipherMode)
	buf[5] = byte(h.DataKind)
	copy(buf[6:], h.Path)
	return buf
}

// DecodeHeader parses an FHED chunk body.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < 6 {
		return Header{}, fmt.Errorf("metadata: FHED chunk too short")
	}
	path := string(data[6:])
	if err := validatePath(path); err != nil {
		return Header{}, err
	}
	return Header{
		Major:       data[0],
		Minor:       data[1],
		Compression: Compression(data[2]),
		Encryption:  Encryption(data[3]),
		CipherMode:  CipherMode(data[4]),
		DataKind:    DataKind(data[5]),
		Path:        path,
	}, nil
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("metadata: FHED path is empty")
	}
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("metadata: FHED path %q must not be rooted", path)
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." {
			return fmt.Errorf("metadata: FHED path %q has an empty or %q component", path, ".")
		}
	}
	return nil
}

// SolidHeader is the decoded form of an SHED chunk: analogous to Header but
// without a path or data_kind, since it frames a block of inner entries
// rather than a single one.
type SolidHeader struct {
	Major       uint8
	Minor       uint8
	Compression Compression
	Encryption  Encryption
	CipherMode  CipherMode
}

// Encode serialises h as five fixed bytes.
func (h SolidHeader) Encode() []byte {
	return []byte{h.Major, h.Minor, byte(h.Compression), byte(h.Encryption), byte(h.CipherMode)}
}

// DecodeSolidHeader parses an SHED chunk body.
func DecodeSolidHeader(data []byte) (SolidHeader, error) {
	if len(data) != 5 {
		return SolidHeader{}, fmt.Errorf("metadata: SHED chunk must be 5 bytes, got %d", len(data))
	}
	return SolidHeader{
		Major:       data[0],
		Minor:       data[1],
		Compression: Compression(data[2]),
		Encryption:  Encryption(data[3]),
		CipherMode:  CipherMode(data[4]),
	}, nil
}
