// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package solid

import (
	"fmt"

	"github.com/chantsune/pna/cipher"
	"github.com/chantsune/pna/compress"
	"github.com/chantsune/pna/entry/metadata"
)

func algorithmFor(e metadata.Encryption) (cipher.Algorithm, error) {
	switch e {
	case metadata.EncryptionAES256:
		return cipher.AES256, nil
	case metadata.EncryptionCamellia256:
		return cipher.Camellia256, nil
	default:
		return 0, fmt.Errorf("solid: unsupported encryption %d", e)
	}
}

func modeFor(m metadata.CipherMode) (cipher.Mode, error) {
	switch m {
	case metadata.CipherModeCBC:
		return cipher.CBC, nil
	case metadata.CipherModeCTR:
		return cipher.CTR, nil
	default:
		return 0, fmt.Errorf("solid: unsupported cipher mode %d", m)
	}
}

func kindFor(c metadata.Compression) (compress.Kind, error) {
	switch c {
	case metadata.CompressionStore:
		return compress.Store, nil
	case metadata.CompressionDeflate:
		return compress.Deflate, nil
	case metadata.CompressionZstd:
		return compress.Zstd, nil
	case metadata.CompressionXZ:
		return compress.XZ, nil
	default:
		return 0, fmt.Errorf("solid: unsupported compression %d", c)
	}
}
