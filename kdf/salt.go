// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf

import (
	"crypto/rand"
	"fmt"
	"io"
)

// DefaultSaltLen is the salt size generated by RandomSalt.
const DefaultSaltLen = 16

// RandomSalt returns length bytes of CSPRNG salt.
func RandomSalt(length int) ([]byte, error) {
	salt := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("kdf: unable to generate salt: %w", err)
	}
	return salt, nil
}
