// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// pbkdf2Deriver derives keys with PBKDF2-HMAC-SHA256.
type pbkdf2Deriver struct {
	salt       []byte
	iterations uint32
}

// DefaultPBKDF2Iterations follows OWASP's current PBKDF2-HMAC-SHA256 guidance.
const DefaultPBKDF2Iterations uint32 = 600_000

// NewPBKDF2HmacSHA256 builds a Deriver for PBKDF2-HMAC-SHA256. A zero
// iterations count falls back to DefaultPBKDF2Iterations.
func NewPBKDF2HmacSHA256(salt []byte, iterations uint32) Deriver {
	if iterations == 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &pbkdf2Deriver{salt: salt, iterations: iterations}
}

func (d *pbkdf2Deriver) Derive(password []byte) (*Params, error) {
	key := pbkdf2.Key(password, d.salt, int(d.iterations), KeyLen, sha256.New)
	return &Params{
		Algorithm:  PBKDF2HmacSHA256,
		Salt:       d.salt,
		Key:        key,
		Iterations: d.iterations,
	}, nil
}
