// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package entry

import "github.com/chantsune/pna/kdf"

// Option configures a Writer.
type Option func(*writerConfig)

type writerConfig struct {
	password []byte
	deriver  kdf.Deriver
}

// WithPassword supplies the password used to derive the encryption key
// when the entry header requests encryption != none. It is ignored, and
// unnecessary, for unencrypted entries.
func WithPassword(password []byte) Option {
	return func(c *writerConfig) {
		c.password = password
	}
}

// WithKDF overrides the default key-derivation strategy (Argon2id with the
// package defaults and a fresh random salt).
func WithKDF(d kdf.Deriver) Option {
	return func(c *writerConfig) {
		c.deriver = d
	}
}

// ReadOption configures a Reader.
type ReadOption func(*readerConfig)

type readerConfig struct {
	password []byte
}

// WithReadPassword supplies the password used to recover the encryption
// key from the entry's PHSF envelope.
func WithReadPassword(password []byte) ReadOption {
	return func(c *readerConfig) {
		c.password = password
	}
}
