// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package solid

import "github.com/chantsune/pna/kdf"

// Option configures the outer encryption of a solid block passed to
// Writer.Finish.
type Option func(*solidWriterConfig)

type solidWriterConfig struct {
	password []byte
	deriver  kdf.Deriver
}

// WithPassword supplies the password used to derive the solid block's
// outer encryption key. Required, and only meaningful, when the
// SolidHeader passed to Finish requests encryption != none.
func WithPassword(password []byte) Option {
	return func(c *solidWriterConfig) {
		c.password = password
	}
}

// WithKDF overrides the default key-derivation strategy.
func WithKDF(d kdf.Deriver) Option {
	return func(c *solidWriterConfig) {
		c.deriver = d
	}
}
