// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf

import "fmt"

// Derive runs the deriver and packs the result as a PHC string, returning
// both the raw key (for the cipher stage) and the PHSF chunk body.
func Derive(d Deriver, password []byte) (key []byte, phc string, err error) {
	params, err := d.Derive(password)
	if err != nil {
		return nil, "", fmt.Errorf("kdf: unable to derive key: %w", err)
	}
	phc, err = params.Pack()
	if err != nil {
		return nil, "", fmt.Errorf("kdf: unable to pack phc string: %w", err)
	}
	return params.Key, phc, nil
}

// Recover parses a PHSF chunk body and re-derives the key material for the
// supplied password, for use by an entry.Reader or solid.Reader.
func Recover(phc string, password []byte) ([]byte, error) {
	params, err := ParsePHC(phc)
	if err != nil {
		return nil, err
	}

	var d Deriver
	switch params.Algorithm {
	case Argon2id:
		d = NewArgon2id(params.Salt, params.Time, params.Memory, params.Threads)
	case PBKDF2HmacSHA256:
		d = NewPBKDF2HmacSHA256(params.Salt, params.Iterations)
	default:
		return nil, ErrStrategyNotSupported
	}

	derived, err := d.Derive(password)
	if err != nil {
		return nil, fmt.Errorf("kdf: unable to re-derive key: %w", err)
	}
	return derived.Key, nil
}
