// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	"fmt"
	"io"

	"github.com/chantsune/pna/randomness"
)

// DeterministicIVSource builds an IV source, for use with WithIVSource,
// whose output is a pure function of seed: the same seed always yields the
// same IV bytes. It exists so a golden-file or fuzz-replay test can pin an
// exact ciphertext across runs without the non-determinism a random IV would
// otherwise introduce. seed must be at least 256 bytes (see
// randomness.DRNG); production callers must never use it, since a
// predictable IV breaks both CBC and CTR's security guarantees.
func DeterministicIVSource(seed []byte) (io.Reader, error) {
	r, err := randomness.DRNG(seed, "pna-cipher-iv")
	if err != nil {
		return nil, fmt.Errorf("cipher: unable to build deterministic iv source: %w", err)
	}
	return r, nil
}
