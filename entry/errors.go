// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package entry

import (
	"errors"
	"fmt"

	"github.com/chantsune/pna"
)

var (
	// ErrMalformedEntry reports a chunk-type sequence that violates the
	// entry state machine.
	ErrMalformedEntry = pna.ErrMalformedEntry
	// ErrPasswordRequired is returned when a header requests encryption
	// but the writer/reader was not given a password. It wraps
	// pna.ErrDecryptFailed.
	ErrPasswordRequired = fmt.Errorf("%w: password required for encrypted entry", pna.ErrDecryptFailed)
	// errClosed is returned by Write after Finish has been called.
	errClosed = errors.New("entry: write after finish")
)
