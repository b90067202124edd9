// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import "errors"

var (
	// ErrWriterFinalized is returned by any write operation after Finalize.
	ErrWriterFinalized = errors.New("archive: writer already finalized")
	// ErrEntryInProgress is returned when an operation that needs the
	// writer idle is attempted while an entry/solid builder has not
	// called Finish.
	ErrEntryInProgress = errors.New("archive: an entry is already in progress")
	// ErrHeaderNotWritten is returned when an operation other than
	// WriteHeader is attempted on a Fresh writer.
	ErrHeaderNotWritten = errors.New("archive: archive header has not been written")
	// ErrReaderEnded is returned by Next after the reader has reached End.
	ErrReaderEnded = errors.New("archive: reader has reached the end of the archive")
	// ErrReaderPoisoned is returned by Next after an unrecoverable error;
	// the reader must not be reused.
	ErrReaderPoisoned = errors.New("archive: reader is poisoned by a prior error")
)
