// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/chantsune/pna/archive"
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/log"
	"github.com/chantsune/pna/solid"
)

// SolidPolicy controls how Run handles a solid block it encounters.
type SolidPolicy uint8

const (
	// PreserveSolid re-wraps surviving inner entries into a fresh solid
	// block with the same outer compression/cipher kind.
	PreserveSolid SolidPolicy = iota
	// Unsolid flattens a solid block's surviving inner entries into
	// ordinary top-level entries.
	Unsolid
)

// MutateFunc inspects one decoded entry and returns the entry to keep
// (possibly modified) plus whether to keep it at all; returning false
// drops the entry from the output archive.
type MutateFunc func(*Decoded) (*Decoded, bool)

// Run rewrites every item read from r into w, applying mutate to each
// entry (including each inner entry of a solid block) and honoring
// policy for solid blocks it encounters. It aborts and returns the first
// error encountered.
func Run(r *archive.Reader, w *archive.Writer, mutate MutateFunc, policy SolidPolicy) error {
	_, err := run(r, w, mutate, policy, false)
	return err
}

// RunBestEffort behaves like Run but continues past entry-level errors
// (decode failures, mutate failures, write failures for one item),
// logging each via log.Error and accumulating them into the returned
// *multierror.Error. An archive-level error (a poisoned reader, a failed
// write to w) still aborts immediately.
func RunBestEffort(r *archive.Reader, w *archive.Writer, mutate MutateFunc, policy SolidPolicy) error {
	merr, err := run(r, w, mutate, policy, true)
	if err != nil {
		return err
	}
	return merr.ErrorOrNil()
}

func run(r *archive.Reader, w *archive.Writer, mutate MutateFunc, policy SolidPolicy, bestEffort bool) (*multierror.Error, error) {
	var merr *multierror.Error

	for {
		item, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if bestEffort && isEntryLevel(err) {
				log.Error(err).Message("transform: skipping unreadable item")
				merr = multierror.Append(merr, err)
				continue
			}
			return merr, fmt.Errorf("transform: unable to read next item: %w", err)
		}

		switch item.Kind {
		case archive.ItemEntry:
			if err := transformEntry(w, item.Entry, mutate); err != nil {
				if bestEffort {
					log.Error(err).Message("transform: dropping entry")
					merr = multierror.Append(merr, err)
					continue
				}
				return merr, err
			}
		case archive.ItemSolid:
			if err := transformSolid(w, item.Solid, mutate, policy, bestEffort, &merr); err != nil {
				return merr, err
			}
		}
	}

	return merr, nil
}

func isEntryLevel(err error) bool {
	return errors.Is(err, entry.ErrPasswordRequired) ||
		errors.Is(err, entry.ErrMalformedEntry)
}

func transformEntry(w *archive.Writer, er *entry.Reader, mutate MutateFunc) error {
	d, err := decodeEntry(er)
	if err != nil {
		return err
	}
	kept, ok := mutate(d)
	if !ok {
		return nil
	}
	return writeEntry(kept, func(h metadata.Header) (finisher, error) {
		return w.StartEntry(h)
	})
}

func transformSolid(w *archive.Writer, sr *solid.Reader, mutate MutateFunc, policy SolidPolicy, bestEffort bool, merr **multierror.Error) error {
	var decodedEntries []*Decoded
	for {
		inner, err := sr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("transform: unable to read solid block: %w", err)
		}
		d, err := decodeEntry(inner)
		if err != nil {
			if bestEffort {
				log.Error(err).Message("transform: dropping inner entry")
				*merr = multierror.Append(*merr, err)
				continue
			}
			return err
		}
		kept, ok := mutate(d)
		if !ok {
			continue
		}
		decodedEntries = append(decodedEntries, kept)
	}

	if policy == Unsolid {
		for _, d := range decodedEntries {
			if err := writeEntry(d, func(h metadata.Header) (finisher, error) {
				return w.StartEntry(h)
			}); err != nil {
				return err
			}
		}
		return nil
	}

	sw := solid.NewWriter()
	for _, d := range decodedEntries {
		if err := writeEntry(d, func(h metadata.Header) (finisher, error) {
			return sw.StartEntry(h)
		}); err != nil {
			return err
		}
	}
	return w.AddSolidBlock(sw, sr.Outer)
}
