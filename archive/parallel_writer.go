// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// ParallelWriter implements the order-preserving merge contract: producers
// running concurrently submit (index, bytes) pairs in arbitrary order, and
// Submit drains every contiguous run starting at the writer's next
// expected index into the underlying Writer's AddEntry. Indices must be
// contiguous from start and each submitted at most once.
type ParallelWriter struct {
	mu      sync.Mutex
	aw      *Writer
	next    uint64
	pending map[uint64][]byte

	maxPending int
	spill      io.ReadWriteSeeker
	spillOff   map[uint64]int64
	spillEnd   int64
}

// NewParallelWriter wraps aw, which must already be past WriteHeader.
// start is the first index Submit expects to drain. maxPending bounds how
// many out-of-order items are held in the in-memory pending map before
// further out-of-order submissions spill, cbor-encoded, to spill; spill
// may be nil to keep everything in memory.
func NewParallelWriter(aw *Writer, start uint64, maxPending int, spill io.ReadWriteSeeker) *ParallelWriter {
	return &ParallelWriter{
		aw:         aw,
		next:       start,
		pending:    make(map[uint64][]byte),
		maxPending: maxPending,
		spill:      spill,
		spillOff:   make(map[uint64]int64),
	}
}

// parallelSpillRecord is the overflow encoding for one out-of-order item
// once the in-memory pending map has reached maxPending.
type parallelSpillRecord struct {
	_     struct{} `cbor:",toarray"`
	Index uint64   `cbor:"1,keyasint"`
	Bytes []byte   `cbor:"2,keyasint"`
}

// Submit stashes one (index, bytes) pair and commits every contiguous run
// starting at the expected next index.
func (p *ParallelWriter) Submit(index uint64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < p.next {
		return fmt.Errorf("archive: index %d already committed (next is %d)", index, p.next)
	}
	if _, dup := p.pending[index]; dup {
		return fmt.Errorf("archive: duplicate submission for index %d", index)
	}
	if _, dup := p.spillOff[index]; dup {
		return fmt.Errorf("archive: duplicate submission for index %d", index)
	}

	if index != p.next && p.spill != nil && len(p.pending) >= p.maxPending {
		if err := p.spillOne(index, data); err != nil {
			return err
		}
	} else {
		p.pending[index] = data
	}

	for {
		data, ok := p.pending[p.next]
		if ok {
			delete(p.pending, p.next)
		} else if off, spilled := p.spillOff[p.next]; spilled {
			rec, err := p.readSpill(off)
			if err != nil {
				return err
			}
			data = rec
			delete(p.spillOff, p.next)
		} else {
			break
		}
		if err := p.aw.AddEntry(data); err != nil {
			return err
		}
		p.next++
	}
	return nil
}

func (p *ParallelWriter) spillOne(index uint64, data []byte) error {
	payload, err := cbor.Marshal(parallelSpillRecord{Index: index, Bytes: data})
	if err != nil {
		return fmt.Errorf("archive: unable to encode spill record: %w", err)
	}
	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(payload)))
	if _, err := p.spill.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("archive: unable to write spill record: %w", err)
	}
	if _, err := p.spill.Write(payload); err != nil {
		return fmt.Errorf("archive: unable to write spill record: %w", err)
	}
	p.spillOff[index] = p.spillEnd
	p.spillEnd += int64(len(lenPrefix)) + int64(len(payload))
	return nil
}

func (p *ParallelWriter) readSpill(offset int64) ([]byte, error) {
	if _, err := p.spill.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("archive: unable to seek spill store: %w", err)
	}
	var lenPrefix [4]byte
	if _, err := io.ReadFull(p.spill, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("archive: unable to read spill record length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenPrefix[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(p.spill, payload); err != nil {
		return nil, fmt.Errorf("archive: unable to read spill record: %w", err)
	}
	var rec parallelSpillRecord
	if err := cbor.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("archive: unable to decode spill record: %w", err)
	}
	return rec.Bytes, nil
}

// Pending reports how many submitted indices have not yet drained, whether
// held in memory or spilled.
func (p *ParallelWriter) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending) + len(p.spillOff)
}
