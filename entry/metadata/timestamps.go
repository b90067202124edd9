// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
	"time"
)

const (
	bitCreated = 1 << iota
	bitModified
	bitAccessed
)

// Timestamp is a signed Unix time with nanosecond precision. Negative
// Seconds (pre-1970 instants) are valid and are never clamped.
type Timestamp struct {
	Seconds     int64
	Nanoseconds uint32
}

// Timestamps is the decoded form of an fTIM chunk: any subset of
// created/modified/accessed may be present.
type Timestamps struct {
	Created  *Timestamp
	Modified *Timestamp
	Accessed *Timestamp
}

// Encode serialises t as: a bitmask byte, then for each present field (in
// created, modified, accessed order) an i64 seconds and u32 nanoseconds,
// all big-endian.
func (t Timestamps) Encode() []byte {
	var mask byte
	if t.Created != nil {
		mask |= bitCreated
	}
	if t.Modified != nil {
		mask |= bitModified
	}
	if t.Accessed != nil {
		mask |= bitAccessed
	}

	buf := make([]byte, 0, 1+12*3)
	buf = append(buf, mask)
	for _, ts := range []*Timestamp{t.Created, t.Modified, t.Accessed} {
		if ts == nil {
			continue
		}
		var rec [12]byte
		binary.BigEndian.PutUint64(rec[0:8], uint64(ts.Seconds))
		binary.BigEndian.PutUint32(rec[8:12], ts.Nanoseconds)
		buf = append(buf, rec[:]...)
	}
	return buf
}

// DecodeTimestamps parses an fTIM chunk body.
func DecodeTimestamps(data []byte) (Timestamps, error) {
	if len(data) < 1 {
		return Timestamps{}, fmt.Errorf("metadata: fTIM chunk is empty")
	}
	mask := data[0]
	data = data[1:]

	readOne := func() (*Timestamp, error) {
		if len(data) < 12 {
			return nil, fmt.Errorf("metadata: fTIM chunk truncated")
		}
		ts := &Timestamp{
			Seconds:     int64(binary.BigEndian.Uint64(data[0:8])),
			Nanoseconds: binary.BigEndian.Uint32(data[8:12]),
		}
		data = data[12:]
		return ts, nil
	}

	var out Timestamps
	if mask&bitCreated != 0 {
		ts, err := readOne()
		if err != nil {
			return Timestamps{}, err
		}
		out.Created = ts
	}
	if mask&bitModified != 0 {
		ts, err := readOne()
		if err != nil {
			return Timestamps{}, err
		}
		out.Modified = ts
	}
	if mask&bitAccessed != 0 {
		ts, err := readOne()
		if err != nil {
			return Timestamps{}, err
		}
		out.Accessed = ts
	}
	return out, nil
}

// Time converts t to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds)).UTC()
}

// After reports whether ts has a Modified time and it is strictly after t.
// A Timestamps with no Modified field reports false, since there is
// nothing to compare against.
func (ts Timestamps) After(t time.Time) bool {
	return ts.Modified != nil && ts.Modified.Time().After(t)
}

// Before reports whether ts has a Modified time and it is strictly before
// t. A Timestamps with no Modified field reports false.
func (ts Timestamps) Before(t time.Time) bool {
	return ts.Modified != nil && ts.Modified.Time().Before(t)
}
