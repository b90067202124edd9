// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/chunk"
)

// VolumeInfo is the handful of fields a caller can learn from a volume's
// magic+AHED alone, without reading any further into the archive.
type VolumeInfo struct {
	Major         uint8
	Minor         uint8
	ArchiveNumber uint32
}

// DescribeVolume reads just the magic signature and AHED chunk from r and
// returns the volume's version and archive number, leaving the rest of r
// unread. It is the read-only counterpart to Reader.ReadHeader, for a
// caller that only wants to report a volume's framing (e.g. a "describe"
// CLI subcommand) without driving the full entry-iteration state machine.
func DescribeVolume(r io.Reader) (VolumeInfo, error) {
	magic := make([]byte, len(pna.Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return VolumeInfo{}, fmt.Errorf("%w: %w", pna.ErrTruncatedArchive, err)
	}
	if !bytes.Equal(magic, pna.Magic[:]) {
		return VolumeInfo{}, fmt.Errorf("archive: not a PNA archive: bad magic")
	}
	typ, data, err := chunk.Decode(r)
	if err != nil {
		return VolumeInfo{}, fmt.Errorf("archive: unable to read AHED: %w", err)
	}
	if typ != chunk.TypeAHED {
		return VolumeInfo{}, fmt.Errorf("archive: expected AHED, got %s", typ)
	}
	h, err := decodeHeader(data)
	if err != nil {
		return VolumeInfo{}, err
	}
	return VolumeInfo{Major: h.Major, Minor: h.Minor, ArchiveNumber: h.ArchiveNumber}, nil
}

// SplitName builds the volume file name for part of a split archive
// following the "name.partN.pna" convention: a base ending in ".pna" gives
// "name.partN.pna", any other base gives "base.partN". Every part,
// including part 1, carries its ".partN" suffix.
func SplitName(base string, part int) string {
	suffix := ".part" + strconv.Itoa(part)
	if stem, ok := strings.CutSuffix(base, ".pna"); ok {
		return stem + suffix + ".pna"
	}
	return base + suffix
}
