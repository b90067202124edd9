// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chantsune/pna/archive"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/solid"
)

func buildSolidArchive(t *testing.T) []byte {
	t.Helper()

	sw := solid.NewWriter()
	for _, name := range []string{"x", "y", "z"} {
		ew, err := sw.StartEntry(metadata.Header{DataKind: metadata.DataKindFile, Path: name})
		require.NoError(t, err)
		_, err = ew.Write([]byte(name + name + name))
		require.NoError(t, err)
		require.NoError(t, ew.Finish())
	}

	var out bytes.Buffer
	w := archive.NewWriter(&out)
	require.NoError(t, w.WriteHeader())
	outer := metadata.SolidHeader{Compression: metadata.CompressionZstd}
	require.NoError(t, w.AddSolidBlock(sw, outer))
	require.NoError(t, w.Finalize())
	return out.Bytes()
}

// S4 — solid block, preserve-solid transform: mutating one inner entry's
// payload leaves the archive with one solid block and the other entries
// untouched.
func TestRun_PreserveSolid_MutatesOneInnerEntry(t *testing.T) {
	t.Parallel()

	src := buildSolidArchive(t)
	r := archive.NewReader(bytes.NewReader(src), nil)
	require.NoError(t, r.ReadHeader())

	var out bytes.Buffer
	w := archive.NewWriter(&out)
	require.NoError(t, w.WriteHeader())

	mutate := func(d *Decoded) (*Decoded, bool) {
		if d.Header.Path == "y" {
			d.Payload = []byte("y-mutated")
		}
		return d, true
	}
	require.NoError(t, Run(r, w, mutate, PreserveSolid))
	require.NoError(t, w.Finalize())

	outR := archive.NewReader(bytes.NewReader(out.Bytes()), nil)
	require.NoError(t, outR.ReadHeader())

	item, err := outR.Next()
	require.NoError(t, err)
	require.Equal(t, archive.ItemSolid, item.Kind)

	var names, payloads []string
	for {
		inner, err := item.Solid.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, inner.Header.Path)
		p, err := io.ReadAll(inner)
		require.NoError(t, err)
		payloads = append(payloads, string(p))
	}
	require.Equal(t, []string{"x", "y", "z"}, names)
	require.Equal(t, []string{"xxx", "y-mutated", "zzz"}, payloads)

	_, err = outR.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestRun_Unsolid_FlattensInnerEntries(t *testing.T) {
	t.Parallel()

	src := buildSolidArchive(t)
	r := archive.NewReader(bytes.NewReader(src), nil)
	require.NoError(t, r.ReadHeader())

	var out bytes.Buffer
	w := archive.NewWriter(&out)
	require.NoError(t, w.WriteHeader())

	keepAll := func(d *Decoded) (*Decoded, bool) { return d, true }
	require.NoError(t, Run(r, w, keepAll, Unsolid))
	require.NoError(t, w.Finalize())

	outR := archive.NewReader(bytes.NewReader(out.Bytes()), nil)
	require.NoError(t, outR.ReadHeader())

	var names []string
	for {
		item, err := outR.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Equal(t, archive.ItemEntry, item.Kind)
		names = append(names, item.Entry.Header.Path)
		_, err = io.ReadAll(item.Entry)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"x", "y", "z"}, names)
}

func TestRun_MutateCanDropEntry(t *testing.T) {
	t.Parallel()

	var src bytes.Buffer
	w := archive.NewWriter(&src)
	require.NoError(t, w.WriteHeader())
	for _, name := range []string{"keep.txt", "drop.txt"} {
		h, err := w.StartEntry(metadata.Header{DataKind: metadata.DataKindFile, Path: name})
		require.NoError(t, err)
		_, err = h.Write([]byte("payload"))
		require.NoError(t, err)
		require.NoError(t, h.Finish())
	}
	require.NoError(t, w.Finalize())

	r := archive.NewReader(bytes.NewReader(src.Bytes()), nil)
	require.NoError(t, r.ReadHeader())

	var out bytes.Buffer
	outW := archive.NewWriter(&out)
	require.NoError(t, outW.WriteHeader())

	mutate := func(d *Decoded) (*Decoded, bool) {
		return d, d.Header.Path != "drop.txt"
	}
	require.NoError(t, Run(r, outW, mutate, PreserveSolid))
	require.NoError(t, outW.Finalize())

	outR := archive.NewReader(bytes.NewReader(out.Bytes()), nil)
	require.NoError(t, outR.ReadHeader())

	item, err := outR.Next()
	require.NoError(t, err)
	require.Equal(t, "keep.txt", item.Entry.Header.Path)

	_, err = outR.Next()
	require.ErrorIs(t, err, io.EOF)
}
