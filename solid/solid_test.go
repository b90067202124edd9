// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package solid

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chantsune/pna"
	"github.com/chantsune/pna/entry/metadata"
)

func writeThreeEntries(t *testing.T, w *Writer) {
	t.Helper()

	payloads := map[string]string{"x": "xxx", "y": "yyy", "z": "zzz"}
	for _, name := range []string{"x", "y", "z"} {
		ew, err := w.StartEntry(metadata.Header{DataKind: metadata.DataKindFile, Path: name})
		require.NoError(t, err)
		_, err = ew.Write([]byte(payloads[name]))
		require.NoError(t, err)
		require.NoError(t, ew.Finish())
	}
}

func TestSolid_RoundTrip_NoEncryption(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	writeThreeEntries(t, w)

	var out bytes.Buffer
	outer := metadata.SolidHeader{Compression: metadata.CompressionZstd}
	require.NoError(t, w.Finish(&out, outer))

	gotOuter, err := ReadSHED(&out)
	require.NoError(t, err)
	require.Equal(t, outer, gotOuter)

	r, err := NewReader(&out, gotOuter)
	require.NoError(t, err)

	var names []string
	var payloads []string
	for {
		ent, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, ent.Header.Path)
		p, err := io.ReadAll(ent)
		require.NoError(t, err)
		payloads = append(payloads, string(p))
	}

	require.Equal(t, []string{"x", "y", "z"}, names)
	require.Equal(t, []string{"xxx", "yyy", "zzz"}, payloads)
}

func TestSolid_RoundTrip_Encrypted(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	writeThreeEntries(t, w)

	var out bytes.Buffer
	outer := metadata.SolidHeader{Compression: metadata.CompressionDeflate, Encryption: metadata.EncryptionAES256, CipherMode: metadata.CipherModeCBC}
	require.NoError(t, w.Finish(&out, outer, WithPassword([]byte("pw"))))

	archived := append([]byte(nil), out.Bytes()...)

	freshReader := func(password string) *Reader {
		br := bytes.NewReader(archived)
		gotOuter, err := ReadSHED(br)
		require.NoError(t, err)
		r, err := NewReader(br, gotOuter, WithReadPassword([]byte(password)))
		require.NoError(t, err)
		return r
	}

	r := freshReader("pw")
	count := 0
	for {
		ent, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		_, err = io.ReadAll(ent)
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 3, count)
}

func TestSolid_ForcesStoreAndNoneOnInnerEntries(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	ew, err := w.StartEntry(metadata.Header{
		DataKind:    metadata.DataKindFile,
		Path:        "f",
		Compression: metadata.CompressionZstd,
		Encryption:  metadata.EncryptionAES256,
	})
	require.NoError(t, err)
	_, err = ew.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, ew.Finish())

	var out bytes.Buffer
	require.NoError(t, w.Finish(&out, metadata.SolidHeader{Compression: metadata.CompressionStore}))

	gotOuter, err := ReadSHED(&out)
	require.NoError(t, err)
	r, err := NewReader(&out, gotOuter)
	require.NoError(t, err)

	ent, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, metadata.CompressionStore, ent.Header.Compression)
	require.Equal(t, metadata.EncryptionNone, ent.Header.Encryption)
}

func TestSolid_NestedSolidRejected(t *testing.T) {
	t.Parallel()

	inner := NewWriter()
	writeThreeEntries(t, inner)
	var innerOut bytes.Buffer
	require.NoError(t, inner.Finish(&innerOut, metadata.SolidHeader{Compression: metadata.CompressionStore}))

	outer := NewWriter()
	// Splice the inner solid block's raw bytes directly into the outer
	// builder's buffer, simulating an inner entry position occupied by an
	// SHED chunk.
	outer.inner.Write(innerOut.Bytes())

	var out bytes.Buffer
	require.NoError(t, outer.Finish(&out, metadata.SolidHeader{Compression: metadata.CompressionStore}))

	gotOuter, err := ReadSHED(&out)
	require.NoError(t, err)
	r, err := NewReader(&out, gotOuter)
	require.NoError(t, err)

	_, err = r.Next()
	require.ErrorIs(t, err, pna.ErrNestedSolid)
}
