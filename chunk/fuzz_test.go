// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package chunk

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

// TestFuzz_EncodeDecodeRoundTrip generates random (type, data) pairs and
// checks that Decode(Encode(x)) reproduces x exactly, for arbitrary data up
// to a few KB and any four-byte type code (known or not: Decode itself is
// agnostic to the chunk vocabulary, only archive/entry layers reject
// unrecognised critical types).
func TestFuzz_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	f := fuzz.New().NilChance(0.1).NumElements(0, 4096).RandSource(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		var typ Type
		var data []byte
		f.Fuzz(&typ)
		f.Fuzz(&data)

		var buf bytes.Buffer
		err := Encode(&buf, typ, data)
		require.NoError(t, err)

		gotTyp, gotData, err := Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, typ, gotTyp)
		if diff := cmp.Diff(data, gotData, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip %d: data mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// TestFuzz_DecodeNeverPanics feeds Decode arbitrary byte slices (most of
// which are not valid chunk framing at all) and requires that it only ever
// return an error, never panic: the length field comes straight off an
// untrusted stream.
func TestFuzz_DecodeNeverPanics(t *testing.T) {
	t.Parallel()

	f := fuzz.New().NumElements(0, 64).RandSource(rand.NewSource(2))

	for i := 0; i < 500; i++ {
		var garbage []byte
		f.Fuzz(&garbage)
		_, _, _ = Decode(bytes.NewReader(garbage))
	}
}
