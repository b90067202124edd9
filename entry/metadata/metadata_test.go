// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	h := Header{
		Major:       0,
		Minor:       1,
		Compression: CompressionZstd,
		Encryption:  EncryptionAES256,
		CipherMode:  CipherModeCTR,
		DataKind:    DataKindFile,
		Path:        "a/b.bin",
	}
	got, err := DecodeHeader(h.Encode())
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeader_RejectsRootedOrDotPath(t *testing.T) {
	t.Parallel()

	_, err := DecodeHeader(Header{Path: "/etc/passwd"}.Encode())
	require.Error(t, err)

	_, err = DecodeHeader(Header{Path: "a/./b"}.Encode())
	require.Error(t, err)

	_, err = DecodeHeader(Header{Path: "a//b"}.Encode())
	require.Error(t, err)

	_, err = DecodeHeader(Header{Path: ""}.Encode())
	require.Error(t, err)
}

func TestSolidHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	h := SolidHeader{Major: 0, Minor: 1, Compression: CompressionDeflate, Encryption: EncryptionCamellia256, CipherMode: CipherModeCBC}
	got, err := DecodeSolidHeader(h.Encode())
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestTimestamps_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []Timestamps{
		{},
		{Modified: &Timestamp{Seconds: 1_700_000_000, Nanoseconds: 123}},
		{Created: &Timestamp{Seconds: -86400, Nanoseconds: 0}, Accessed: &Timestamp{Seconds: 5, Nanoseconds: 999_999_999}},
		{
			Created:  &Timestamp{Seconds: 1, Nanoseconds: 2},
			Modified: &Timestamp{Seconds: 3, Nanoseconds: 4},
			Accessed: &Timestamp{Seconds: 5, Nanoseconds: 6},
		},
	}

	for _, c := range cases {
		got, err := DecodeTimestamps(c.Encode())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestTimestamps_PreEpochNotClamped(t *testing.T) {
	t.Parallel()

	ts := Timestamps{Created: &Timestamp{Seconds: -1, Nanoseconds: 0}}
	got, err := DecodeTimestamps(ts.Encode())
	require.NoError(t, err)
	require.Equal(t, int64(-1), got.Created.Seconds)
}

func TestPermission_RoundTrip(t *testing.T) {
	t.Parallel()

	p := Permission{UID: 1000, GID: 1000, Mode: 0o644, Uname: "alice", Gname: "staff"}
	got, err := DecodePermission(p.Encode())
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestXattr_RoundTrip(t *testing.T) {
	t.Parallel()

	x := Xattr{Name: "user.comment", Value: []byte("hello")}
	got, err := DecodeXattr(x.Encode())
	require.NoError(t, err)
	require.Equal(t, x, got)
}

func TestACL_RoundTrip(t *testing.T) {
	t.Parallel()

	m := ACLMarker{Encoding: ACLEncodingCurrent, Count: 2}
	gotMarker, err := DecodeACLMarker(m.Encode())
	require.NoError(t, err)
	require.Equal(t, m, gotMarker)

	e := ACLEntry{Tag: ACLTagUser, Qualifier: 1000, Permissions: 0b110}
	gotEntry, err := DecodeACLEntry(e.Encode())
	require.NoError(t, err)
	require.Equal(t, e, gotEntry)
}

func TestACL_LegacyIsReadOnly(t *testing.T) {
	t.Parallel()

	legacy := []byte{byte(ACLTagGroup), 0x00, 0x00, 0x03, 0xE8, 0b100}
	got, err := DecodeLegacyACLEntry(legacy)
	require.NoError(t, err)
	require.Equal(t, ACLEntry{Tag: ACLTagGroup, Qualifier: 1000, Permissions: 0b100}, got)
}

func TestUpgradeACL(t *testing.T) {
	t.Parallel()

	legacy := ACLEntryLegacy{Tag: ACLTagUser, Qualifier: 1000, Permissions: 0b110}
	require.Equal(t, ACLEntry{Tag: ACLTagUser, Qualifier: 1000, Permissions: 0b110}, UpgradeACL(legacy))
}

func TestTimestamps_AfterBefore(t *testing.T) {
	t.Parallel()

	cutoff := time.Unix(1_700_000_000, 0).UTC()

	ts := Timestamps{Modified: &Timestamp{Seconds: 1_700_000_100, Nanoseconds: 0}}
	require.True(t, ts.After(cutoff))
	require.False(t, ts.Before(cutoff))

	ts = Timestamps{Modified: &Timestamp{Seconds: 1_699_999_900, Nanoseconds: 0}}
	require.False(t, ts.After(cutoff))
	require.True(t, ts.Before(cutoff))

	require.False(t, Timestamps{}.After(cutoff))
	require.False(t, Timestamps{}.Before(cutoff))
}

func TestFlags_RoundTrip(t *testing.T) {
	t.Parallel()

	f := Flags{Bits: 0x00000004}
	got, err := DecodeFlags(f.Encode())
	require.NoError(t, err)
	require.Equal(t, f, got)
}
