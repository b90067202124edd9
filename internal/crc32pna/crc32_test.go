package crc32pna

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	t.Parallel()

	typ := [4]byte{'F', 'D', 'A', 'T'}
	data := []byte("hi")

	want := crc32.ChecksumIEEE(append(append([]byte{}, typ[:]...), data...))
	require.Equal(t, want, Sum(typ, data))
}

func TestSum_EmptyData(t *testing.T) {
	t.Parallel()

	typ := [4]byte{'A', 'E', 'N', 'D'}
	want := crc32.ChecksumIEEE(typ[:])
	require.Equal(t, want, Sum(typ, nil))
}

func TestIncremental(t *testing.T) {
	t.Parallel()

	typ := [4]byte{'F', 'D', 'A', 'T'}
	data := []byte("hello world")

	h := New(typ)
	h.Write(data[:5])
	h.Write(data[5:])

	require.Equal(t, Sum(typ, data), h.Sum32())
}
