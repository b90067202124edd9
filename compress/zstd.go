// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

func zstdEncoderLevel(level Level) zstd.EncoderLevel {
	switch level {
	case LevelDefault:
		return zstd.SpeedDefault
	case LevelMin:
		return zstd.SpeedFastest
	case LevelMax:
		return zstd.SpeedBestCompression
	default:
		switch int(level) {
		case 1:
			return zstd.SpeedFastest
		case 2:
			return zstd.SpeedDefault
		case 3:
			return zstd.SpeedBetterCompression
		case 4:
			return zstd.SpeedBestCompression
		default:
			return zstd.SpeedDefault
		}
	}
}

type zstdWriter struct {
	enc *zstd.Encoder
}

func newZstdWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstdEncoderLevel(level)))
	if err != nil {
		return nil, fmt.Errorf("compress: unable to create zstd writer: %w", err)
	}
	return &zstdWriter{enc: enc}, nil
}

func (z *zstdWriter) Write(p []byte) (int, error) { return z.enc.Write(p) }
func (z *zstdWriter) Close() error                { return z.enc.Close() }

type zstdReader struct {
	dec *zstd.Decoder
}

func newZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return &zstdReader{dec: dec}, nil
}

func (z *zstdReader) Read(p []byte) (int, error) {
	n, err := z.dec.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return n, err
}

func (z *zstdReader) Close() error {
	z.dec.Close()
	return nil
}
