// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"compress/zlib"
	"fmt"
	"io"
)

func deflateLevel(level Level) int {
	switch level {
	case LevelDefault:
		return zlib.DefaultCompression
	case LevelMin:
		return zlib.BestSpeed
	case LevelMax:
		return zlib.BestCompression
	default:
		if int(level) < zlib.NoCompression || int(level) > zlib.BestCompression {
			return zlib.DefaultCompression
		}
		return int(level)
	}
}

func newDeflateWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	zw, err := zlib.NewWriterLevel(w, deflateLevel(level))
	if err != nil {
		return nil, fmt.Errorf("compress: unable to create deflate writer: %w", err)
	}
	return zw, nil
}

type deflateReader struct {
	r io.ReadCloser
}

func newDeflateReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return &deflateReader{r: zr}, nil
}

func (d *deflateReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return n, err
}

func (d *deflateReader) Close() error {
	return d.r.Close()
}
