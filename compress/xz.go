// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package compress

import (
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// dictCapForLevel maps a Level onto the dictionary capacity ulikunitz/xz
// accepts through WriterConfig; larger dictionaries trade memory for ratio.
func dictCapForLevel(level Level) int {
	switch level {
	case LevelDefault:
		return 8 << 20
	case LevelMin:
		return 1 << 20 // 1 MiB, fastest
	case LevelMax:
		return 64 << 20 // 64 MiB, smallest output
	default:
		n := int(level)
		if n < 0 || n > 9 {
			return 8 << 20
		}
		return (1 << uint(n+16))
	}
}

type xzWriter struct {
	w *xz.Writer
}

func newXZWriter(w io.Writer, level Level) (io.WriteCloser, error) {
	cfg := xz.WriterConfig{DictCap: dictCapForLevel(level)}
	zw, err := cfg.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("compress: unable to create xz writer: %w", err)
	}
	return &xzWriter{w: zw}, nil
}

func (x *xzWriter) Write(p []byte) (int, error) { return x.w.Write(p) }
func (x *xzWriter) Close() error                { return x.w.Close() }

type xzReader struct {
	r io.Reader
}

func newXZReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return &xzReader{r: zr}, nil
}

func (x *xzReader) Read(p []byte) (int, error) {
	n, err := x.r.Read(p)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w: %w", ErrCorruptCompressedStream, err)
	}
	return n, err
}

func (x *xzReader) Close() error { return nil }
