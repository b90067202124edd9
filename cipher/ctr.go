// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	stdcipher "crypto/cipher"
	"fmt"
	"io"
)

// ctrWriter XORs plaintext with the keystream as it arrives; CTR needs no
// buffering or padding.
type ctrWriter struct {
	w      io.Writer
	stream stdcipher.Stream
}

func newCTRWriter(w io.Writer, block blockCipher, ivSource io.Reader) (io.WriteCloser, error) {
	fullBlock, ok := block.(stdcipher.Block)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	iv := make([]byte, fullBlock.BlockSize())
	if _, err := io.ReadFull(ivSource, iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to generate iv: %w", err)
	}
	if _, err := w.Write(iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to write iv: %w", err)
	}

	return &ctrWriter{w: w, stream: stdcipher.NewCTR(fullBlock, iv)}, nil
}

func (c *ctrWriter) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	c.stream.XORKeyStream(out, p)
	if _, err := c.w.Write(out); err != nil {
		return 0, fmt.Errorf("cipher: unable to write ciphertext: %w", err)
	}
	return len(p), nil
}

// Close is a no-op for CTR: there is no trailing padding block to flush.
func (c *ctrWriter) Close() error { return nil }

// -----------------------------------------------------------------------------

type ctrReader struct {
	r      io.Reader
	stream stdcipher.Stream
}

func newCTRReader(r io.Reader, block blockCipher) (io.Reader, error) {
	fullBlock, ok := block.(stdcipher.Block)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	iv := make([]byte, fullBlock.BlockSize())
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to read iv: %w", err)
	}

	return &ctrReader{r: r, stream: stdcipher.NewCTR(fullBlock, iv)}, nil
}

func (c *ctrReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.stream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}
