// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	stdcipher "crypto/cipher"
	"errors"
	"fmt"
	"io"
)

// cbcWriter buffers up to one block of plaintext and emits whole encrypted
// blocks as they fill; on Close it pads and emits the final block.
type cbcWriter struct {
	w         io.Writer
	mode      stdcipher.BlockMode
	blockSize int
	buf       []byte
	closed    bool
}

func newCBCWriter(w io.Writer, block blockCipher, ivSource io.Reader) (io.WriteCloser, error) {
	blockSize := block.BlockSize()

	iv := make([]byte, blockSize)
	if _, err := io.ReadFull(ivSource, iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to generate iv: %w", err)
	}
	if _, err := w.Write(iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to write iv: %w", err)
	}

	fullBlock, ok := block.(stdcipher.Block)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	return &cbcWriter{
		w:         w,
		mode:      stdcipher.NewCBCEncrypter(fullBlock, iv),
		blockSize: blockSize,
	}, nil
}

func (c *cbcWriter) Write(p []byte) (int, error) {
	if c.closed {
		return 0, errors.New("cipher: write after close")
	}

	n := len(p)
	c.buf = append(c.buf, p...)

	for len(c.buf) >= c.blockSize {
		block := c.buf[:c.blockSize]
		out := make([]byte, c.blockSize)
		c.mode.CryptBlocks(out, block)
		if _, err := c.w.Write(out); err != nil {
			return n, fmt.Errorf("cipher: unable to write ciphertext block: %w", err)
		}
		c.buf = c.buf[c.blockSize:]
	}

	return n, nil
}

// Close pads the remaining buffered plaintext and emits the final block(s).
func (c *cbcWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	padded := pkcs7Pad(c.buf, c.blockSize)
	out := make([]byte, len(padded))
	c.mode.CryptBlocks(out, padded)
	if _, err := c.w.Write(out); err != nil {
		return fmt.Errorf("cipher: unable to write final ciphertext block: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// cbcReader buffers one block of lookahead to distinguish the last block
// (which must be unpadded) from interior blocks.
type cbcReader struct {
	r         io.Reader
	mode      stdcipher.BlockMode
	blockSize int
	lookahead []byte
	haveLook  bool
	out       []byte
	err       error
}

func newCBCReader(r io.Reader, block blockCipher) (io.Reader, error) {
	blockSize := block.BlockSize()

	iv := make([]byte, blockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		return nil, fmt.Errorf("cipher: unable to read iv: %w", err)
	}

	fullBlock, ok := block.(stdcipher.Block)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	return &cbcReader{
		r:         r,
		mode:      stdcipher.NewCBCDecrypter(fullBlock, iv),
		blockSize: blockSize,
	}, nil
}

func (c *cbcReader) readBlock() ([]byte, error) {
	block := make([]byte, c.blockSize)
	if _, err := io.ReadFull(c.r, block); err != nil {
		return nil, err
	}
	dec := make([]byte, c.blockSize)
	c.mode.CryptBlocks(dec, block)
	return dec, nil
}

func (c *cbcReader) fill() error {
	if !c.haveLook {
		look, err := c.readBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("%w: %w", errDecryptFailed, err)
		}
		c.lookahead = look
		c.haveLook = true
	}

	next, err := c.readBlock()
	switch {
	case err == nil:
		c.out = append(c.out, c.lookahead...)
		c.lookahead = next
		return nil
	case errors.Is(err, io.EOF):
		// Clean boundary: no bytes at all for the next block, so lookahead
		// was the final, padded block.
		unpadded, uerr := pkcs7Unpad(c.lookahead, c.blockSize)
		if uerr != nil {
			return uerr
		}
		c.out = append(c.out, unpadded...)
		c.haveLook = false
		c.lookahead = nil
		c.err = io.EOF
		return nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		// A partial, non-block-aligned remainder: the ciphertext is truncated.
		return fmt.Errorf("%w: truncated ciphertext block", errDecryptFailed)
	default:
		return fmt.Errorf("%w: %w", errDecryptFailed, err)
	}
}

func (c *cbcReader) Read(p []byte) (int, error) {
	for len(c.out) == 0 {
		if c.err != nil {
			return 0, c.err
		}
		if err := c.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				c.err = io.EOF
				continue
			}
			return 0, err
		}
	}

	n := copy(p, c.out)
	c.out = c.out[n:]
	if len(c.out) == 0 && c.err != nil {
		return n, nil
	}
	return n, nil
}
