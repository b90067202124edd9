// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	"crypto/aes"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/crypto/camellia"
)

// Algorithm identifies a supported block cipher.
type Algorithm uint8

const (
	// AES256 selects AES-256.
	AES256 Algorithm = iota
	// Camellia256 selects Camellia-256.
	Camellia256
)

// Mode identifies a supported block cipher mode of operation.
type Mode uint8

const (
	// CBC selects cipher block chaining with PKCS#7 padding.
	CBC Mode = iota
	// CTR selects counter mode (no padding).
	CTR
)

// KeySize is the key length required by every cipher this package supports
// (both are 256-bit keys).
const KeySize = 32

var (
	// ErrInvalidKeySize is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("cipher: key must be 32 bytes")
	// ErrUnsupportedAlgorithm is returned for an Algorithm value this package
	// does not implement.
	ErrUnsupportedAlgorithm = errors.New("cipher: unsupported algorithm")
	// ErrUnsupportedMode is returned for a Mode value this package does not
	// implement.
	ErrUnsupportedMode = errors.New("cipher: unsupported mode")
)

func newBlockCipher(alg Algorithm, key []byte) (blockCipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	switch alg {
	case AES256:
		return aes.NewCipher(key)
	case Camellia256:
		return camellia.New(key)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// blockCipher is the subset of cipher.Block this package relies on.
type blockCipher interface {
	BlockSize() int
	Encrypt(dst, src []byte)
	Decrypt(dst, src []byte)
}

// Option configures a NewWriter call beyond the required
// algorithm/mode/key triple.
type Option func(*writerConfig)

type writerConfig struct {
	ivSource io.Reader
}

// WithIVSource overrides the reader NewWriter draws its IV from, in place of
// crypto/rand.Reader. It exists as a determinism seam for golden-file and
// fuzz-replay tests (see DeterministicIVSource); production callers must
// leave it unset.
func WithIVSource(r io.Reader) Option {
	return func(c *writerConfig) {
		c.ivSource = r
	}
}

// NewWriter returns a streaming encrypting io.WriteCloser for the given
// algorithm/mode. It generates a fresh random IV and writes it as the first
// bytes of the stream before any ciphertext.
func NewWriter(w io.Writer, alg Algorithm, mode Mode, key []byte, opts ...Option) (io.WriteCloser, error) {
	var cfg writerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	ivSource := cfg.ivSource
	if ivSource == nil {
		ivSource = rand.Reader
	}

	block, err := newBlockCipher(alg, key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case CBC:
		return newCBCWriter(w, block, ivSource)
	case CTR:
		return newCTRWriter(w, block, ivSource)
	default:
		return nil, ErrUnsupportedMode
	}
}

// NewReader returns a streaming decrypting io.Reader for the given
// algorithm/mode. It consumes the stream's leading IV bytes before
// presenting plaintext.
func NewReader(r io.Reader, alg Algorithm, mode Mode, key []byte) (io.Reader, error) {
	block, err := newBlockCipher(alg, key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case CBC:
		return newCBCReader(r, block)
	case CTR:
		return newCTRReader(r, block)
	default:
		return nil, ErrUnsupportedMode
	}
}
