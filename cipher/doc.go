// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cipher implements the streaming cipher stages PNA entries and
// solid blocks are optionally wrapped in: AES-256 and Camellia-256, each in
// CBC (PKCS#7 padded) or CTR mode. Every stream is prefixed with a
// CSPRNG-generated IV, written as the stream's first block.
//
// Each stage is a header-then-body loop composed over io.Writer/io.Reader,
// with every fallible step wrapped via fmt.Errorf("...: %w", err).
package cipher
