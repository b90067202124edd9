// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package chunk implements the PNA chunk codec: encode/decode of the
// length-prefixed, four-letter-typed, CRC-validated records that frame
// every PNA archive.
package chunk
