// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package compress provides the streaming compression stages stacked
// beneath the encryption layer of an entry's data stream: store (no-op),
// deflate, zstd and xz.
package compress
