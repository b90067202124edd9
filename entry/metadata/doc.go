// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package metadata encodes and decodes the ancillary chunks that travel
// alongside an entry header: timestamps, permissions, extended attributes,
// ACLs and filesystem flags. Each type mirrors the fixed big-endian layout
// of its wire chunk and round-trips byte-for-byte through Encode/Decode.
package metadata
