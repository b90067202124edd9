// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package solid implements solid-block framing: a group of entries sharing
// one outer compression/encryption stream, written as SHED, zero or more
// SDAT fragments and SEND, wrapping an inner sequence of store/unencrypted
// FHED…FEND entries.
package solid
