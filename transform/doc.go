// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package transform rewrites an archive entry-by-entry: decode, apply a
// caller-supplied mutation, and re-encode into a fresh archive.Writer.
package transform
