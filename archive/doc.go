// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the top-level archive writer and reader state
// machines: magic signature, AHED/AEND framing, the sequence of entries
// and solid blocks between them, split-volume output and input, and a
// parallel writer that restores program order over entries built
// concurrently off the hot path.
package archive
