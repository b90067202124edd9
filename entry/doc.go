// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package entry implements the per-entry write/read pipeline: FHED header,
// optional PHSF key-derivation envelope, metadata chunks, buffered FDAT
// payload framing and FEND termination, composing compress over cipher
// over the chunk codec.
package entry
