// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package kdf derives symmetric encryption keys from user-supplied passwords
// and packs/unpacks the parameters as a PHC string ($argon2id$... or
// $pbkdf2-sha256$...) so an archive's PHSF chunk is self-describing.
package kdf
