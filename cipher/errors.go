// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cipher

import "github.com/chantsune/pna"

// errDecryptFailed is a package-local alias of the shared sentinel, kept
// short for the frequent wrapping call sites in this package.
var errDecryptFailed = pna.ErrDecryptFailed
