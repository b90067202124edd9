// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"github.com/chantsune/pna/entry"
	"github.com/chantsune/pna/entry/metadata"
	"github.com/chantsune/pna/solid"
)

// decodeFHED decodes an entry header chunk's payload, already extracted by
// the chunk decoder in Next.
func decodeFHED(data []byte) (metadata.Header, error) {
	return metadata.DecodeHeader(data)
}

// decodeSHED decodes a solid block header chunk's payload.
func decodeSHED(data []byte) (metadata.SolidHeader, error) {
	return metadata.DecodeSolidHeader(data)
}

func entryReadOpts(cfg readerConfig) []entry.ReadOption {
	return []entry.ReadOption{entry.WithReadPassword(cfg.password)}
}

func solidReadOpts(cfg readerConfig) []solid.ReadOption {
	return []solid.ReadOption{solid.WithReadPassword(cfg.password)}
}
