// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"encoding/binary"
	"fmt"
)

// ACLEntryLegacy is the decoded form of a faCe chunk body written in the
// pre-0.19.1 layout: u8 tag, u32 qualifier, u8 permissions. It exists only
// as the input to UpgradeACL; this package never encodes it.
type ACLEntryLegacy struct {
	Tag         ACLTag
	Qualifier   uint32
	Permissions uint8
}

func decodeLegacyACLEntry(data []byte) (ACLEntryLegacy, error) {
	if len(data) != 6 {
		return ACLEntryLegacy{}, fmt.Errorf("metadata: legacy faCe chunk must be 6 bytes, got %d", len(data))
	}
	return ACLEntryLegacy{
		Tag:         ACLTag(data[0]),
		Qualifier:   binary.BigEndian.Uint32(data[1:5]),
		Permissions: data[5],
	}, nil
}

// UpgradeACL converts a legacy-encoded ACL entry (u32 qualifier) to the
// current wire representation (u64 qualifier). It is the only supported
// direction: a transform pass that carries forward a legacy faCl/faCe pair
// always re-emits ACLEncodingCurrent, never legacy.
func UpgradeACL(legacy ACLEntryLegacy) ACLEntry {
	return ACLEntry{
		Tag:         legacy.Tag,
		Qualifier:   uint64(legacy.Qualifier),
		Permissions: legacy.Permissions,
	}
}
