// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf

import "golang.org/x/crypto/argon2"

// argon2idDeriver derives keys with Argon2id.
type argon2idDeriver struct {
	salt    []byte
	time    uint32
	memory  uint32
	threads uint8
}

// NewArgon2id builds a Deriver for Argon2id with the given cost parameters.
// Zero values fall back to the package defaults (t=1, m=64MiB, p=4).
func NewArgon2id(salt []byte, time, memory uint32, threads uint8) Deriver {
	if time == 0 {
		time = DefaultArgon2idTime
	}
	if memory == 0 {
		memory = DefaultArgon2idMemory
	}
	if threads == 0 {
		threads = DefaultArgon2idThreads
	}
	return &argon2idDeriver{salt: salt, time: time, memory: memory, threads: threads}
}

// Default Argon2id cost parameters, chosen per the OWASP password storage
// cheat sheet's "first recommended option" (m=19MiB minimum; raised here to
// 64MiB since PNA archives are not a high-throughput auth path).
const (
	DefaultArgon2idTime    uint32 = 1
	DefaultArgon2idMemory  uint32 = 64 * 1024
	DefaultArgon2idThreads uint8  = 4
)

func (d *argon2idDeriver) Derive(password []byte) (*Params, error) {
	key := argon2.IDKey(password, d.salt, d.time, d.memory, d.threads, KeyLen)
	return &Params{
		Algorithm: Argon2id,
		Salt:      d.salt,
		Key:       key,
		Time:      d.time,
		Memory:    d.memory,
		Threads:   d.threads,
	}, nil
}
