// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package kdf

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// phcEncoding is the base64 variant used by the PHC string format: standard
// alphabet, no padding.
var phcEncoding = base64.RawStdEncoding

// Pack encodes Params as a PHC string, e.g.
// "$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>" or
// "$pbkdf2-sha256$i=600000$<salt>$<hash>".
//
// Only the fields modeled in Params are emitted. ParsePHC accepts and
// ignores unknown argon2id parameters without keeping them in Params, so
// Pack does not reproduce them.
func (p *Params) Pack() (string, error) {
	salt := phcEncoding.EncodeToString(p.Salt)
	hash := phcEncoding.EncodeToString(p.Key)

	switch p.Algorithm {
	case Argon2id:
		return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
			p.Memory, p.Time, p.Threads, salt, hash), nil
	case PBKDF2HmacSHA256:
		return fmt.Sprintf("$pbkdf2-sha256$i=%d$%s$%s", p.Iterations, salt, hash), nil
	default:
		return "", ErrStrategyNotSupported
	}
}

// ParsePHC parses a PHC string produced by Pack (or by a foreign
// implementation following the same grammar) back into Params.
func ParsePHC(s string) (*Params, error) {
	// A PHC string always starts with '$' and has at least id,params,salt,hash.
	if !strings.HasPrefix(s, "$") {
		return nil, fmt.Errorf("%w: missing leading '$'", ErrInvalidPHC)
	}
	fields := strings.Split(s[1:], "$")

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty PHC string", ErrInvalidPHC)
	}

	switch fields[0] {
	case "argon2id":
		return parseArgon2idPHC(fields)
	case "pbkdf2-sha256":
		return parsePBKDF2PHC(fields)
	default:
		return nil, fmt.Errorf("%w: unrecognised algorithm segment %q", ErrInvalidPHC, fields[0])
	}
}

func parseArgon2idPHC(fields []string) (*Params, error) {
	// fields: ["argon2id", "v=19", "m=...,t=...,p=...", salt, hash]
	if len(fields) < 5 {
		return nil, fmt.Errorf("%w: truncated argon2id PHC string", ErrInvalidPHC)
	}

	paramsIdx := 1
	if strings.HasPrefix(fields[1], "v=") {
		paramsIdx = 2
	}
	if paramsIdx+2 >= len(fields) {
		return nil, fmt.Errorf("%w: truncated argon2id PHC string", ErrInvalidPHC)
	}

	p := &Params{Algorithm: Argon2id}
	for _, kv := range strings.Split(fields[paramsIdx], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("%w: malformed parameter %q", ErrInvalidPHC, kv)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %w", ErrInvalidPHC, kv, err)
		}
		switch k {
		case "m":
			p.Memory = uint32(n)
		case "t":
			p.Time = uint32(n)
		case "p":
			p.Threads = uint8(n)
		default:
			// Unknown field: tolerated and ignored; it is not kept in
			// Params, so Pack does not re-emit it.
		}
	}

	salt, hash, err := decodeSaltHash(fields[paramsIdx+1], fields[paramsIdx+2])
	if err != nil {
		return nil, err
	}
	p.Salt, p.Key = salt, hash
	return p, nil
}

func parsePBKDF2PHC(fields []string) (*Params, error) {
	// fields: ["pbkdf2-sha256", "i=...", salt, hash]
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: truncated pbkdf2-sha256 PHC string", ErrInvalidPHC)
	}
	k, v, ok := strings.Cut(fields[1], "=")
	if !ok || k != "i" {
		return nil, fmt.Errorf("%w: missing iteration count", ErrInvalidPHC)
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid iteration count: %w", ErrInvalidPHC, err)
	}

	salt, hash, err := decodeSaltHash(fields[2], fields[3])
	if err != nil {
		return nil, err
	}
	return &Params{
		Algorithm:  PBKDF2HmacSHA256,
		Iterations: uint32(n),
		Salt:       salt,
		Key:        hash,
	}, nil
}

func decodeSaltHash(saltB64, hashB64 string) (salt, hash []byte, err error) {
	salt, err = phcEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid salt encoding: %w", ErrInvalidPHC, err)
	}
	hash, err = phcEncoding.DecodeString(hashB64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid hash encoding: %w", ErrInvalidPHC, err)
	}
	return salt, hash, nil
}
