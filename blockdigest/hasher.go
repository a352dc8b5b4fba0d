// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockdigest

import (
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/bitmark-inc/blockminer/fault"
)

// Hasher - turns a packed record into a digest
//
// must be deterministic and free of side effects
type Hasher func(record []byte) Digest

// names of the supported hash functions
const (
	SHA3     = "sha3-256"
	BLAKE3   = "blake3"
	Argon2id = "argon2id"
)

// internal argon2id parameters, small enough for a nonce search to
// stay practical while remaining memory bound
const (
	argon2Iterations  = 1
	argon2Memory      = 64 // KiB
	argon2Parallelism = 1
)

// NewDigest - create a digest from a byte slice using the default hash
func NewDigest(record []byte) Digest {
	return NewSHA3Digest(record)
}

// NewSHA3Digest - SHA3-256 of the record
func NewSHA3Digest(record []byte) Digest {
	return Digest(sha3.Sum256(record))
}

// NewBLAKE3Digest - 256 bit BLAKE3 of the record
func NewBLAKE3Digest(record []byte) Digest {
	return Digest(blake3.Sum256(record))
}

// NewArgon2idDigest - Argon2id with the record as both password and salt
func NewArgon2idDigest(record []byte) Digest {
	hash := argon2.IDKey(record, record, argon2Iterations, argon2Memory, argon2Parallelism, Length)

	var digest Digest
	copy(digest[:], hash)
	return digest
}

// HasherFor - select a hash function by its configuration name
//
// a blank name selects the default
func HasherFor(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", SHA3:
		return NewSHA3Digest, nil
	case BLAKE3:
		return NewBLAKE3Digest, nil
	case Argon2id:
		return NewArgon2idDigest, nil
	default:
		return nil, fault.ErrUnknownHashAlgorithm
	}
}
