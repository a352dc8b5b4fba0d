// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"fmt"
	"math/big"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/fault"
)

// MaximumBits - a digest has no more leading zero bits than this
const MaximumBits = 8 * blockdigest.Length

// Difficulty - the number of leading zero bits a block digest must have
//
// the value is immutable, so it can be shared freely between the
// chain and any number of mining threads
type Difficulty struct {
	bits int
}

// New - create a difficulty requiring a count of leading zero bits
func New(zeroBits int) (Difficulty, error) {
	if zeroBits < 0 || zeroBits > MaximumBits {
		return Difficulty{}, fault.ErrInvalidDifficulty
	}
	return Difficulty{bits: zeroBits}, nil
}

// FromBytes - create a difficulty requiring a count of leading zero bytes
func FromBytes(zeroBytes int) (Difficulty, error) {
	if zeroBytes < 0 || zeroBytes > blockdigest.Length {
		return Difficulty{}, fault.ErrInvalidDifficulty
	}
	return New(8 * zeroBytes)
}

// Bits - leading zero bits required
func (difficulty Difficulty) Bits() int {
	return difficulty.bits
}

// Target - the exclusive upper bound a digest must be below
//
// i.e. 2^(256 - bits)
func (difficulty Difficulty) Target() *big.Int {
	target := big.NewInt(1)
	return target.Lsh(target, uint(MaximumBits-difficulty.bits))
}

// Satisfied - true if the digest has enough leading zero bits
func (difficulty Difficulty) Satisfied(digest blockdigest.Digest) bool {
	fullBytes := difficulty.bits / 8
	for i := 0; i < fullBytes; i += 1 {
		if 0 != digest[i] {
			return false
		}
	}
	remainder := uint(difficulty.bits % 8)
	if 0 == remainder {
		return true
	}
	mask := byte(0xff) << (8 - remainder)
	return 0 == digest[fullBytes]&mask
}

// String - for the fmt package
func (difficulty Difficulty) String() string {
	if 0 == difficulty.bits%8 {
		return fmt.Sprintf("%d zero bytes", difficulty.bits/8)
	}
	return fmt.Sprintf("%d zero bits", difficulty.bits)
}
