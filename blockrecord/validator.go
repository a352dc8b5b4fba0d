// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/fault"
)

// ValidIndex - block must be the next position in the chain
func ValidIndex(expected uint64, incoming uint64) error {
	if expected != incoming {
		return fault.ErrBadIndex
	}
	return nil
}

// ValidBlockLinkage - block must link to the digest of the current tip
func ValidBlockLinkage(tipDigest blockdigest.Digest, previous blockdigest.Digest) error {
	if tipDigest != previous {
		return fault.ErrBadLinkage
	}
	return nil
}

// ValidDifficulty - block digest must satisfy the difficulty
func ValidDifficulty(d difficulty.Difficulty, digest blockdigest.Digest) error {
	if !d.Satisfied(digest) {
		return fault.ErrBelowDifficulty
	}
	return nil
}

// ValidCommitment - stored digest must match the recomputed commitment
func ValidCommitment(hasher blockdigest.Hasher, block *Block) error {
	if len(block.Payload) > MaximumPayloadSize {
		return fault.ErrPayloadTooLarge
	}
	if block.Commitment(hasher) != block.Hash {
		return fault.ErrHashMismatch
	}
	return nil
}
