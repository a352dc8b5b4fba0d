// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/bitmark-inc/blockminer/blockdigest"
)

// Block - the unpacked block structure
//
// Hash is the commitment of the other four fields and is never part
// of its own serialisation
type Block struct {
	Index        uint64             `json:"index,string"`
	Payload      string             `json:"payload"`
	PreviousHash blockdigest.Digest `json:"previousHash"`
	Nonce        NonceType          `json:"nonce"`
	Hash         blockdigest.Digest `json:"hash"`
}

// Pack - turn a block into an array of bytes
func (block *Block) Pack() PackedBlock {
	return Pack(block.Index, block.Payload, block.PreviousHash, block.Nonce)
}

// Commitment - recompute the hash from the committed fields
func (block *Block) Commitment(hasher blockdigest.Hasher) blockdigest.Digest {
	return block.Pack().Digest(hasher)
}

// IsGenesis - first block of a chain
func (block *Block) IsGenesis() bool {
	return 0 == block.Index
}
