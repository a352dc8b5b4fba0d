// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/fault"
)

// Chain - append only sequence of linked blocks
type Chain struct {
	sync.RWMutex

	log        *logger.L
	difficulty difficulty.Difficulty
	hasher     blockdigest.Hasher
	blocks     []blockrecord.Block
}

// New - create an empty chain
func New(log *logger.L, d difficulty.Difficulty, hasher blockdigest.Hasher) (*Chain, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == hasher {
		return nil, fault.ErrMissingParameters
	}
	return &Chain{
		log:        log,
		difficulty: d,
		hasher:     hasher,
		blocks:     make([]blockrecord.Block, 0, 64),
	}, nil
}

// Append - validate a candidate against the tip and add it
//
// all checks and the append happen under one lock, so on any error
// the chain is unchanged
func (c *Chain) Append(candidate *blockrecord.Block) error {
	c.Lock()
	defer c.Unlock()

	index, previous := c.next()

	err := check(c.difficulty, c.hasher, index, previous, candidate)
	if nil != err {
		c.log.Debugf("reject index: %d  error: %s", candidate.Index, err)
		return err
	}

	c.blocks = append(c.blocks, *candidate)
	c.log.Debugf("append index: %d  digest: %s", candidate.Index, candidate.Hash)
	return nil
}

// Validate - walk the whole chain checking every block
//
// returns a *ValidationError for the first bad block
func (c *Chain) Validate() error {
	c.RLock()
	defer c.RUnlock()

	index := uint64(0)
	previous := blockdigest.Digest{}
	for i := range c.blocks {
		block := &c.blocks[i]
		err := check(c.difficulty, c.hasher, index, previous, block)
		if nil != err {
			return &ValidationError{Index: uint64(i), Err: err}
		}
		index += 1
		previous = block.Hash
	}
	return nil
}

// Tip - copy of the last block, nil if the chain is empty
func (c *Chain) Tip() *blockrecord.Block {
	c.RLock()
	defer c.RUnlock()

	n := len(c.blocks)
	if 0 == n {
		return nil
	}
	tip := c.blocks[n-1]
	return &tip
}

// NextIndex - index and previous hash for the next block
func (c *Chain) NextIndex() (uint64, blockdigest.Digest) {
	c.RLock()
	defer c.RUnlock()
	return c.next()
}

// Get - copy of the block at an index
func (c *Chain) Get(index uint64) (*blockrecord.Block, error) {
	c.RLock()
	defer c.RUnlock()

	if index >= uint64(len(c.blocks)) {
		return nil, fault.ErrBlockNotFound
	}
	block := c.blocks[index]
	return &block, nil
}

// Length - number of blocks
func (c *Chain) Length() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.blocks)
}

// Blocks - copy of all blocks in order
func (c *Chain) Blocks() []blockrecord.Block {
	c.RLock()
	defer c.RUnlock()

	blocks := make([]blockrecord.Block, len(c.blocks))
	copy(blocks, c.blocks)
	return blocks
}

// Difficulty - the difficulty every block must satisfy
func (c *Chain) Difficulty() difficulty.Difficulty {
	return c.difficulty
}

// must hold lock
func (c *Chain) next() (uint64, blockdigest.Digest) {
	n := len(c.blocks)
	if 0 == n {
		return 0, blockdigest.Digest{}
	}
	tip := &c.blocks[n-1]
	return tip.Index + 1, tip.Hash
}

// order of checks decides which error a bad block reports
func check(d difficulty.Difficulty, hasher blockdigest.Hasher, index uint64, previous blockdigest.Digest, block *blockrecord.Block) error {
	err := blockrecord.ValidIndex(index, block.Index)
	if nil != err {
		return err
	}
	err = blockrecord.ValidBlockLinkage(previous, block.PreviousHash)
	if nil != err {
		return err
	}
	err = blockrecord.ValidDifficulty(d, block.Hash)
	if nil != err {
		return err
	}
	return blockrecord.ValidCommitment(hasher, block)
}
