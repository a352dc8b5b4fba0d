// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/counter"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/fault"
)

// Miner - proof of work search over the nonce space
type Miner struct {
	log        *logger.L
	difficulty difficulty.Difficulty
	hasher     blockdigest.Hasher
	threads    int
	maximum    blockrecord.NonceType
	attempts   counter.Counter
}

// New - create a miner
//
// threads > 1 splits the nonce space between goroutines, the block
// returned is the same as for a single thread
func New(log *logger.L, d difficulty.Difficulty, hasher blockdigest.Hasher, threads int) (*Miner, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == hasher {
		return nil, fault.ErrMissingParameters
	}
	if threads < 1 {
		return nil, fault.ErrInvalidThreadCount
	}

	return &Miner{
		log:        log,
		difficulty: d,
		hasher:     hasher,
		threads:    threads,
		maximum:    blockrecord.MaximumNonce,
	}, nil
}

// Difficulty - the difficulty this miner satisfies
func (m *Miner) Difficulty() difficulty.Difficulty {
	return m.difficulty
}

// Attempts - total number of digests computed
func (m *Miner) Attempts() uint64 {
	return m.attempts.Uint64()
}

// Mine - search for the smallest nonce that satisfies the difficulty
//
// returns fault.ErrNonceSpaceExhausted if no nonce succeeds, the
// caller may retry with a different payload
func (m *Miner) Mine(index uint64, payload string, previous blockdigest.Digest) (*blockrecord.Block, error) {
	if len(payload) > blockrecord.MaximumPayloadSize {
		return nil, fault.ErrPayloadTooLarge
	}

	start := time.Now()

	var nonce blockrecord.NonceType
	var digest blockdigest.Digest
	var count uint64
	var err error
	if 1 == m.threads {
		nonce, digest, count, err = m.search(index, payload, previous)
	} else {
		nonce, digest, count, err = m.parallel(index, payload, previous)
	}
	m.attempts.Add(count)

	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		m.log.Debugf("index: %d  attempts: %d  hash rate: %f H/s", index, count, float64(count)/elapsed)
	}

	if nil != err {
		m.log.Warnf("index: %d  error: %s", index, err)
		return nil, err
	}

	m.log.Debugf("index: %d  nonce: %s  digest: %s", index, nonce, digest)

	return &blockrecord.Block{
		Index:        index,
		Payload:      payload,
		PreviousHash: previous,
		Nonce:        nonce,
		Hash:         digest,
	}, nil
}

// linear search from nonce zero
func (m *Miner) search(index uint64, payload string, previous blockdigest.Digest) (blockrecord.NonceType, blockdigest.Digest, uint64, error) {

	packed := blockrecord.Pack(index, payload, previous, blockrecord.NewNonce(0))
	nonce := blockrecord.NewNonce(0)
	count := uint64(0)

nonceLoop:
	for {
		packed.SetNonce(nonce)
		digest := packed.Digest(m.hasher)
		count += 1

		if m.difficulty.Satisfied(digest) {
			return nonce, digest, count, nil
		}
		if nonce == m.maximum {
			break nonceLoop
		}
		nonce, _ = nonce.Add(1)
	}

	return nonce, blockdigest.Digest{}, count, fault.ErrNonceSpaceExhausted
}

// shared result of a parallel search
type best struct {
	sync.Mutex
	found  int32
	nonce  blockrecord.NonceType
	digest blockdigest.Digest
}

// true if a nonce below n has already succeeded
func (b *best) beaten(n blockrecord.NonceType) bool {
	if 0 == atomic.LoadInt32(&b.found) {
		return false
	}
	b.Lock()
	defer b.Unlock()
	return b.nonce.Cmp(n) < 0
}

// keep the smallest successful nonce
func (b *best) offer(n blockrecord.NonceType, digest blockdigest.Digest) {
	b.Lock()
	defer b.Unlock()
	if 0 == atomic.LoadInt32(&b.found) || n.Cmp(b.nonce) < 0 {
		b.nonce = n
		b.digest = digest
		atomic.StoreInt32(&b.found, 1)
	}
}

// each worker w tests w, w+threads, w+2*threads, ... and only stops
// once a smaller nonce is known to succeed, so every nonce below the
// result has been tested
func (m *Miner) parallel(index uint64, payload string, previous blockdigest.Digest) (blockrecord.NonceType, blockdigest.Digest, uint64, error) {

	result := &best{}
	total := counter.Counter(0)
	step := uint64(m.threads)

	var wg sync.WaitGroup
	for w := 0; w < m.threads; w += 1 {
		start := blockrecord.NewNonce(uint64(w))
		if start.Cmp(m.maximum) > 0 {
			break
		}

		wg.Add(1)
		go func(nonce blockrecord.NonceType) {
			defer wg.Done()

			packed := blockrecord.Pack(index, payload, previous, nonce)
			count := uint64(0)
			defer func() { total.Add(count) }()

			for !result.beaten(nonce) {
				packed.SetNonce(nonce)
				digest := packed.Digest(m.hasher)
				count += 1

				if m.difficulty.Satisfied(digest) {
					result.offer(nonce, digest)
					return
				}

				next, overflow := nonce.Add(step)
				if overflow || next.Cmp(m.maximum) > 0 {
					return
				}
				nonce = next
			}
		}(start)
	}
	wg.Wait()

	if 0 == atomic.LoadInt32(&result.found) {
		return blockrecord.NonceType{}, blockdigest.Digest{}, total.Uint64(), fault.ErrNonceSpaceExhausted
	}
	return result.nonce, result.digest, total.Uint64(), nil
}
