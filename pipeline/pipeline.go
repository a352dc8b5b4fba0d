// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/background"
	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/chain"
	"github.com/bitmark-inc/blockminer/counter"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/messagebus"
	"github.com/bitmark-inc/blockminer/payload"
)

// BlockCommand - messagebus command for an appended block
const BlockCommand = "block"

// Configuration - fixed at construction
type Configuration struct {
	Interval  time.Duration // time between payloads, zero for no delay
	QueueSize int           // capacity of the payload queue
	Retries   int           // salted retries after nonce exhaustion
	Genesis   string        // genesis payload, blank to take one from the source
}

// Miner - the proof of work search used by the consumer
type Miner interface {
	Mine(index uint64, payload string, previous blockdigest.Digest) (*blockrecord.Block, error)
}

// Statistics - counts since start
type Statistics struct {
	Blocks     uint64 // appended
	Rejections uint64 // refused by the chain
	Skipped    uint64 // could not be mined
	Pending    uint64 // queued or being mined
}

// Pipeline - producer and consumer joined by a bounded queue
type Pipeline struct {
	sync.RWMutex
	state State

	// serialises Start and Stop
	control sync.Mutex

	log           *logger.L
	configuration Configuration
	source        payload.Source
	miner         Miner
	chain         *chain.Chain
	bus           *messagebus.Broadcast

	processes *background.T
	done      chan struct{}

	blocks     counter.Counter
	rejections counter.Counter
	skipped    counter.Counter
	pending    counter.Counter
}

// a payload on its way to the miner
type job struct {
	id      string
	payload string
}

// New - create an idle pipeline
//
// bus may be nil if nothing listens for new blocks
func New(log *logger.L, configuration Configuration, source payload.Source, miner Miner, c *chain.Chain, bus *messagebus.Broadcast) (*Pipeline, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == source || nil == miner || nil == c {
		return nil, fault.ErrMissingParameters
	}
	if configuration.Interval < 0 {
		return nil, fault.ErrInvalidInterval
	}
	if configuration.QueueSize < 1 {
		return nil, fault.ErrInvalidQueueSize
	}
	if configuration.Retries < 0 {
		return nil, fault.ErrInvalidRetryCount
	}
	if len(configuration.Genesis) > blockrecord.MaximumPayloadSize {
		return nil, fault.ErrPayloadTooLarge
	}

	return &Pipeline{
		state:         Idle,
		log:           log,
		configuration: configuration,
		source:        source,
		miner:         miner,
		chain:         c,
		bus:           bus,
		done:          make(chan struct{}),
	}, nil
}

// Start - mine a genesis block if the chain is empty, then run the
// producer and consumer
//
// a pipeline runs once, it cannot be restarted after Stop
func (p *Pipeline) Start() error {
	p.control.Lock()
	defer p.control.Unlock()

	if Idle != p.State() {
		return fault.ErrAlreadyStarted
	}

	p.log.Info("starting…")

	if 0 == p.chain.Length() {
		err := p.genesis()
		if nil != err {
			p.log.Errorf("genesis error: %s", err)
			return err
		}
	}

	queue := make(chan job, p.configuration.QueueSize)

	processes := background.Processes{
		&producer{
			log:      logger.New("producer"),
			source:   p.source,
			interval: p.configuration.Interval,
			queue:    queue,
		},
		&consumer{
			log:   logger.New("consumer"),
			queue: queue,
		},
	}

	p.setState(Running)
	p.processes = background.Start(processes, p)

	go p.supervise()

	return nil
}

// Stop - close the producer side and wait for the queue to drain
func (p *Pipeline) Stop() error {
	p.control.Lock()
	defer p.control.Unlock()

	if Idle == p.State() {
		return fault.ErrNotStarted
	}

	p.log.Info("shutting down…")
	p.log.Flush()

	p.processes.Stop()
	<-p.done

	return nil
}

// Wait - block until the pipeline is Stopped
//
// a finite source stops the pipeline on its own
func (p *Pipeline) Wait() error {
	if Idle == p.State() {
		return fault.ErrNotStarted
	}
	<-p.done
	return nil
}

// State - current state
func (p *Pipeline) State() State {
	p.RLock()
	defer p.RUnlock()
	return p.state
}

// Statistics - current counts
func (p *Pipeline) Statistics() Statistics {
	return Statistics{
		Blocks:     p.blocks.Uint64(),
		Rejections: p.rejections.Uint64(),
		Skipped:    p.skipped.Uint64(),
		Pending:    p.pending.Uint64(),
	}
}

func (p *Pipeline) setState(state State) {
	p.Lock()
	from := p.state
	p.state = state
	p.Unlock()

	if from != state {
		p.log.Infof("state: %s -> %s", from, state)
	}
}

// producer has exited, anything still pending is drained
func (p *Pipeline) producerDone() {
	p.Lock()
	defer p.Unlock()

	if Running == p.state && !p.pending.IsZero() {
		p.state = Draining
		p.log.Infof("state: %s -> %s  pending: %d", Running, Draining, p.pending.Uint64())
	}
}

func (p *Pipeline) supervise() {
	p.processes.Wait()
	p.setState(Stopped)

	s := p.Statistics()
	p.log.Infof("blocks: %d  rejections: %d  skipped: %d", s.Blocks, s.Rejections, s.Skipped)
	p.log.Info("finished")
	p.log.Flush()

	close(p.done)
}

func (p *Pipeline) genesis() error {
	data := p.configuration.Genesis
	if "" == data {
		var err error
		data, err = p.source.Next()
		if nil != err {
			return err
		}
	}
	return p.process(p.log, job{id: "genesis", payload: data})
}

// mine one payload and append it to the chain
//
// errors are logged and counted here, the returned error is only
// acted on for the genesis block
func (p *Pipeline) process(log *logger.L, j job) error {
	index, previous := p.chain.NextIndex()

	data := j.payload
	var block *blockrecord.Block
	var err error

retryLoop:
	for attempt := 0; ; attempt += 1 {
		if attempt > 0 {
			data = fmt.Sprintf("%s/%d", j.payload, attempt)
		}

		block, err = p.miner.Mine(index, data, previous)
		if nil == err {
			break retryLoop
		}
		if fault.ErrNonceSpaceExhausted == err && attempt < p.configuration.Retries {
			log.Warnf("job: %s  index: %d  nonce space exhausted, retry: %d", j.id, index, attempt+1)
			continue retryLoop
		}

		log.Errorf("job: %s  index: %d  skipped: %s", j.id, index, err)
		p.skipped.Increment()
		return err
	}

	err = p.chain.Append(block)
	if nil != err {
		log.Warnf("job: %s  index: %d  rejected: %s", j.id, block.Index, err)
		p.rejections.Increment()
		return err
	}

	p.blocks.Increment()
	log.Infof("job: %s  index: %d  nonce: %s  digest: %s", j.id, block.Index, block.Nonce, block.Hash)

	if nil != p.bus {
		p.bus.Send(BlockCommand, *block)
	}
	return nil
}
