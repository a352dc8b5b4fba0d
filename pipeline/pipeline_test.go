// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/chain"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/fixtures"
	"github.com/bitmark-inc/blockminer/messagebus"
	"github.com/bitmark-inc/blockminer/mine"
	"github.com/bitmark-inc/blockminer/payload"
	"github.com/bitmark-inc/blockminer/payload/mocks"
	"github.com/bitmark-inc/blockminer/pipeline"
)

const zeroBits = 4

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newChain(t *testing.T) *chain.Chain {
	c, err := chain.New(logger.New(fixtures.LogCategory), fixtures.Difficulty(zeroBits), blockdigest.NewSHA3Digest)
	require.Nil(t, err, "new chain")
	return c
}

func newMiner(t *testing.T) *mine.Miner {
	m, err := mine.New(logger.New(fixtures.LogCategory), fixtures.Difficulty(zeroBits), blockdigest.NewSHA3Digest, 1)
	require.Nil(t, err, "new miner")
	return m
}

func configuration() pipeline.Configuration {
	return pipeline.Configuration{
		Interval:  0,
		QueueSize: 2,
		Retries:   2,
		Genesis:   "genesis",
	}
}

func TestNewInvalid(t *testing.T) {
	log := logger.New(fixtures.LogCategory)
	c := newChain(t)
	m := newMiner(t)
	s := payload.NewList(nil)

	_, err := pipeline.New(nil, configuration(), s, m, c, nil)
	assert.Equal(t, fault.ErrInvalidLoggerChannel, err, "nil logger")

	_, err = pipeline.New(log, configuration(), nil, m, c, nil)
	assert.Equal(t, fault.ErrMissingParameters, err, "nil source")

	conf := configuration()
	conf.Interval = -time.Second
	_, err = pipeline.New(log, conf, s, m, c, nil)
	assert.Equal(t, fault.ErrInvalidInterval, err, "negative interval")

	conf = configuration()
	conf.QueueSize = 0
	_, err = pipeline.New(log, conf, s, m, c, nil)
	assert.Equal(t, fault.ErrInvalidQueueSize, err, "zero queue")

	conf = configuration()
	conf.Retries = -1
	_, err = pipeline.New(log, conf, s, m, c, nil)
	assert.Equal(t, fault.ErrInvalidRetryCount, err, "negative retries")
}

// N payloads give a chain of N+1 blocks in production order
func TestOrdering(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	source := mocks.NewMockSource(ctl)
	calls := make([]*gomock.Call, 0, len(fixtures.Payloads)+1)
	for _, p := range fixtures.Payloads {
		calls = append(calls, source.EXPECT().Next().Return(p, nil).Times(1))
	}
	calls = append(calls, source.EXPECT().Next().Return("", fault.ErrSourceExhausted).Times(1))
	gomock.InOrder(calls...)

	c := newChain(t)
	bus := messagebus.New()
	listener := bus.Chan(len(fixtures.Payloads) + 1)

	p, err := pipeline.New(logger.New(fixtures.LogCategory), configuration(), source, newMiner(t), c, bus)
	require.Nil(t, err, "new pipeline")
	assert.Equal(t, pipeline.Idle, p.State(), "initial state")

	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	assert.Equal(t, pipeline.Stopped, p.State(), "final state")
	assert.Equal(t, len(fixtures.Payloads)+1, c.Length(), "chain length")
	assert.Nil(t, c.Validate(), "validate")

	blocks := c.Blocks()
	assert.Equal(t, "genesis", blocks[0].Payload, "genesis payload")
	for i, expected := range fixtures.Payloads {
		assert.Equal(t, expected, blocks[i+1].Payload, "order")
		assert.Equal(t, uint64(i+1), blocks[i+1].Index, "index")
	}

	s := p.Statistics()
	assert.Equal(t, uint64(len(fixtures.Payloads)+1), s.Blocks, "blocks")
	assert.Equal(t, uint64(0), s.Rejections, "rejections")
	assert.Equal(t, uint64(0), s.Pending, "pending")

	for i := 0; i <= len(fixtures.Payloads); i += 1 {
		m := <-listener
		assert.Equal(t, pipeline.BlockCommand, m.Command, "command")
		assert.Equal(t, blocks[i], m.Block, "broadcast block")
	}

	assert.Equal(t, fault.ErrAlreadyStarted, p.Start(), "restart")
	assert.Nil(t, p.Stop(), "stop after stopped")
}

// blank genesis takes the first payload from the source
func TestGenesisFromSource(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	source := mocks.NewMockSource(ctl)
	gomock.InOrder(
		source.EXPECT().Next().Return("first", nil).Times(1),
		source.EXPECT().Next().Return("", fault.ErrSourceExhausted).Times(1),
	)

	c := newChain(t)
	conf := configuration()
	conf.Genesis = ""

	p, err := pipeline.New(logger.New(fixtures.LogCategory), conf, source, newMiner(t), c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	require.Equal(t, 1, c.Length(), "chain length")
	assert.Equal(t, "first", c.Tip().Payload, "genesis payload")
}

func TestGenesisSourceExhausted(t *testing.T) {
	conf := configuration()
	conf.Genesis = ""

	p, err := pipeline.New(logger.New(fixtures.LogCategory), conf, payload.NewList(nil), newMiner(t), newChain(t), nil)
	require.Nil(t, err, "new pipeline")

	assert.Equal(t, fault.ErrSourceExhausted, p.Start(), "start")
	assert.Equal(t, pipeline.Idle, p.State(), "state")
	assert.Equal(t, fault.ErrNotStarted, p.Stop(), "stop")
	assert.Equal(t, fault.ErrNotStarted, p.Wait(), "wait")
}

// an existing chain is extended rather than given a new genesis
func TestExtendExistingChain(t *testing.T) {
	c := newChain(t)
	m := newMiner(t)

	genesis, err := m.Mine(0, "existing", blockdigest.Digest{})
	require.Nil(t, err, "mine")
	require.Nil(t, c.Append(genesis), "append")

	p, err := pipeline.New(logger.New(fixtures.LogCategory), configuration(), payload.NewList([]string{"next"}), m, c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	blocks := c.Blocks()
	require.Equal(t, 2, len(blocks), "chain length")
	assert.Equal(t, "existing", blocks[0].Payload, "genesis replaced")
	assert.Equal(t, "next", blocks[1].Payload, "payload")
}

// continuous source runs until stopped
func TestStop(t *testing.T) {
	source, err := payload.NewRandom(30)
	require.Nil(t, err, "random source")

	conf := configuration()
	conf.Interval = time.Millisecond

	c := newChain(t)
	p, err := pipeline.New(logger.New(fixtures.LogCategory), conf, source, newMiner(t), c, nil)
	require.Nil(t, err, "new pipeline")

	assert.Equal(t, fault.ErrNotStarted, p.Stop(), "stop before start")

	require.Nil(t, p.Start(), "start")
	assert.Equal(t, pipeline.Running, p.State(), "state")
	time.Sleep(50 * time.Millisecond)

	require.Nil(t, p.Stop(), "stop")
	assert.Equal(t, pipeline.Stopped, p.State(), "state")

	length := c.Length()
	assert.True(t, length > 1, "no blocks mined")
	assert.Nil(t, c.Validate(), "validate")

	s := p.Statistics()
	assert.Equal(t, uint64(length), s.Blocks, "blocks")
	assert.Equal(t, uint64(0), s.Pending, "pending")

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, length, c.Length(), "chain grew after stop")
}

// miner that waits on a gate before each search
type gatedMiner struct {
	gate  chan struct{}
	miner *mine.Miner
}

func (g *gatedMiner) Mine(index uint64, data string, previous blockdigest.Digest) (*blockrecord.Block, error) {
	<-g.gate
	return g.miner.Mine(index, data, previous)
}

// queued payloads are still mined after Stop
func TestDraining(t *testing.T) {
	c := newChain(t)
	m := newMiner(t)

	genesis, err := m.Mine(0, "genesis", blockdigest.Digest{})
	require.Nil(t, err, "mine")
	require.Nil(t, c.Append(genesis), "append")

	source, err := payload.NewRandom(10)
	require.Nil(t, err, "random source")

	gate := make(chan struct{})
	p, err := pipeline.New(logger.New(fixtures.LogCategory), configuration(), source, &gatedMiner{gate: gate, miner: m}, c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")

	// consumer holds one payload and the queue is full
	assert.Eventually(t, func() bool {
		return p.Statistics().Pending >= 3
	}, time.Second, time.Millisecond, "queue did not fill")

	stopped := make(chan struct{})
	go func() {
		_ = p.Stop()
		close(stopped)
	}()

	assert.Eventually(t, func() bool {
		return pipeline.Draining == p.State()
	}, time.Second, time.Millisecond, "not draining")

	pending := p.Statistics().Pending
	close(gate)
	<-stopped

	assert.Equal(t, pipeline.Stopped, p.State(), "state")
	assert.Equal(t, int(pending)+1, c.Length(), "queued payloads lost")
	assert.Nil(t, c.Validate(), "validate")
}

// miner whose nonce space is exhausted unless the payload is salted twice
type saltMiner struct {
	miner    *mine.Miner
	payloads []string
}

func (s *saltMiner) Mine(index uint64, data string, previous blockdigest.Digest) (*blockrecord.Block, error) {
	s.payloads = append(s.payloads, data)
	if "genesis" != data && !strings.HasSuffix(data, "/2") {
		return nil, fault.ErrNonceSpaceExhausted
	}
	return s.miner.Mine(index, data, previous)
}

func TestRetrySalted(t *testing.T) {
	c := newChain(t)
	miner := &saltMiner{miner: newMiner(t)}

	p, err := pipeline.New(logger.New(fixtures.LogCategory), configuration(), payload.NewList([]string{"data"}), miner, c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	assert.Equal(t, []string{"genesis", "data", "data/1", "data/2"}, miner.payloads, "retries")
	require.Equal(t, 2, c.Length(), "chain length")
	assert.Equal(t, "data/2", c.Tip().Payload, "salted payload")
}

func TestRetriesExhausted(t *testing.T) {
	c := newChain(t)
	miner := &saltMiner{miner: newMiner(t)}

	conf := configuration()
	conf.Retries = 1

	p, err := pipeline.New(logger.New(fixtures.LogCategory), conf, payload.NewList([]string{"data", "genesis"}), miner, c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	// "data" is skipped and the pipeline carries on
	assert.Equal(t, uint64(1), p.Statistics().Skipped, "skipped")
	assert.Equal(t, []string{"genesis", "data", "data/1", "genesis"}, miner.payloads, "attempts")
	assert.Equal(t, 2, c.Length(), "chain length")
}

// miner that produces a block for the wrong position once
type misplacedMiner struct {
	miner *mine.Miner
}

func (m *misplacedMiner) Mine(index uint64, data string, previous blockdigest.Digest) (*blockrecord.Block, error) {
	if "bad" == data {
		index += 5
	}
	return m.miner.Mine(index, data, previous)
}

// a rejected append does not stop the pipeline
func TestRejectionContinues(t *testing.T) {
	c := newChain(t)
	items := []string{"one", "bad", "two"}

	p, err := pipeline.New(logger.New(fixtures.LogCategory), configuration(), payload.NewList(items), &misplacedMiner{miner: newMiner(t)}, c, nil)
	require.Nil(t, err, "new pipeline")
	require.Nil(t, p.Start(), "start")
	require.Nil(t, p.Wait(), "wait")

	s := p.Statistics()
	assert.Equal(t, uint64(1), s.Rejections, "rejections")
	assert.Equal(t, uint64(3), s.Blocks, "blocks")

	blocks := c.Blocks()
	require.Equal(t, 3, len(blocks), "chain length")
	assert.Equal(t, "one", blocks[1].Payload, "first")
	assert.Equal(t, "two", blocks[2].Payload, "after rejection")
	assert.Nil(t, c.Validate(), "validate")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Idle", pipeline.Idle.String(), "idle")
	assert.Equal(t, "Running", pipeline.Running.String(), "running")
	assert.Equal(t, "Draining", pipeline.Draining.String(), "draining")
	assert.Equal(t, "Stopped", pipeline.Stopped.String(), "stopped")
	assert.Equal(t, "*Unknown*", pipeline.State(99).String(), "unknown")
}
