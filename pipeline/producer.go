// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/payload"
)

type producer struct {
	log      *logger.L
	source   payload.Source
	interval time.Duration
	queue    chan<- job
}

// Run - take payloads from the source at a fixed rate
//
// a full queue blocks the producer, only shutdown or an exhausted
// source end the loop, and the queue is closed on return
func (prod *producer) Run(args interface{}, shutdown <-chan struct{}) {

	p := args.(*Pipeline)
	log := prod.log

	log.Info("starting…")

	defer func() {
		close(prod.queue)
		p.producerDone()
		log.Info("finished")
		log.Flush()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	limit := rate.Inf
	if prod.interval > 0 {
		limit = rate.Every(prod.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		err := limiter.Wait(ctx)
		if nil != err {
			break loop
		}

		data, err := prod.source.Next()
		if fault.ErrSourceExhausted == err {
			log.Info("payload source exhausted")
			break loop
		}
		if nil != err {
			log.Errorf("payload source error: %s", err)
			continue loop
		}

		j := job{
			id:      uuid.New().String(),
			payload: data,
		}

		p.pending.Increment()
		select {
		case prod.queue <- j:
			log.Debugf("job: %s  queued", j.id)
		case <-shutdown:
			p.pending.Decrement()
			log.Infof("job: %s  discarded at shutdown", j.id)
			break loop
		}
	}

	log.Info("shutting down…")
}
