// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/fault"
)

type consumer struct {
	log   *logger.L
	queue <-chan job
}

// Run - mine queued payloads in order until the queue is closed
//
// shutdown is not watched here: closing the queue is the signal, so
// everything already queued is still mined
func (cons *consumer) Run(args interface{}, shutdown <-chan struct{}) {

	p := args.(*Pipeline)
	log := cons.log

	log.Info("starting…")

loop:
	for {
		j, ok := <-cons.queue
		if !ok {
			log.Infof("queue: %s", fault.ErrChannelClosed)
			break loop
		}

		// failures are logged and counted by process
		_ = p.process(log, j)
		p.pending.Decrement()
	}

	log.Info("shutting down…")
	log.Info("finished")
	log.Flush()
}
