// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

import (
	"sync"
)

// the shutdown and completed type for a background
type shutdown struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle type
type T struct {
	s    []shutdown
	once sync.Once
}

// Process - type signature for background process
//
// Run must return soon after shutdown is closed, it may also return
// earlier on its own
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		s: make([]shutdown, len(processes)),
	}

	// start each background
	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		register.s[i].shutdown = shutdown
		register.s[i].finished = finished
		go func(p Process) {
			p.Run(args, shutdown)
			close(finished)
		}(p)
	}
	return register
}

// Stop - signal all processes to shut down and wait for them
//
// safe to call more than once
func (t *T) Stop() {

	// shutdown all background tasks
	t.once.Do(func() {
		for _, shutdown := range t.s {
			close(shutdown.shutdown)
		}
	})

	t.Wait()
}

// Wait - wait for all processes to return without signalling them
func (t *T) Wait() {
	for _, shutdown := range t.s {
		<-shutdown.finished
	}
}
