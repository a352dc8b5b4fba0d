// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"

	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/counter"
)

// Message - item delivered to listeners
type Message struct {
	Command string
	Block   blockrecord.Block
}

// Broadcast - fan out of messages
type Broadcast struct {
	sync.RWMutex
	listeners map[<-chan Message]chan Message
	closed    bool
	dropped   counter.Counter
}

// New - create an empty broadcast
func New() *Broadcast {
	return &Broadcast{
		listeners: make(map[<-chan Message]chan Message),
	}
}

// Chan - register a listener with a buffer of size messages
//
// after Close the channel returned is already closed
func (b *Broadcast) Chan(size int) <-chan Message {
	if size < 0 {
		size = 0
	}
	c := make(chan Message, size)

	b.Lock()
	defer b.Unlock()

	if b.closed {
		close(c)
		return c
	}
	b.listeners[c] = c
	return c
}

// Release - unregister a listener and close its channel
func (b *Broadcast) Release(c <-chan Message) {
	b.Lock()
	defer b.Unlock()

	if l, ok := b.listeners[c]; ok {
		delete(b.listeners, c)
		close(l)
	}
}

// Send - deliver to every listener that has room
func (b *Broadcast) Send(command string, block blockrecord.Block) {
	m := Message{
		Command: command,
		Block:   block,
	}

	b.RLock()
	defer b.RUnlock()

	for _, l := range b.listeners {
		select {
		case l <- m:
		default:
			b.dropped.Increment()
		}
	}
}

// Close - close all listener channels, later sends go nowhere
func (b *Broadcast) Close() {
	b.Lock()
	defer b.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for c, l := range b.listeners {
		delete(b.listeners, c)
		close(l)
	}
}

// Dropped - count of messages a listener missed
func (b *Broadcast) Dropped() uint64 {
	return b.dropped.Uint64()
}
