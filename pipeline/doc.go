// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pipeline - feed payloads from a source through the miner
// into the chain
//
// a producer takes one payload from the source per interval and
// sends it to a bounded queue, blocking while the queue is full. A
// single consumer mines each payload in order and appends the block.
//
// Stop closes the producer side, any payloads already queued are
// still mined before the pipeline reaches Stopped.
package pipeline
