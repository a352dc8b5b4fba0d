// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - broadcast of appended blocks to any number of
// listeners
//
// a sender is never blocked: a listener whose buffer is full misses
// the message and the drop is counted
package messagebus
