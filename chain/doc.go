// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - in memory block chain
//
// blocks are stored by value, readers always receive copies so a
// block in the chain can never be changed after it is appended
package chain
