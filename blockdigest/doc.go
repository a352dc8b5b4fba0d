// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockdigest - the 32 byte digest that commits a block
//
// the hash function is chosen once at startup by name, all of the
// available functions produce a fixed 32 byte digest.
package blockdigest
