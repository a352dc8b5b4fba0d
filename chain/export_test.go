// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"github.com/bitmark-inc/blockminer/blockrecord"
)

// Corrupt - modify a stored block in place, bypassing Append
func Corrupt(c *Chain, index int, modify func(block *blockrecord.Block)) {
	c.Lock()
	defer c.Unlock()
	modify(&c.blocks[index])
}
