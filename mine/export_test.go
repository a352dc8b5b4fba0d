// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mine

import (
	"github.com/bitmark-inc/blockminer/blockrecord"
)

// SetMaximumNonce - shrink the nonce space so exhaustion can be tested
func SetMaximumNonce(m *Miner, maximum blockrecord.NonceType) {
	m.maximum = maximum
}
