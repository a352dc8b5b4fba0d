// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package difficulty - proof of work threshold
//
// a digest satisfies the difficulty when its leading bits are zero,
// this is equivalent to the digest being numerically below Target()
package difficulty
