// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mine - brute force proof of work
//
// a call to Mine runs to completion, there is no interruption of a
// search in progress
package mine
