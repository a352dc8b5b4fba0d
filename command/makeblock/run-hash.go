// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
)

func runHash(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	previous, err := parsePrevious(c.String("previous"))
	if nil != err {
		return err
	}

	nonce, err := parseNonce(c.String("nonce"))
	if nil != err {
		return err
	}

	hasher, err := blockdigest.HasherFor(c.String("hash"))
	if nil != err {
		return err
	}

	packed := blockrecord.Pack(c.Uint64("index"), c.String("payload"), previous, nonce)
	if m.verbose {
		fmt.Fprintf(m.e, "packed: %x\n", packed)
	}

	fmt.Fprintf(m.w, "%s\n", packed.Digest(hasher))
	return nil
}
