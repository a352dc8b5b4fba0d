// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/difficulty"
)

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	hasher, err := blockdigest.HasherFor(c.String("hash"))
	if nil != err {
		return err
	}

	d, err := difficulty.New(c.Int("zero-bits"))
	if nil != err {
		return err
	}

	input, err := openInput(c.String("file"))
	if nil != err {
		return err
	}
	defer input.Close()

	block, err := decodeBlock(input)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "block: %d  hash: %s\n", block.Index, block.Hash)
	}

	if err := verifyBlock(block, d, hasher); nil != err {
		return err
	}

	fmt.Fprintf(m.w, "ok\n")
	return nil
}
