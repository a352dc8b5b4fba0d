// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/mine"
)

func runMine(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	payload := c.String("payload")
	if "" == payload {
		return ErrEmptyPayload
	}

	previous, err := parsePrevious(c.String("previous"))
	if nil != err {
		return err
	}

	hasher, err := blockdigest.HasherFor(c.String("hash"))
	if nil != err {
		return err
	}

	d, err := difficulty.New(c.Int("zero-bits"))
	if nil != err {
		return err
	}

	miner, err := mine.New(logger.New("miner"), d, hasher, c.Int("threads"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "difficulty: %s\n", d)
	}

	start := time.Now()
	block, err := miner.Mine(c.Uint64("index"), payload, previous)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "attempts: %d  elapsed: %s\n", miner.Attempts(), time.Since(start))
	}

	return printJson(m.w, block)
}
