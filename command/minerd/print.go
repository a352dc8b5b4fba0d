// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"io"

	"github.com/bitmark-inc/logger"
	"github.com/fatih/color"

	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/messagebus"
	"github.com/bitmark-inc/blockminer/pipeline"
)

var (
	headingColour = color.New(color.FgGreen, color.Bold)
	digestColour  = color.New(color.FgCyan)
	payloadColour = color.New(color.FgYellow)
)

// print each appended block as it arrives on the bus
type printer struct {
	log    *logger.L
	out    io.Writer
	asJSON bool
	queue  <-chan messagebus.Message
}

func (p *printer) Run(args interface{}, shutdown <-chan struct{}) {

	log := p.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-p.queue:
			if !ok {
				break loop
			}
			if pipeline.BlockCommand != item.Command {
				log.Warnf("unexpected command: %q", item.Command)
				continue loop
			}
			p.print(&item.Block)
		}
	}

	log.Info("shutting down…")
	log.Flush()
}

func (p *printer) print(block *blockrecord.Block) {
	if p.asJSON {
		buffer, err := json.Marshal(block)
		fault.PanicIfError("printer: JSON encode", err)
		_, _ = p.out.Write(append(buffer, '\n'))
		return
	}

	_, _ = headingColour.Fprintf(p.out, "block: %d  nonce: %s\n", block.Index, block.Nonce)
	_, _ = digestColour.Fprintf(p.out, "  previous: %s\n      hash: %s\n", block.PreviousHash, block.Hash)
	_, _ = payloadColour.Fprintf(p.out, "   payload: %q\n", block.Payload)
}
