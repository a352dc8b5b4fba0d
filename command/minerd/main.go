// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/background"
	"github.com/bitmark-inc/blockminer/chain"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/messagebus"
	"github.com/bitmark-inc/blockminer/mine"
	"github.com/bitmark-inc/blockminer/payload"
	"github.com/bitmark-inc/blockminer/pipeline"
	blockminerVersion "github.com/bitmark-inc/blockminer/version"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = blockminerVersion.Version

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "json", HasArg: getoptions.NO_ARGUMENT, Short: 'j'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	quiet := len(options["quiet"]) > 0
	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// last chance logging for panics
	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("hash: %s", theConfiguration.Hash)
	log.Infof("difficulty: %s", theConfiguration.difficulty)
	log.Infof("threads: %d", theConfiguration.Mining.Threads)

	theChain, err := chain.New(logger.New("chain"), theConfiguration.difficulty, theConfiguration.hasher)
	if nil != err {
		log.Criticalf("chain initialise error: %s", err)
		exitwithstatus.Message("chain initialise error: %s", err)
	}

	miner, err := mine.New(logger.New("miner"), theConfiguration.difficulty, theConfiguration.hasher, theConfiguration.Mining.Threads)
	if nil != err {
		log.Criticalf("miner initialise error: %s", err)
		exitwithstatus.Message("miner initialise error: %s", err)
	}

	source, err := payload.New(theConfiguration.Pipeline.PayloadSource, theConfiguration.Pipeline.PayloadLength)
	if nil != err {
		log.Criticalf("payload source initialise error: %s", err)
		exitwithstatus.Message("payload source initialise error: %s", err)
	}

	bus := messagebus.New()
	defer bus.Close()

	// console output of each new block
	var printers *background.T
	if !quiet {
		printers = background.Start(background.Processes{
			&printer{
				log:    logger.New("printer"),
				out:    os.Stdout,
				asJSON: len(options["json"]) > 0,
				queue:  bus.Chan(16),
			},
		}, nil)
	}

	conf := pipeline.Configuration{
		Interval:  theConfiguration.interval,
		QueueSize: theConfiguration.Pipeline.QueueSize,
		Retries:   theConfiguration.Mining.Retries,
		Genesis:   theConfiguration.Pipeline.Genesis,
	}
	p, err := pipeline.New(logger.New("pipeline"), conf, source, miner, theChain, bus)
	if nil != err {
		log.Criticalf("pipeline initialise error: %s", err)
		exitwithstatus.Message("pipeline initialise error: %s", err)
	}

	err = p.Start()
	if nil != err {
		log.Criticalf("pipeline start error: %s", err)
		exitwithstatus.Message("pipeline start error: %s", err)
	}

	// wait for CTRL-C before shutting down
	if !quiet {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…\n\n")
	}

	// pipeline stops on its own if the source runs out
	stopped := make(chan struct{})
	go func() {
		_ = p.Wait()
		close(stopped)
	}()

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-ch:
		log.Infof("received signal: %v", sig)
		if !quiet {
			fmt.Printf("\nreceived signal: %v\n", sig)
			fmt.Printf("\nshutting down…\n")
		}
	case <-stopped:
		log.Info("pipeline stopped")
	}

	log.Info("shutting down…")

	err = p.Stop()
	if nil != err {
		log.Errorf("pipeline stop error: %s", err)
	}
	if nil != printers {
		printers.Stop()
	}

	s := p.Statistics()
	log.Infof("blocks: %d  rejections: %d  skipped: %d  hash attempts: %d  dropped output: %d",
		s.Blocks, s.Rejections, s.Skipped, miner.Attempts(), bus.Dropped())

	if err := theChain.Validate(); nil != err {
		fault.Criticalf("chain validation error: %s", err)
	} else {
		log.Infof("chain valid, length: %d", theChain.Length())
	}
}
