// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/configuration"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/payload"
	"github.com/bitmark-inc/blockminer/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultHash      = blockdigest.SHA3
	defaultZeroBytes = 2

	defaultThreads = 1
	defaultRetries = 3

	defaultInterval      = "500ms"
	defaultQueueSize     = 4
	defaultPayloadLength = 30
	defaultPayloadSource = payload.Random

	defaultLogDirectory = "log"
	defaultLogFile      = "minerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// path expanded or calculated defaults
var (
	defaultLogLevels = map[string]string{
		logger.DefaultTag: "info",
	}
)

// DifficultyType - leading zeros required of a block digest
type DifficultyType struct {
	ZeroBytes int `gluamapper:"zero_bytes" json:"zero_bytes"`
	ZeroBits  int `gluamapper:"zero_bits" json:"zero_bits"` // overrides bytes if non-zero
}

// MiningType - miner settings
type MiningType struct {
	Threads int `gluamapper:"threads" json:"threads"`
	Retries int `gluamapper:"retries" json:"retries"`
}

// PipelineType - producer settings
type PipelineType struct {
	Interval      string `gluamapper:"interval" json:"interval"`
	QueueSize     int    `gluamapper:"queue_size" json:"queue_size"`
	PayloadLength int    `gluamapper:"payload_length" json:"payload_length"`
	PayloadSource string `gluamapper:"payload_source" json:"payload_source"`
	Genesis       string `gluamapper:"genesis" json:"genesis"`
}

// Configuration - the contents of the configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Hash          string               `gluamapper:"hash" json:"hash"`
	Difficulty    DifficultyType       `gluamapper:"difficulty" json:"difficulty"`
	Mining        MiningType           `gluamapper:"mining" json:"mining"`
	Pipeline      PipelineType         `gluamapper:"pipeline" json:"pipeline"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`

	// validated values
	difficulty difficulty.Difficulty
	hasher     blockdigest.Hasher
	interval   time.Duration
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Hash:          defaultHash,

		Difficulty: DifficultyType{
			ZeroBytes: defaultZeroBytes,
		},

		Mining: MiningType{
			Threads: defaultThreads,
			Retries: defaultRetries,
		},

		Pipeline: PipelineType{
			Interval:      defaultInterval,
			QueueSize:     defaultQueueSize,
			PayloadLength: defaultPayloadLength,
			PayloadSource: defaultPayloadSource,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	if "" != options.PidFile {
		options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)
	}

	// make absolute and create directories if they do not already exist
	if err := util.EnsureDirectory(options.DataDirectory, &options.Logging.Directory); nil != err {
		return nil, err
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// check every value once, nothing is reloaded later
func (options *Configuration) validate() error {

	hasher, err := blockdigest.HasherFor(options.Hash)
	if nil != err {
		return fmt.Errorf("hash: %q  error: %w", options.Hash, err)
	}
	options.hasher = hasher

	if options.Difficulty.ZeroBits > 0 {
		options.difficulty, err = difficulty.New(options.Difficulty.ZeroBits)
	} else {
		options.difficulty, err = difficulty.FromBytes(options.Difficulty.ZeroBytes)
	}
	if nil != err {
		return fmt.Errorf("difficulty: %+v  error: %w", options.Difficulty, err)
	}

	if options.Mining.Threads < 1 {
		return fmt.Errorf("mining threads: %d  error: %w", options.Mining.Threads, fault.ErrInvalidThreadCount)
	}
	if options.Mining.Retries < 0 {
		return fmt.Errorf("mining retries: %d  error: %w", options.Mining.Retries, fault.ErrInvalidRetryCount)
	}

	interval, err := time.ParseDuration(options.Pipeline.Interval)
	if nil != err || interval < 0 {
		return fmt.Errorf("pipeline interval: %q  error: %w", options.Pipeline.Interval, fault.ErrInvalidInterval)
	}
	options.interval = interval

	if options.Pipeline.QueueSize < 1 {
		return fmt.Errorf("pipeline queue size: %d  error: %w", options.Pipeline.QueueSize, fault.ErrInvalidQueueSize)
	}
	if options.Pipeline.PayloadLength < 1 {
		return fmt.Errorf("pipeline payload length: %d  error: %w", options.Pipeline.PayloadLength, fault.ErrInvalidPayloadLength)
	}
	if len(options.Pipeline.Genesis) > blockrecord.MaximumPayloadSize {
		return fmt.Errorf("pipeline genesis: %w", fault.ErrPayloadTooLarge)
	}

	// check the name now, the source itself is created at start
	if _, err := payload.New(options.Pipeline.PayloadSource, options.Pipeline.PayloadLength); nil != err {
		return fmt.Errorf("pipeline payload source: %q  error: %w", options.Pipeline.PayloadSource, err)
	}

	return nil
}
