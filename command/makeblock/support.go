// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lukechampine.com/uint128"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/difficulty"
	"github.com/bitmark-inc/blockminer/fault"
)

// common errors - keep in alphabetic order
const (
	ErrEmptyPayload = fault.InvalidError("empty payload")
)

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// blank means the all zero digest of a genesis block
func parsePrevious(s string) (blockdigest.Digest, error) {
	var previous blockdigest.Digest
	if "" == s {
		return previous, nil
	}
	err := previous.UnmarshalText([]byte(s))
	return previous, err
}

func parseNonce(s string) (blockrecord.NonceType, error) {
	n, err := uint128.FromString(s)
	if nil != err {
		return blockrecord.NonceType{}, err
	}
	return blockrecord.NonceType(n), nil
}

// open a file or standard input for "-"
func openInput(fileName string) (io.ReadCloser, error) {
	if "-" == fileName {
		return os.Stdin, nil
	}
	return os.Open(fileName)
}

func decodeBlock(r io.Reader) (*blockrecord.Block, error) {
	block := &blockrecord.Block{}
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(block); nil != err {
		return nil, err
	}
	return block, nil
}

// both checks a chain would make of a block without its predecessor
func verifyBlock(block *blockrecord.Block, d difficulty.Difficulty, hasher blockdigest.Hasher) error {
	if err := blockrecord.ValidCommitment(hasher, block); nil != err {
		return err
	}
	return blockrecord.ValidDifficulty(d, block.Hash)
}
