// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"encoding/binary"

	"github.com/bitmark-inc/blockminer/blockdigest"
	"github.com/bitmark-inc/blockminer/fault"
)

// packed records are just a byte slice
//
// layout, all integers little endian:
//   index          8 bytes
//   payload length 8 bytes
//   payload        variable
//   previous hash  32 bytes
//   nonce          16 bytes
//
// the nonce is last so that a miner can overwrite it in place
type PackedBlock []byte

// MaximumPayloadSize - largest payload accepted into a block
const MaximumPayloadSize = 1 << 20

// byte sizes for the fixed fields
const (
	IndexSize         = 8                  // position in chain
	PayloadLengthSize = 8                  // count of payload bytes
	PreviousHashSize  = blockdigest.Length // digest of the preceding block
	NonceSize         = 16                 // 128 bit proof of work search variable

	fixedSize = IndexSize + PayloadLengthSize + PreviousHashSize + NonceSize
)

// Pack - canonical serialisation of the committed fields
//
// the block's own hash is never part of this
func Pack(index uint64, payload string, previous blockdigest.Digest, nonce NonceType) PackedBlock {
	if len(payload) > MaximumPayloadSize {
		fault.Panicf("blockrecord: pack payload of %d bytes exceeds %d", len(payload), MaximumPayloadSize)
	}

	buffer := make([]byte, fixedSize+len(payload))

	binary.LittleEndian.PutUint64(buffer[0:], index)
	binary.LittleEndian.PutUint64(buffer[IndexSize:], uint64(len(payload)))

	n := IndexSize + PayloadLengthSize
	n += copy(buffer[n:], payload)
	n += copy(buffer[n:], previous[:])

	PackedBlock(buffer).SetNonce(nonce)
	return buffer
}

// SetNonce - overwrite the nonce of a packed record
func (record PackedBlock) SetNonce(nonce NonceType) {
	nonce.PutBytes(record[len(record)-NonceSize:])
}

// Digest - hash of the packed record
func (record PackedBlock) Digest(hasher blockdigest.Hasher) blockdigest.Digest {
	return hasher(record)
}

// Unpack - recover the committed fields from a packed record
func (record PackedBlock) Unpack() (*Block, error) {
	if len(record) < fixedSize {
		return nil, fault.ErrInvalidPayloadLength
	}

	index := binary.LittleEndian.Uint64(record[0:])
	length := binary.LittleEndian.Uint64(record[IndexSize:])
	if length > MaximumPayloadSize {
		return nil, fault.ErrPayloadTooLarge
	}
	if uint64(len(record)-fixedSize) != length {
		return nil, fault.ErrInvalidPayloadLength
	}

	n := IndexSize + PayloadLengthSize
	payload := string(record[n : n+int(length)])
	n += int(length)

	block := &Block{
		Index:   index,
		Payload: payload,
	}
	err := blockdigest.DigestFromBytes(&block.PreviousHash, record[n:n+PreviousHashSize])
	if nil != err {
		return nil, err
	}
	block.Nonce = NonceFromBytes(record[n+PreviousHashSize:])

	return block, nil
}

// Commitment - the hash commitment of a block's fields
//
// a pure function: the same fields always give the same digest
func Commitment(hasher blockdigest.Hasher, index uint64, payload string, previous blockdigest.Digest, nonce NonceType) blockdigest.Digest {
	return Pack(index, payload, previous, nonce).Digest(hasher)
}
