// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"lukechampine.com/uint128"

	"github.com/bitmark-inc/blockminer/fault"
)

// NonceType - 128 bit proof of work search variable
type NonceType uint128.Uint128

// MaximumNonce - last value of the nonce space
var MaximumNonce = NonceType(uint128.Max)

// NewNonce - nonce from a 64 bit value
func NewNonce(n uint64) NonceType {
	return NonceType(uint128.From64(n))
}

// NonceFromBytes - decode 16 little endian bytes
func NonceFromBytes(b []byte) NonceType {
	return NonceType(uint128.FromBytes(b))
}

// PutBytes - encode as 16 little endian bytes
func (nonce NonceType) PutBytes(b []byte) {
	uint128.Uint128(nonce).PutBytes(b)
}

// Add - advance the nonce by step
//
// returns true in the second value if the addition wrapped around
func (nonce NonceType) Add(step uint64) (NonceType, bool) {
	current := uint128.Uint128(nonce)
	next := current.AddWrap64(step)
	return NonceType(next), next.Cmp(current) < 0
}

// Cmp - compare two nonces
func (nonce NonceType) Cmp(other NonceType) int {
	return uint128.Uint128(nonce).Cmp(uint128.Uint128(other))
}

// String - decimal representation
func (nonce NonceType) String() string {
	return uint128.Uint128(nonce).String()
}

// MarshalJSON - convert a nonce to a decimal string for JSON
func (nonce NonceType) MarshalJSON() ([]byte, error) {
	s := nonce.String()
	buffer := make([]byte, 0, len(s)+2)
	buffer = append(buffer, '"')
	buffer = append(buffer, s...)
	buffer = append(buffer, '"')
	return buffer, nil
}

// UnmarshalJSON - convert a decimal string to a nonce value
func (nonce *NonceType) UnmarshalJSON(s []byte) error {
	// length = '"' + characters + '"'
	last := len(s) - 1
	if last < 1 || '"' != s[0] || '"' != s[last] {
		return fault.ErrInvalidCharacter
	}

	n, err := uint128.FromString(string(s[1:last]))
	if nil != err {
		return fault.ErrInvalidNonce
	}
	*nonce = NonceType(n)
	return nil
}
