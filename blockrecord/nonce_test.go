// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/fault"
)

// test JSON conversion
func TestNonceJSON(t *testing.T) {

	nonces := []blockrecord.NonceType{
		blockrecord.NewNonce(0),
		blockrecord.NewNonce(0x1234567890abcdef),
		blockrecord.MaximumNonce,
	}

	for i, expected := range nonces {

		buffer, err := json.Marshal(expected)
		if nil != err {
			t.Fatalf("%d: JSON encode error: %s", i, err)
		}

		var actual blockrecord.NonceType
		err = json.Unmarshal(buffer, &actual)
		if nil != err {
			t.Fatalf("%d: JSON decode error: %s", i, err)
		}

		if actual != expected {
			t.Errorf("%d: JSON actual: %s  expected: %s", i, actual, expected)
		}
	}

	buffer, _ := json.Marshal(blockrecord.MaximumNonce)
	assert.Equal(t, `"340282366920938463463374607431768211455"`, string(buffer), "maximum nonce")
}

func TestNonceJSONInvalid(t *testing.T) {
	var nonce blockrecord.NonceType

	err := json.Unmarshal([]byte(`12`), &nonce)
	assert.Equal(t, fault.ErrInvalidCharacter, err, "unquoted nonce")

	err = nonce.UnmarshalJSON([]byte(`"xyz"`))
	assert.Equal(t, fault.ErrInvalidNonce, err, "non-decimal nonce")

	err = nonce.UnmarshalJSON([]byte(`"340282366920938463463374607431768211456"`))
	assert.Equal(t, fault.ErrInvalidNonce, err, "nonce beyond 128 bits")
}

func TestNonceAdd(t *testing.T) {
	n, overflow := blockrecord.NewNonce(10).Add(5)
	assert.False(t, overflow, "unexpected overflow")
	assert.Equal(t, blockrecord.NewNonce(15), n, "wrong sum")

	// carry into the upper 64 bits
	n, overflow = blockrecord.NewNonce(^uint64(0)).Add(1)
	assert.False(t, overflow, "unexpected overflow")
	assert.Equal(t, "18446744073709551616", n.String(), "no carry")

	n, overflow = blockrecord.MaximumNonce.Add(1)
	assert.True(t, overflow, "wrap not detected")
	assert.Equal(t, blockrecord.NewNonce(0), n, "wrong wrap")

	assert.Equal(t, -1, blockrecord.NewNonce(1).Cmp(blockrecord.NewNonce(2)), "compare")
}
