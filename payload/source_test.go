// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload_test

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/fault"
	"github.com/bitmark-inc/blockminer/payload"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestRandom(t *testing.T) {
	s, err := payload.NewRandom(30)
	require.Nil(t, err, "new random")

	seen := make(map[string]struct{})
	for i := 0; i < 50; i += 1 {
		p, err := s.Next()
		require.Nil(t, err, "next")
		assert.Equal(t, 30, len(p), "length")
		assert.True(t, alphanumeric.MatchString(p), "not alphanumeric: %q", p)
		seen[p] = struct{}{}
	}
	assert.Equal(t, 50, len(seen), "repeated payload")
}

func TestRandomInvalid(t *testing.T) {
	_, err := payload.NewRandom(0)
	assert.Equal(t, fault.ErrInvalidPayloadLength, err, "zero length")

	_, err = payload.NewRandom(blockrecord.MaximumPayloadSize + 1)
	assert.Equal(t, fault.ErrPayloadTooLarge, err, "oversize")
}

func TestUUID(t *testing.T) {
	s := payload.NewUUID()
	p, err := s.Next()
	require.Nil(t, err, "next")

	u, err := uuid.Parse(p)
	assert.Nil(t, err, "not a uuid: %q", p)
	assert.Equal(t, uuid.Version(4), u.Version(), "version")
}

func TestList(t *testing.T) {
	items := []string{"one", "two", "three"}
	s := payload.NewList(items)
	items[0] = "changed"

	for _, expected := range []string{"one", "two", "three"} {
		p, err := s.Next()
		assert.Nil(t, err, "next")
		assert.Equal(t, expected, p, "order")
	}

	_, err := s.Next()
	assert.Equal(t, fault.ErrSourceExhausted, err, "exhausted")
	_, err = s.Next()
	assert.Equal(t, fault.ErrSourceExhausted, err, "still exhausted")
}

func TestNew(t *testing.T) {
	s, err := payload.New("", 8)
	require.Nil(t, err, "default source")
	p, _ := s.Next()
	assert.Equal(t, 8, len(p), "random by default")

	s, err = payload.New("UUID", 0)
	require.Nil(t, err, "uuid source")
	p, _ = s.Next()
	assert.Equal(t, 36, len(p), "uuid length")

	_, err = payload.New("lorem", 8)
	assert.Equal(t, fault.ErrUnknownPayloadSource, err, "unknown source")
}
