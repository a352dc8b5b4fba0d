// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payload

import (
	"crypto/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bitmark-inc/blockminer/blockrecord"
	"github.com/bitmark-inc/blockminer/fault"
)

//go:generate mockgen -destination=mocks/source.go -package=mocks github.com/bitmark-inc/blockminer/payload Source

// Source - produce one opaque payload on demand
//
// fault.ErrSourceExhausted means no more payloads will be produced
type Source interface {
	Next() (string, error)
}

// names of the configurable sources
const (
	Random = "random"
	UUID   = "uuid"
)

// New - create a source from its configuration name
//
// length only applies to the random source
func New(name string, length int) (Source, error) {
	switch strings.ToLower(name) {
	case "", Random:
		return NewRandom(length)
	case UUID:
		return NewUUID(), nil
	default:
		return nil, fault.ErrUnknownPayloadSource
	}
}

// the characters of a random payload
const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// rejecting bytes at or above this keeps every character equally likely
const acceptBelow = 256 - 256%len(alphanumeric)

type randomSource struct {
	length int
}

// NewRandom - fixed length random alphanumeric strings
func NewRandom(length int) (Source, error) {
	if length < 1 {
		return nil, fault.ErrInvalidPayloadLength
	}
	if length > blockrecord.MaximumPayloadSize {
		return nil, fault.ErrPayloadTooLarge
	}
	return &randomSource{length: length}, nil
}

func (s *randomSource) Next() (string, error) {
	result := make([]byte, 0, s.length)
	buffer := make([]byte, s.length)

	for len(result) < s.length {
		_, err := rand.Read(buffer)
		if nil != err {
			return "", err
		}
		for _, b := range buffer {
			if int(b) >= acceptBelow {
				continue
			}
			result = append(result, alphanumeric[int(b)%len(alphanumeric)])
			if len(result) == s.length {
				break
			}
		}
	}
	return string(result), nil
}

type uuidSource struct{}

// NewUUID - random version 4 UUID strings
func NewUUID() Source {
	return uuidSource{}
}

func (uuidSource) Next() (string, error) {
	u, err := uuid.NewRandom()
	if nil != err {
		return "", err
	}
	return u.String(), nil
}

type listSource struct {
	sync.Mutex
	items []string
	next  int
}

// NewList - the given payloads in order, then fault.ErrSourceExhausted
func NewList(items []string) Source {
	return &listSource{
		items: append([]string{}, items...),
	}
}

func (s *listSource) Next() (string, error) {
	s.Lock()
	defer s.Unlock()

	if s.next >= len(s.items) {
		return "", fault.ErrSourceExhausted
	}
	item := s.items[s.next]
	s.next += 1
	return item, nil
}
