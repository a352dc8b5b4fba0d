// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrAlreadyStarted       = ExistsError("already started")
	ErrBadIndex             = RecordError("block index out of sequence")
	ErrBadLinkage           = RecordError("previous block digest does not match")
	ErrBelowDifficulty      = RecordError("block digest does not meet difficulty")
	ErrBlockNotFound        = NotFoundError("block not found")
	ErrChannelClosed        = ProcessError("channel closed")
	ErrHashMismatch         = RecordError("block digest does not match its contents")
	ErrInvalidCharacter     = InvalidError("invalid character")
	ErrInvalidDifficulty    = InvalidError("invalid difficulty")
	ErrInvalidInterval      = InvalidError("invalid interval")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidNonce         = InvalidError("invalid nonce")
	ErrInvalidPayloadLength = InvalidError("invalid payload length")
	ErrInvalidQueueSize     = InvalidError("invalid queue size")
	ErrInvalidRetryCount    = InvalidError("invalid retry count")
	ErrInvalidStructPointer = InvalidError("invalid struct pointer")
	ErrInvalidThreadCount   = InvalidError("invalid thread count")
	ErrMissingParameters    = InvalidError("missing parameters")
	ErrNonceSpaceExhausted  = ProcessError("nonce space exhausted")
	ErrNotADigest           = LengthError("not a digest")
	ErrNotStarted           = NotFoundError("not started")
	ErrPayloadTooLarge      = LengthError("payload too large")
	ErrSourceExhausted      = NotFoundError("payload source exhausted")
	ErrUnknownHashAlgorithm = NotFoundError("unknown hash algorithm")
	ErrUnknownPayloadSource = NotFoundError("unknown payload source")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
