// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pipeline

// State - type to hold the pipeline state
type State int

// all possible states
//
//   Idle -> Running -> Draining -> Stopped
//                   -> Stopped
const (
	Idle State = iota
	Running
	Draining
	Stopped
)

// current state represented as a string
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "*Unknown*"
	}
}
