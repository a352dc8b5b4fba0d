// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"fmt"
)

// ValidationError - first invalid block found by Validate
type ValidationError struct {
	Index uint64
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block: %d  %s", e.Index, e.Err)
}

// Unwrap - the underlying fault, for errors.Is
func (e *ValidationError) Unwrap() error {
	return e.Err
}
