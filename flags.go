// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package pna

import (
	"sync/atomic"

	"github.com/chantsune/pna/log"
)

type atomicBool int32

func (b *atomicBool) isSet() bool { return atomic.LoadInt32((*int32)(b)) != 0 }
func (b *atomicBool) setTrue()    { atomic.StoreInt32((*int32)(b), 1) }
func (b *atomicBool) setFalse()   { atomic.StoreInt32((*int32)(b), 0) }

// -----------------------------------------------------------------------------

var strictMode atomicBool

// InStrictMode returns the strict-decoding flag status.
func InStrictMode() bool {
	return strictMode.isSet()
}

// SetStrictMode sets the flag reported by InStrictMode and returns a
// function to revert the configuration. No decoder in this module reads the
// flag, so it does not change how any chunk is decoded.
//
// Calling this method multiple times once the flag is enabled produces no
// effect.
func SetStrictMode() (revert func()) {
	if strictMode.isSet() {
		return func() {}
	}

	strictMode.setTrue()
	log.Level(log.DebugLevel).Message("pna: strict decoding mode enabled")

	return func() {
		strictMode.setFalse()
		log.Level(log.DebugLevel).Message("pna: strict decoding mode disabled")
	}
}
