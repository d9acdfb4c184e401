/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sample

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20"
)

// Deterministic samples pseudo-random values in [0, max) derived from a
// 32-byte seed via the salsa20 keystream, rather than from a CSPRNG. Two
// Deterministic samplers built from the same seed produce the same
// stream of values, which is what lets a PIR server and client agree on
// a public matrix without transmitting it: both regenerate it from a
// shared seed.
type Deterministic struct {
	key     [32]byte
	max     uint64
	counter uint64
}

// NewDeterministic returns a Deterministic sampler over [0, max) keyed by
// seed.
func NewDeterministic(seed [32]byte, max uint64) *Deterministic {
	return &Deterministic{key: seed, max: max}
}

// Sample draws the next pseudo-random value in the stream.
func (d *Deterministic) Sample() (uint64, error) {
	var nonce [8]byte
	binary.LittleEndian.PutUint64(nonce[:], d.counter)
	d.counter++

	in := make([]byte, 8)
	out := make([]byte, 8)
	salsa20.XORKeyStream(out, in, nonce[:], &d.key)

	v := binary.LittleEndian.Uint64(out)
	return v % d.max, nil
}
