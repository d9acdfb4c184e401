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
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"
)

// Sampler draws a single random value in [0, q) for some modulus q fixed
// at construction time.
type Sampler interface {
	Sample() (uint64, error)
}

// UniformRange samples random values from the interval [min, max).
type UniformRange struct {
	min uint64
	max uint64
}

// NewUniformRange returns an instance of the UniformRange sampler. It
// accepts lower and upper bounds on the sampled values.
func NewUniformRange(min, max uint64) *UniformRange {
	return &UniformRange{min: min, max: max}
}

// Sample samples a random value from the interval [min, max).
func (u *UniformRange) Sample() (uint64, error) {
	span := new(big.Int).SetUint64(u.max - u.min)
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, errors.Wrap(err, "sample: uniform range sampling failed")
	}
	return u.min + v.Uint64(), nil
}

// Uniform samples random values from the interval [0, max).
type Uniform struct {
	UniformRange
}

// NewUniform returns an instance of the Uniform sampler. It accepts an
// upper (exclusive) bound on the sampled values.
func NewUniform(max uint64) *Uniform {
	return &Uniform{UniformRange: UniformRange{min: 0, max: max}}
}

// Sample samples a random value from the interval [0, max).
func (u *Uniform) Sample() (uint64, error) {
	return u.UniformRange.Sample()
}

// Bit samples a single random bit (value 0 or 1).
type Bit struct {
	Uniform
}

// NewBit returns an instance of the Bit sampler.
func NewBit() *Bit {
	return &Bit{Uniform: *NewUniform(2)}
}
