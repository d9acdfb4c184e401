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

// Package element implements the modular scalar that every other package
// in this module builds on: a value x together with the modulus q it
// lives under, with arithmetic carried out in Z/qZ.
//
// A single concrete scalar width is used throughout (uint64) rather than
// a generic or arbitrary precision type; products taken during matrix
// multiplication cannot overflow as long as q does not exceed MaxModulus.
package element

import (
	"crypto/rand"
	"math/big"

	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/sample"
)

// MaxModulus is the largest modulus for which the product of two in-range
// values never overflows a uint64 accumulator during matrix
// multiplication (see Matrix.Mul). It is not enforced: New, From and the
// samplers accept any q.
const MaxModulus = 1 << 32

// Element is a value x in Z/qZ.
type Element struct {
	q uint64
	x uint64
}

// New returns the zero Element modulo q.
func New(q uint64) Element {
	return Element{q: q, x: 0}
}

// From returns the Element x mod q. It stores x as given and validates
// neither x nor q; arithmetic on the result is only meaningful for x < q
// and q <= MaxModulus.
func From(q, x uint64) Element {
	return Element{q: q, x: x}
}

// Q returns the element's modulus.
func (e Element) Q() uint64 {
	return e.q
}

// Uint64 returns the element's integer value in [0, q).
func (e Element) Uint64() uint64 {
	return e.x
}

// IsZero reports whether e is the zero element.
func (e Element) IsZero() bool {
	return e.x == 0
}

// Equal reports whether e and other have the same modulus and value.
func (e Element) Equal(other Element) bool {
	return e.q == other.q && e.x == other.x
}

func checkModuli(a, b Element) error {
	if a.q != b.q {
		return errors.Wrapf(internal.ErrModulusMismatch, "%d vs %d", a.q, b.q)
	}
	return nil
}

// Add returns e + other mod q.
func (e Element) Add(other Element) (Element, error) {
	if err := checkModuli(e, other); err != nil {
		return Element{}, err
	}
	return Element{q: e.q, x: (e.x + other.x) % e.q}, nil
}

// AddAssign sets e to e + other mod q.
func (e *Element) AddAssign(other Element) error {
	sum, err := e.Add(other)
	if err != nil {
		return err
	}
	*e = sum
	return nil
}

// Sub returns e - other mod q, wrapping by adding q when e < other.
func (e Element) Sub(other Element) (Element, error) {
	if err := checkModuli(e, other); err != nil {
		return Element{}, err
	}
	if e.x < other.x {
		return Element{q: e.q, x: e.q - (other.x - e.x)}, nil
	}
	return Element{q: e.q, x: e.x - other.x}, nil
}

// SubAssign sets e to e - other mod q.
func (e *Element) SubAssign(other Element) error {
	diff, err := e.Sub(other)
	if err != nil {
		return err
	}
	*e = diff
	return nil
}

// Mul returns e * other mod q.
func (e Element) Mul(other Element) (Element, error) {
	if err := checkModuli(e, other); err != nil {
		return Element{}, err
	}
	return Element{q: e.q, x: (e.x * other.x) % e.q}, nil
}

// MulAssign sets e to e * other mod q.
func (e *Element) MulAssign(other Element) error {
	prod, err := e.Mul(other)
	if err != nil {
		return err
	}
	*e = prod
	return nil
}

// ChangeQ rebinds e to a new modulus without altering its integer value.
// It is used to lift plaintext-space values (mod p) into ciphertext
// space (mod q) before mixing them with ciphertext arithmetic.
func (e Element) ChangeQ(q uint64) Element {
	return Element{q: q, x: e.x}
}

// GenUniformRand returns an Element sampled uniformly from [0, q).
func GenUniformRand(q uint64) (Element, error) {
	v, err := rand.Int(rand.Reader, new(big.Int).SetUint64(q))
	if err != nil {
		return Element{}, errors.Wrap(err, "element: uniform sampling failed")
	}
	return Element{q: q, x: v.Uint64()}, nil
}

// GenNormalRand returns an Element sampled from a discrete Gaussian with
// standard deviation sigma, centered at q/2 (so that values can be
// treated, after re-centering by the caller, as "small" noise near 0
// without risking the wraparound that a truncated continuous sample
// would cause near 0 and q).
func GenNormalRand(q uint64, sigma float64) (Element, error) {
	g, err := sample.NewDiscreteGaussian(sigma, q)
	if err != nil {
		return Element{}, errors.Wrap(err, "element: building discrete Gaussian sampler")
	}
	x, err := g.Sample()
	if err != nil {
		return Element{}, errors.Wrap(err, "element: normal sampling failed")
	}
	return Element{q: q, x: x}, nil
}
