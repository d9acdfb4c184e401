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

// Package regev implements symmetric-key Regev LWE encryption: the
// shared primitive every PIR protocol in this module builds its
// homomorphism on. A plaintext mod p is encrypted by hiding it inside an
// LWE sample A*s + e under a secret s, scaled by floor(q/p); decryption
// strips A*s back off and rounds.
//
// params.A is stored with NumCols() == m (the sample count) and
// NumRows() == n (the secret length), so that A.MulVec(s) applies
// directly under the matrix package's mul_vec contract (self rows must
// equal the vector length).
package regev

import (
	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/matrix"
	"github.com/geometryxyz/simplepir-go/sample"
)

// Params holds a Regev public matrix and the parameters of the scheme it
// draws secrets, errors, and plaintexts from.
type Params struct {
	A      matrix.Matrix
	Q      uint64
	P      uint64
	N      int
	M      int
	StdDev float64
}

// NewParams validates and returns a Params value. It fails if p >= q,
// sigma >= q, or n == 0.
func NewParams(a matrix.Matrix, q, p uint64, n, m int, stdDev float64) (Params, error) {
	if p == 0 || p >= q {
		return Params{}, errors.Wrapf(internal.ErrInvalidParams, "regev: p=%d must be in (0, q=%d)", p, q)
	}
	if stdDev <= 0 || stdDev >= float64(q) {
		return Params{}, errors.Wrapf(internal.ErrInvalidParams, "regev: std_dev=%v must be in (0, q=%d)", stdDev, q)
	}
	if n == 0 {
		return Params{}, errors.Wrap(internal.ErrInvalidParams, "regev: n must be nonzero")
	}
	return Params{A: a, Q: q, P: p, N: n, M: m, StdDev: stdDev}, nil
}

// GenParams returns a fresh Params with a uniformly random public matrix
// A of shape (m, n).
func GenParams(q, p uint64, n, m int, stdDev float64) (Params, error) {
	a, err := matrix.GenUniformRand(q, n, m)
	if err != nil {
		return Params{}, errors.Wrap(err, "regev: generating public matrix")
	}
	return NewParams(a, q, p, n, m, stdDev)
}

// GenParamsSeeded is GenParams but with A regenerated deterministically
// from seed instead of read from crypto/rand, so that a client can
// reconstruct the same A given only the seed.
func GenParamsSeeded(seed [32]byte, q, p uint64, n, m int, stdDev float64) (Params, error) {
	a := matrix.GenUniformRandSeeded(seed, q, n, m)
	return NewParams(a, q, p, n, m, stdDev)
}

// SimpleParams returns the reference parameter set documented for this
// library: n=512, m=1, q=3329, p=2, sigma=6.4.
func SimpleParams() (Params, error) {
	return GenParams(3329, 2, 512, 1, 6.4)
}

// GenSecret returns a length-n vector of uniform Elements mod q.
func GenSecret(q uint64, n int) ([]element.Element, error) {
	s := make([]element.Element, n)
	for i := range s {
		e, err := element.GenUniformRand(q)
		if err != nil {
			return nil, errors.Wrap(err, "regev: generating secret")
		}
		s[i] = e
	}
	return s, nil
}

// GenErrorVec returns a length-m vector of small-magnitude Elements mod
// q, drawn from the centered small-error distribution.
func GenErrorVec(q uint64, m int) ([]element.Element, error) {
	c := sample.NewCenteredSmall(q)
	e := make([]element.Element, m)
	for i := range e {
		v, err := c.Sample()
		if err != nil {
			return nil, errors.Wrap(err, "regev: generating error vector")
		}
		e[i] = element.From(q, v)
	}
	return e, nil
}

func checkSecretLength(params Params, secret []element.Element) error {
	if len(secret) != params.N {
		return errors.Wrapf(internal.ErrShapeMismatch, "regev: secret length %d, want %d", len(secret), params.N)
	}
	return nil
}

func checkErrorLength(params Params, e []element.Element) error {
	if len(e) != params.M {
		return errors.Wrapf(internal.ErrShapeMismatch, "regev: error length %d, want %d", len(e), params.M)
	}
	return nil
}

// Encrypt encrypts plaintext (an Element mod params.P) under secret with
// error e. It computes b = A*s + e (length params.M) and returns
// b[0] + floor(q/p)*plaintext as a single scalar ciphertext: Regev
// ciphertexts in this library are always one Element, regardless of how
// many columns params.A carries (the reference parameter sets all use
// M=1; larger M is supported but only the first sample is used).
func Encrypt(params Params, secret, e []element.Element, plaintext element.Element) (element.Element, error) {
	if err := checkSecretLength(params, secret); err != nil {
		return element.Element{}, err
	}
	if err := checkErrorLength(params, e); err != nil {
		return element.Element{}, err
	}
	if plaintext.Q() != params.P {
		return element.Element{}, errors.Wrapf(internal.ErrModulusMismatch, "regev: plaintext mod %d, want %d", plaintext.Q(), params.P)
	}

	as, err := params.A.MulVec(secret)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: encrypt: A*s")
	}
	asVec, err := as.Flatten()
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: encrypt: flatten A*s")
	}

	b, err := asVec[0].Add(e[0])
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: encrypt: A*s + e")
	}

	floor := params.Q / params.P
	floorElem := element.From(params.Q, floor)
	scaled, err := floorElem.Mul(plaintext.ChangeQ(params.Q))
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: encrypt: scale plaintext")
	}

	c, err := b.Add(scaled)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: encrypt: + floor*mu")
	}
	return c, nil
}

// Decrypt recovers the plaintext Element mod params.P encoded in
// ciphertext c under secret. Noise beyond the budget is not detected: it
// then silently returns an arbitrary element of Z/pZ. It returns an error
// only for malformed inputs: a secret of the wrong length, a ciphertext
// whose modulus is not params.Q, or a params.A that does not fit the
// secret.
func Decrypt(params Params, secret []element.Element, c element.Element) (element.Element, error) {
	if err := checkSecretLength(params, secret); err != nil {
		return element.Element{}, err
	}
	if c.Q() != params.Q {
		return element.Element{}, errors.Wrapf(internal.ErrModulusMismatch, "regev: ciphertext mod %d, want %d", c.Q(), params.Q)
	}

	as, err := params.A.MulVec(secret)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: decrypt: A*s")
	}
	asVec, err := as.Flatten()
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: decrypt: flatten A*s")
	}

	r, err := c.Sub(asVec[0])
	if err != nil {
		return element.Element{}, errors.Wrap(err, "regev: decrypt: c - A*s")
	}
	return RoundMod(r.Uint64(), params.P, params.Q), nil
}

// RoundMod returns round(x * p / q) mod p, the shared rounding step used
// to strip the scaling factor off a recovered ciphertext entry.
func RoundMod(x, p, q uint64) element.Element {
	v := uint64((2*float64(x)*float64(p) + float64(q)) / (2 * float64(q)))
	return element.From(p, v%p)
}
