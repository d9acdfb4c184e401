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
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// DiscreteGaussian samples random values from a discrete Normal
// (Gaussian) distribution centered on 0, by bounded rejection sampling:
// a candidate is drawn uniformly from a cutoff interval and accepted
// with probability proportional to exp(-x^2/2*sigma^2).
//
// This mirrors the structure of a constant-time rejection sampler (the
// teacher's NormalNegative), but evaluates the acceptance probability
// with ordinary float64 math instead of a constant-time polynomial
// approximation of exp, since side-channel resistance is out of scope
// here. The result is folded into Z/QZ centered at Q/2.
type DiscreteGaussian struct {
	sigma float64
	q     uint64
	cut   int64
}

// NewDiscreteGaussian returns a DiscreteGaussian sampler with the given
// standard deviation over modulus q. It returns an error if sigma is not
// a sane value relative to q.
func NewDiscreteGaussian(sigma float64, q uint64) (*DiscreteGaussian, error) {
	if sigma <= 0 || sigma >= float64(q) {
		return nil, errors.Errorf("sample: sigma %v out of range for modulus %d", sigma, q)
	}
	cut := int64(math.Ceil(sigma * 8))
	if cut < 1 {
		cut = 1
	}
	return &DiscreteGaussian{sigma: sigma, q: q, cut: cut}, nil
}

// Sample draws one value from the distribution, folded into [0, q)
// centered at q/2.
func (g *DiscreteGaussian) Sample() (uint64, error) {
	span := big.NewInt(2*g.cut + 1)
	twoSigmaSq := 2 * g.sigma * g.sigma

	for {
		r, err := rand.Int(rand.Reader, span)
		if err != nil {
			return 0, errors.Wrap(err, "sample: discrete Gaussian candidate draw failed")
		}
		x := r.Int64() - g.cut

		accept, err := g.accept(x, twoSigmaSq)
		if err != nil {
			return 0, err
		}
		if accept {
			centered := int64(g.q/2) + x
			qi := int64(g.q)
			folded := ((centered % qi) + qi) % qi
			return uint64(folded), nil
		}
	}
}

func (g *DiscreteGaussian) accept(x int64, twoSigmaSq float64) (bool, error) {
	if x == 0 {
		return true, nil
	}
	prob := math.Exp(-float64(x*x) / twoSigmaSq)
	u, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return false, errors.Wrap(err, "sample: discrete Gaussian acceptance draw failed")
	}
	uf := float64(u.Int64()) / float64(int64(1)<<53)
	return uf < prob, nil
}
