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

import "github.com/pkg/errors"

// DefaultS is the width of the centered small-error distribution used by
// the Regev error vector, matching the source's S=6.
const DefaultS = 6

// CenteredSmall samples from {0, ..., S-1}, subtracts S/2, and folds the
// result into [0, Q), producing a value that represents a small signed
// offset from 0 (in the range {-S/2, ..., S/2-1}) carried as an element
// of Z/QZ. This is the reference error distribution of the Regev scheme:
// bounding ||e||inf this tightly is what lets decryption rounding succeed
// with overwhelming probability for the parameter sets in use.
type CenteredSmall struct {
	S uint64
	Q uint64
}

// NewCenteredSmall returns a CenteredSmall sampler with the default width
// S=6 over the given modulus q.
func NewCenteredSmall(q uint64) *CenteredSmall {
	return &CenteredSmall{S: DefaultS, Q: q}
}

// Sample draws one value from the distribution.
func (c *CenteredSmall) Sample() (uint64, error) {
	if c.Q == 0 {
		return 0, errors.New("sample: centered small sampler has zero modulus")
	}
	u := NewUniform(c.S)
	v, err := u.Sample()
	if err != nil {
		return 0, errors.Wrap(err, "sample: centered small sampling failed")
	}
	offset := int64(v) - int64(c.S/2)
	folded := ((offset % int64(c.Q)) + int64(c.Q)) % int64(c.Q)
	return uint64(folded), nil
}
