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

package regev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/matrix"
)

// testParams mirrors the worked small-n example used to validate this
// package: it exercises the same q, p, and std_dev as the documented
// large-n reference parameters (see SimpleParams), but with n=4 so the
// round-trip tests below run in a reasonable number of iterations.
func testParams(t *testing.T) Params {
	t.Helper()
	params, err := GenParams(3329, 2, 4, 1, 6.4)
	require.NoError(t, err)
	return params
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	params := testParams(t)

	for _, muVal := range []uint64{0, 1} {
		for i := 0; i < 50; i++ {
			secret, err := GenSecret(params.Q, params.N)
			require.NoError(t, err)
			e, err := GenErrorVec(params.Q, params.M)
			require.NoError(t, err)

			mu := element.From(params.P, muVal)
			c, err := Encrypt(params, secret, e, mu)
			require.NoError(t, err)

			recovered, err := Decrypt(params, secret, c)
			require.NoError(t, err)
			assert.Equal(t, mu.Uint64(), recovered.Uint64())
		}
	}
}

func TestAdditiveHomomorphism(t *testing.T) {
	params := testParams(t)
	secret, err := GenSecret(params.Q, params.N)
	require.NoError(t, err)

	doubledA, err := params.A.Add(params.A)
	require.NoError(t, err)
	doubledParams := params
	doubledParams.A = doubledA

	e0, err := GenErrorVec(params.Q, params.M)
	require.NoError(t, err)
	e1, err := GenErrorVec(params.Q, params.M)
	require.NoError(t, err)

	mu0 := element.From(params.P, 0)
	mu1 := element.From(params.P, 1)

	c0, err := Encrypt(params, secret, e0, mu0)
	require.NoError(t, err)
	c1, err := Encrypt(params, secret, e1, mu1)
	require.NoError(t, err)

	cSum, err := c0.Add(c1)
	require.NoError(t, err)

	recovered, err := Decrypt(doubledParams, secret, cSum)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), recovered.Uint64())
}

func TestScalarMultiplication(t *testing.T) {
	params, err := GenParams(3329, 3, 4, 1, 6.4)
	require.NoError(t, err)
	secret, err := GenSecret(params.Q, params.N)
	require.NoError(t, err)
	e, err := GenErrorVec(params.Q, params.M)
	require.NoError(t, err)

	mu := element.From(params.P, 1)
	c, err := Encrypt(params, secret, e, mu)
	require.NoError(t, err)

	k := element.From(params.Q, 2)
	scaledC, err := c.Mul(k)
	require.NoError(t, err)

	scaledA, err := params.A.MulElem(k)
	require.NoError(t, err)
	scaledParams := params
	scaledParams.A = scaledA

	recovered, err := Decrypt(scaledParams, secret, scaledC)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), recovered.Uint64())
}

func TestGenParamsSeededDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 42

	a, err := GenParamsSeeded(seed, 3329, 2, 4, 1, 6.4)
	require.NoError(t, err)
	b, err := GenParamsSeeded(seed, 3329, 2, 4, 1, 6.4)
	require.NoError(t, err)
	assert.True(t, a.A.Equals(b.A))
}

func TestNewParamsRejectsInsaneValues(t *testing.T) {
	a, err := matrix.GenUniformRand(3329, 4, 1)
	require.NoError(t, err)

	_, err = NewParams(a, 3329, 3329, 4, 1, 6.4)
	assert.Error(t, err)

	_, err = NewParams(a, 3329, 2, 4, 1, 4000)
	assert.Error(t, err)

	_, err = NewParams(a, 3329, 2, 0, 1, 6.4)
	assert.Error(t, err)
}
