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

package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubRoundTrip(t *testing.T) {
	q := uint64(97)
	a := From(q, 40)
	b := From(q, 90)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(33), sum.Uint64())

	back, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, back.Equal(a))
}

func TestMulWraps(t *testing.T) {
	q := uint64(97)
	a := From(q, 50)
	b := From(q, 3)

	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, uint64((50*3)%97), prod.Uint64())
}

func TestMismatchedModuliError(t *testing.T) {
	a := From(97, 1)
	b := From(101, 1)

	_, err := a.Add(b)
	assert.Error(t, err)

	_, err = a.Sub(b)
	assert.Error(t, err)

	_, err = a.Mul(b)
	assert.Error(t, err)
}

func TestChangeQPreservesValue(t *testing.T) {
	a := From(97, 42)
	b := a.ChangeQ(1009)
	assert.Equal(t, uint64(42), b.Uint64())
	assert.Equal(t, uint64(1009), b.Q())
}

func TestAddAssignSubAssign(t *testing.T) {
	q := uint64(13)
	a := From(q, 10)
	require.NoError(t, a.AddAssign(From(q, 5)))
	assert.Equal(t, uint64(2), a.Uint64())

	require.NoError(t, a.SubAssign(From(q, 5)))
	assert.Equal(t, uint64(10), a.Uint64())
}

func TestGenUniformRandInRange(t *testing.T) {
	q := uint64(4093)
	for i := 0; i < 200; i++ {
		e, err := GenUniformRand(q)
		require.NoError(t, err)
		assert.True(t, e.Uint64() < q)
		assert.Equal(t, q, e.Q())
	}
}

func TestGenNormalRandClustersNearHalfQ(t *testing.T) {
	q := uint64(4093)
	sum := 0.0
	n := 500
	for i := 0; i < n; i++ {
		e, err := GenNormalRand(q, 6.4)
		require.NoError(t, err)
		assert.True(t, e.Uint64() < q)
		sum += float64(e.Uint64())
	}
	mean := sum / float64(n)
	assert.InDelta(t, float64(q)/2, mean, 80)
}

func TestIsZero(t *testing.T) {
	assert.True(t, New(11).IsZero())
	assert.False(t, From(11, 1).IsZero())
}
