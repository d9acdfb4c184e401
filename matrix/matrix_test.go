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

package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/simplepir-go/element"
)

func gen3x2(q uint64) Matrix {
	// 2 columns, 3 rows each.
	return From([][]element.Element{
		{element.From(q, 1), element.From(q, 2), element.From(q, 3)},
		{element.From(q, 4), element.From(q, 5), element.From(q, 6)},
	})
}

func TestRotatedInvolution(t *testing.T) {
	q := uint64(101)
	m := gen3x2(q)
	r := m.Rotated()
	assert.Equal(t, m.NumRows(), r.NumCols())
	assert.Equal(t, m.NumCols(), r.NumRows())

	back := r.Rotated()
	assert.True(t, m.Equals(back))
}

func TestMulDimensions(t *testing.T) {
	q := uint64(101)
	a := gen3x2(q) // 2 cols x 3 rows
	b := a.Rotated() // 3 cols x 2 rows

	// a.NumRows() (3) must equal b.NumCols() (3).
	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, a.NumCols(), prod.NumCols())
	assert.Equal(t, b.NumRows(), prod.NumRows())
}

func TestMulShapeMismatchErrors(t *testing.T) {
	q := uint64(101)
	a := gen3x2(q)
	_, err := a.Mul(a)
	assert.Error(t, err)
}

func TestAddSub(t *testing.T) {
	q := uint64(101)
	a := gen3x2(q)
	b := gen3x2(q)

	sum, err := a.Add(b)
	require.NoError(t, err)
	v, err := sum.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v.Uint64())

	diff, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Equals(a))
}

func TestAppendCol(t *testing.T) {
	q := uint64(101)
	m := gen3x2(q)
	col := []element.Element{element.From(q, 7), element.From(q, 8), element.From(q, 9)}
	require.NoError(t, m.AppendCol(col))
	assert.Equal(t, 3, m.NumCols())
	v, err := m.Get(2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), v.Uint64())
}

func TestDecomposeRecomposeRoundTrip(t *testing.T) {
	q := uint64(3329)
	p := uint64(2)
	m := From([][]element.Element{
		{element.From(q, 1503), element.From(q, 1137)},
	})

	decomposed, err := m.Decompose(p)
	require.NoError(t, err)

	k := DigitWidth(q, p)
	assert.Equal(t, m.NumCols()*k, decomposed.NumCols())

	recomposed, err := decomposed.Recompose(p, q)
	require.NoError(t, err)
	assert.True(t, m.Equals(recomposed))
}

func TestMulVec(t *testing.T) {
	q := uint64(101)
	a := gen3x2(q) // 2 cols x 3 rows
	v := []element.Element{element.From(q, 1), element.From(q, 1), element.From(q, 1)}

	// a.NumRows() (3) must equal len(v) (3).
	prod, err := a.MulVec(v)
	require.NoError(t, err)
	assert.Equal(t, a.NumCols(), prod.NumCols())
	assert.Equal(t, 1, prod.NumRows())

	c0, err := prod.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+2+3), c0.Uint64())
}

func TestChangeQPreservesValues(t *testing.T) {
	m := gen3x2(97)
	changed := m.ChangeQ(4093)
	v, err := changed.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v.Uint64())
	assert.Equal(t, uint64(4093), v.Q())
}
