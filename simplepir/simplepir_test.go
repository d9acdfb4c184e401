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

package simplepir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/regev"
)

func smallParams(t *testing.T) Params {
	t.Helper()
	params, err := GenParams(3329, 2, 64, 8, 6.4)
	require.NoError(t, err)
	return params
}

func TestSimplePIRRoundTripEveryCell(t *testing.T) {
	params := smallParams(t)
	secret, err := regev.GenSecret(params.Regev.Q, params.Regev.N)
	require.NoError(t, err)

	db, err := GenDB(params)
	require.NoError(t, err)

	h, err := Setup(params, db)
	require.NoError(t, err)

	for col := 0; col < params.M; col++ {
		for row := 0; row < params.M; row++ {
			qVec, err := Query(params, row, secret)
			require.NoError(t, err)

			ans, err := Answer(params, db, qVec)
			require.NoError(t, err)

			got, err := Recover(params, secret, col, h, ans)
			require.NoError(t, err)

			want, err := db.Get(col, row)
			require.NoError(t, err)
			assert.Equal(t, want.Uint64(), got.Uint64(), "col=%d row=%d", col, row)
		}
	}
}

func TestSimplePIRHintUpdate(t *testing.T) {
	params := smallParams(t)
	secret, err := regev.GenSecret(params.Regev.Q, params.Regev.N)
	require.NoError(t, err)

	db, err := GenDB(params)
	require.NoError(t, err)
	h, err := Setup(params, db)
	require.NoError(t, err)

	flippedCol := 3
	newRow := make([]element.Element, params.M)
	for r := 0; r < params.M; r++ {
		old, err := db.Get(flippedCol, r)
		require.NoError(t, err)
		flipped := (old.Uint64() + 1) % params.Regev.P
		newRow[r] = element.From(params.Regev.P, flipped)
		require.NoError(t, db.Set(flippedCol, r, newRow[r]))
	}

	updatedH, err := UpdateHintRow(params, h, flippedCol, newRow)
	require.NoError(t, err)

	for col := 0; col < params.M; col++ {
		for row := 0; row < params.M; row++ {
			qVec, err := Query(params, row, secret)
			require.NoError(t, err)
			ans, err := Answer(params, db, qVec)
			require.NoError(t, err)
			got, err := Recover(params, secret, col, updatedH, ans)
			require.NoError(t, err)
			want, err := db.Get(col, row)
			require.NoError(t, err)
			assert.Equal(t, want.Uint64(), got.Uint64(), "col=%d row=%d", col, row)
		}
	}
}

func TestQueryRejectsOutOfRangeRow(t *testing.T) {
	params := smallParams(t)
	secret, err := regev.GenSecret(params.Regev.Q, params.Regev.N)
	require.NoError(t, err)

	_, err = Query(params, params.M, secret)
	assert.Error(t, err)
}
