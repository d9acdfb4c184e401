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

package doublepir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geometryxyz/simplepir-go/regev"
)

func smallParams(t *testing.T) Params {
	t.Helper()
	params, err := GenParams(3329, 2, 32, 4, 8, 6.4)
	require.NoError(t, err)
	return params
}

func TestDoublePIRRoundTripEveryCell(t *testing.T) {
	params := smallParams(t)
	s1, err := regev.GenSecret(params.Q, params.N)
	require.NoError(t, err)
	s2, err := regev.GenSecret(params.Q, params.N)
	require.NoError(t, err)

	db, err := GenDB(params)
	require.NoError(t, err)

	hints, err := Setup(params, db)
	require.NoError(t, err)

	for col := 0; col < params.L; col++ {
		for row := 0; row < params.M; row++ {
			query, err := Query(params, col, row, s1, s2)
			require.NoError(t, err)

			answer, err := Answer(params, db, hints.Hs, query)
			require.NoError(t, err)

			got, err := Recover(params, hints.Hc, answer, s1, s2)
			require.NoError(t, err)

			want, err := db.Get(col, row)
			require.NoError(t, err)
			assert.Equal(t, want.Uint64(), got.Uint64(), "col=%d row=%d", col, row)
		}
	}
}

func TestDoublePIRRejectsOutOfRangeIndices(t *testing.T) {
	params := smallParams(t)
	s1, err := regev.GenSecret(params.Q, params.N)
	require.NoError(t, err)
	s2, err := regev.GenSecret(params.Q, params.N)
	require.NoError(t, err)

	_, err = Query(params, 0, params.M, s1, s2)
	assert.Error(t, err)

	_, err = Query(params, params.L, 0, s1, s2)
	assert.Error(t, err)
}

func TestGenParamsRejectsInsaneValues(t *testing.T) {
	_, err := GenParams(3329, 3329, 32, 4, 8, 6.4)
	assert.Error(t, err)

	_, err = GenParams(3329, 2, 0, 4, 8, 6.4)
	assert.Error(t, err)
}
