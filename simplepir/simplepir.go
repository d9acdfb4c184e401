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

// Package simplepir implements the SimplePIR protocol: a square
// database DB (m x m, mod p) is preprocessed into a hint H = DB*A, sent
// to the client once. Thereafter the client sends a single LWE query
// vector per retrieval, the server replies with a single vector
// (DB*q_vec), and the client strips off H*s and rounds to recover one
// database row.
package simplepir

import (
	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/matrix"
	"github.com/geometryxyz/simplepir-go/regev"
)

// Params bundles a SimplePIR instance's Regev parameters with the
// database side length.
type Params struct {
	Regev regev.Params
	M     int // database side length (the db is M x M)
}

// GenParams returns the reference SimplePIR parameter set: an m x m
// database, a Regev instance with secret length n and m samples.
func GenParams(q, p uint64, n, m int, stdDev float64) (Params, error) {
	rp, err := regev.GenParams(q, p, n, m, stdDev)
	if err != nil {
		return Params{}, errors.Wrap(err, "simplepir: generating regev params")
	}
	return Params{Regev: rp, M: m}, nil
}

// GenDB returns an M x M database of Elements mod params.Regev.P.
func GenDB(params Params) (matrix.Matrix, error) {
	return matrix.GenUniformRand(params.Regev.P, params.M, params.M)
}

// Setup computes the server's hint H = DB(lifted to q) * A, of shape
// (M, n): M columns, one per database column, each of length n.
func Setup(params Params, db matrix.Matrix) (matrix.Matrix, error) {
	dbQ := db.ChangeQ(params.Regev.Q)
	h, err := dbQ.Mul(params.Regev.A)
	if err != nil {
		return matrix.Matrix{}, errors.Wrap(err, "simplepir: setup: DB*A")
	}
	return h, nil
}

// Query returns the client's LWE query vector for rowIdx: A*s + e +
// floor(q/p)*u_rowIdx, length M.
func Query(params Params, rowIdx int, s []element.Element) ([]element.Element, error) {
	if rowIdx < 0 || rowIdx >= params.M {
		return nil, errors.Wrapf(internal.ErrIndexOutOfRange, "simplepir: rowIdx=%d, M=%d", rowIdx, params.M)
	}
	e, err := regev.GenErrorVec(params.Regev.Q, params.M)
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: query: sampling error")
	}
	asMatrix, err := params.Regev.A.MulVec(s)
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: query: A*s")
	}
	as, err := asMatrix.Flatten()
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: query: flatten A*s")
	}

	floor := element.From(params.Regev.Q, params.Regev.Q/params.Regev.P)
	q := make([]element.Element, params.M)
	for i := range q {
		v, err := as[i].Add(e[i])
		if err != nil {
			return nil, errors.Wrap(err, "simplepir: query: A*s + e")
		}
		if i == rowIdx {
			v, err = v.Add(floor)
			if err != nil {
				return nil, errors.Wrap(err, "simplepir: query: + floor*u")
			}
		}
		q[i] = v
	}
	return q, nil
}

// Answer lifts db to modulus q and returns DB*qVec, a length-M vector.
func Answer(params Params, db matrix.Matrix, qVec []element.Element) ([]element.Element, error) {
	dbQ := db.ChangeQ(params.Regev.Q)
	ansMatrix, err := dbQ.MulVec(qVec)
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: answer: DB*q_vec")
	}
	return ansMatrix.Flatten()
}

// Recover strips H*s off ans and rounds, returning the single plaintext
// Element at colIdx.
func Recover(params Params, s []element.Element, colIdx int, h matrix.Matrix, ans []element.Element) (element.Element, error) {
	row, err := RecoverRow(params, s, h, ans)
	if err != nil {
		return element.Element{}, err
	}
	if colIdx < 0 || colIdx >= len(row) {
		return element.Element{}, errors.Wrapf(internal.ErrIndexOutOfRange, "simplepir: colIdx=%d, M=%d", colIdx, len(row))
	}
	return row[colIdx], nil
}

// RecoverRow strips H*s off ans and rounds every entry, returning the
// full length-M plaintext row.
func RecoverRow(params Params, s []element.Element, h matrix.Matrix, ans []element.Element) ([]element.Element, error) {
	hsMatrix, err := h.MulVec(s)
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: recover: H*s")
	}
	hs, err := hsMatrix.Flatten()
	if err != nil {
		return nil, errors.Wrap(err, "simplepir: recover: flatten H*s")
	}
	if len(ans) != len(hs) {
		return nil, errors.Wrapf(internal.ErrShapeMismatch, "simplepir: answer length %d vs H*s length %d", len(ans), len(hs))
	}

	row := make([]element.Element, len(ans))
	for i := range ans {
		diff, err := ans[i].Sub(hs[i])
		if err != nil {
			return nil, errors.Wrap(err, "simplepir: recover: ans - H*s")
		}
		row[i] = regev.RoundMod(diff.Uint64(), params.Regev.P, params.Regev.Q)
	}
	return row, nil
}

// UpdateHintRow replaces column rowIdx of h (the entries h.Get(rowIdx, r))
// with newRow*A, where newRow is the new content of database column
// rowIdx (the entries db.Get(rowIdx, r)). This avoids a full
// recomputation of DB*A when only that part of the database has changed.
func UpdateHintRow(params Params, h matrix.Matrix, rowIdx int, newRow []element.Element) (matrix.Matrix, error) {
	if rowIdx < 0 || rowIdx >= h.NumCols() {
		return matrix.Matrix{}, errors.Wrapf(internal.ErrIndexOutOfRange, "simplepir: rowIdx=%d, hint cols=%d", rowIdx, h.NumCols())
	}
	newRowQ := make([]element.Element, len(newRow))
	for i, e := range newRow {
		newRowQ[i] = e.ChangeQ(params.Regev.Q)
	}
	updatedMatrix, err := matrix.FromCol(newRowQ).Mul(params.Regev.A)
	if err != nil {
		return matrix.Matrix{}, errors.Wrap(err, "simplepir: update_hint_row: newRow*A")
	}
	updatedRow, err := updatedMatrix.Flatten()
	if err != nil {
		return matrix.Matrix{}, errors.Wrap(err, "simplepir: update_hint_row: flatten")
	}

	out := h
	for r := 0; r < h.NumRows(); r++ {
		if err := out.Set(rowIdx, r, updatedRow[r]); err != nil {
			return matrix.Matrix{}, errors.Wrap(err, "simplepir: update_hint_row: set")
		}
	}
	return out, nil
}
