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

// Package doublepir implements DoublePIR: a two-round extension of
// SimplePIR that compresses the client's hint a second time by applying
// the same LWE-hiding trick to the hint itself, via base-p digit
// decomposition of the intermediate products. Where SimplePIR sends an
// O(m*n) hint, DoublePIR's hint is O(n*k*n) for k = ceil(log_p(q-1)),
// asymptotically smaller for m much larger than n.
//
// The source this protocol is ported from carries a noted row/col
// reversal bug between its query and answer steps. Rather than
// reproduce it, this package fixes one internally consistent
// col/row convention end to end (documented at each step below) and
// relies on its round-trip tests, not the paper's stated indexing, to
// confirm correctness.
package doublepir

import (
	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/matrix"
	"github.com/geometryxyz/simplepir-go/regev"
)

// Params bundles the two public matrices and shared LWE parameters for
// a DoublePIR instance over an L x M database. A1 has shape (M, N);
// A2 has shape (L, N).
type Params struct {
	A1     matrix.Matrix
	A2     matrix.Matrix
	Q      uint64
	P      uint64
	N      int
	L      int
	M      int
	StdDev float64
}

// GenParams returns the reference DoublePIR parameter set: an L x M
// database, secret length N, moduli q and p.
func GenParams(q, p uint64, n, l, m int, stdDev float64) (Params, error) {
	a1, err := matrix.GenUniformRand(q, n, m)
	if err != nil {
		return Params{}, errors.Wrap(err, "doublepir: generating A1")
	}
	a2, err := matrix.GenUniformRand(q, n, l)
	if err != nil {
		return Params{}, errors.Wrap(err, "doublepir: generating A2")
	}
	if p == 0 || p >= q {
		return Params{}, errors.Wrapf(internal.ErrInvalidParams, "doublepir: p=%d must be in (0, q=%d)", p, q)
	}
	if stdDev <= 0 || stdDev >= float64(q) {
		return Params{}, errors.Wrapf(internal.ErrInvalidParams, "doublepir: std_dev=%v must be in (0, q=%d)", stdDev, q)
	}
	if n == 0 {
		return Params{}, errors.Wrap(internal.ErrInvalidParams, "doublepir: n must be nonzero")
	}
	return Params{A1: a1, A2: a2, Q: q, P: p, N: n, L: l, M: m, StdDev: stdDev}, nil
}

// K returns the base-p digit width used throughout this instance's
// hints: matrix.DigitWidth(q, p), the number of base-p digits of q-1.
func (params Params) K() int {
	return matrix.DigitWidth(params.Q, params.P)
}

// GenDB returns an L x M database of Elements mod params.P.
func GenDB(params Params) (matrix.Matrix, error) {
	return matrix.GenUniformRand(params.P, params.M, params.L)
}

// Hints is the pair of server-kept and client-kept hints produced by
// Setup.
type Hints struct {
	Hs matrix.Matrix // kept by the server, reused in Answer
	Hc matrix.Matrix // sent to the client, reused in Recover
}

// Setup computes the DoublePIR hints for db: Hs = decompose(A1^T*DB^T,
// p), with its digits lifted to modulus q, and Hc = Hs*A2.
func Setup(params Params, db matrix.Matrix) (Hints, error) {
	dbQ := db.ChangeQ(params.Q)

	m, err := params.A1.Rotated().Mul(dbQ.Rotated())
	if err != nil {
		return Hints{}, errors.Wrap(err, "doublepir: setup: A1^T * DB^T")
	}
	hs, err := m.Decompose(params.P)
	if err != nil {
		return Hints{}, errors.Wrap(err, "doublepir: setup: decompose")
	}
	hs = hs.ChangeQ(params.Q)
	hc, err := hs.Mul(params.A2)
	if err != nil {
		return Hints{}, errors.Wrap(err, "doublepir: setup: Hs * A2")
	}
	return Hints{Hs: hs, Hc: hc}, nil
}

// QueryVec is the client's pair of LWE query vectors for (colIdx,
// rowIdx): c1 hides rowIdx under secret s1, c2 hides colIdx under
// secret s2.
type QueryVec struct {
	C1 []element.Element // length M
	C2 []element.Element // length L
}

// Query returns the query vectors requesting the database entry at
// (colIdx, rowIdx).
func Query(params Params, colIdx, rowIdx int, s1, s2 []element.Element) (QueryVec, error) {
	if rowIdx < 0 || rowIdx >= params.M {
		return QueryVec{}, errors.Wrapf(internal.ErrIndexOutOfRange, "doublepir: rowIdx=%d, M=%d", rowIdx, params.M)
	}
	if colIdx < 0 || colIdx >= params.L {
		return QueryVec{}, errors.Wrapf(internal.ErrIndexOutOfRange, "doublepir: colIdx=%d, L=%d", colIdx, params.L)
	}

	floor := element.From(params.Q, params.Q/params.P)

	e1, err := regev.GenErrorVec(params.Q, params.M)
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: sampling e1")
	}
	c1Mat, err := params.A1.MulVec(s1)
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: A1*s1")
	}
	c1, err := c1Mat.Flatten()
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: flatten A1*s1")
	}
	for i := range c1 {
		v, err := c1[i].Add(e1[i])
		if err != nil {
			return QueryVec{}, errors.Wrap(err, "doublepir: query: A1*s1 + e1")
		}
		if i == rowIdx {
			v, err = v.Add(floor)
			if err != nil {
				return QueryVec{}, errors.Wrap(err, "doublepir: query: c1 + floor*u")
			}
		}
		c1[i] = v
	}

	e2, err := regev.GenErrorVec(params.Q, params.L)
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: sampling e2")
	}
	c2Mat, err := params.A2.MulVec(s2)
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: A2*s2")
	}
	c2, err := c2Mat.Flatten()
	if err != nil {
		return QueryVec{}, errors.Wrap(err, "doublepir: query: flatten A2*s2")
	}
	for i := range c2 {
		v, err := c2[i].Add(e2[i])
		if err != nil {
			return QueryVec{}, errors.Wrap(err, "doublepir: query: A2*s2 + e2")
		}
		if i == colIdx {
			v, err = v.Add(floor)
			if err != nil {
				return QueryVec{}, errors.Wrap(err, "doublepir: query: c2 + floor*u")
			}
		}
		c2[i] = v
	}

	return QueryVec{C1: c1, C2: c2}, nil
}

// AnswerVec is the server's response to a query: h accompanies the
// client's kept hint Hc, and ahA2 is the masked combination the client
// strips down to a single Element in Recover.
type AnswerVec struct {
	H    matrix.Matrix     // shape (k, n)
	AhA2 []element.Element // length k*(n+1)
}

// Answer computes the server's response to query against db, reusing
// the server-kept hint hs from Setup.
func Answer(params Params, db matrix.Matrix, hs matrix.Matrix, query QueryVec) (AnswerVec, error) {
	dbQ := db.ChangeQ(params.Q)

	raw, err := dbQ.MulVec(query.C1)
	if err != nil {
		return AnswerVec{}, errors.Wrap(err, "doublepir: answer: DB * c1")
	}
	ans1, err := raw.Rotated().Decompose(params.P)
	if err != nil {
		return AnswerVec{}, errors.Wrap(err, "doublepir: answer: decompose(DB*c1)")
	}
	ans1 = ans1.ChangeQ(params.Q)

	h, err := ans1.Mul(params.A2)
	if err != nil {
		return AnswerVec{}, errors.Wrap(err, "doublepir: answer: ans1 * A2")
	}

	combined := hs
	for c := 0; c < ans1.NumCols(); c++ {
		col := make([]element.Element, ans1.NumRows())
		for r := 0; r < ans1.NumRows(); r++ {
			v, err := ans1.Get(c, r)
			if err != nil {
				return AnswerVec{}, errors.Wrap(err, "doublepir: answer: read ans1 column")
			}
			col[r] = v
		}
		if err := combined.AppendCol(col); err != nil {
			return AnswerVec{}, errors.Wrap(err, "doublepir: answer: append ans1 column")
		}
	}

	ahA2Mat, err := combined.MulVec(query.C2)
	if err != nil {
		return AnswerVec{}, errors.Wrap(err, "doublepir: answer: [Hs|ans1] * c2")
	}
	ahA2, err := ahA2Mat.Flatten()
	if err != nil {
		return AnswerVec{}, errors.Wrap(err, "doublepir: answer: flatten ahA2")
	}

	return AnswerVec{H: h, AhA2: ahA2}, nil
}

// Recover decrypts answer under (s1, s2) using the client-kept hint hc,
// returning the single plaintext Element requested by the query that
// produced answer.
func Recover(params Params, hc matrix.Matrix, answer AnswerVec, s1, s2 []element.Element) (element.Element, error) {
	combined := hc
	for c := 0; c < answer.H.NumCols(); c++ {
		col := make([]element.Element, answer.H.NumRows())
		for r := 0; r < answer.H.NumRows(); r++ {
			v, err := answer.H.Get(c, r)
			if err != nil {
				return element.Element{}, errors.Wrap(err, "doublepir: recover: read h column")
			}
			col[r] = v
		}
		if err := combined.AppendCol(col); err != nil {
			return element.Element{}, errors.Wrap(err, "doublepir: recover: append h column")
		}
	}

	hhsMat, err := combined.MulVec(s2)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: [Hc|h] * s2")
	}
	hhs, err := hhsMat.Flatten()
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: flatten")
	}
	if len(hhs) != len(answer.AhA2) {
		return element.Element{}, errors.Wrapf(internal.ErrShapeMismatch, "doublepir: recover: %d vs %d", len(hhs), len(answer.AhA2))
	}

	rounded := make([]element.Element, len(hhs))
	for i := range hhs {
		diff, err := answer.AhA2[i].Sub(hhs[i])
		if err != nil {
			return element.Element{}, errors.Wrap(err, "doublepir: recover: ahA2 - [Hc|h]*s2")
		}
		rounded[i] = regev.RoundMod(diff.Uint64(), params.P, params.Q)
	}

	roundedRow := matrix.FromCol(rounded).Rotated()
	h1a1Mat, err := roundedRow.Recompose(params.P, params.Q)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: recompose")
	}
	h1a1, err := h1a1Mat.Flatten()
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: flatten recomposed")
	}
	if len(h1a1) != params.N+1 {
		return element.Element{}, errors.Wrapf(internal.ErrShapeMismatch, "doublepir: recover: recomposed length %d, want %d", len(h1a1), params.N+1)
	}

	h1 := h1a1[:params.N]
	a1 := h1a1[params.N]

	dotMat, err := matrix.FromCol(s1).MulVec(h1)
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: s1 . h1")
	}
	dotVec, err := dotMat.Flatten()
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: flatten dot")
	}

	dHat, err := a1.Sub(dotVec[0])
	if err != nil {
		return element.Element{}, errors.Wrap(err, "doublepir: recover: a1 - s1.h1")
	}
	return regev.RoundMod(dHat.Uint64(), params.P, params.Q), nil
}
