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

// Package matrix implements a column-major matrix of element.Element
// values: the outer slice indexes columns, the inner slice indexes rows
// within a column. This mirrors the layout used by the reference Regev
// and PIR implementations this package's algorithms are ported from,
// where a matrix's Mul requires the left operand's row count to equal
// the right operand's column count.
package matrix

import (
	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/sample"
)

// Matrix is a column-major grid of Elements sharing a common modulus.
type Matrix struct {
	data [][]element.Element // data[col][row]
}

// New returns a zero matrix of shape (numCols, numRows) with every entry
// mod q.
func New(q uint64, numRows, numCols int) Matrix {
	data := make([][]element.Element, numCols)
	for c := range data {
		col := make([]element.Element, numRows)
		for r := range col {
			col[r] = element.New(q)
		}
		data[c] = col
	}
	return Matrix{data: data}
}

// From builds a Matrix directly from column-major data. The caller is
// responsible for ensuring every column has the same length and modulus.
func From(data [][]element.Element) Matrix {
	return Matrix{data: data}
}

// FromCol builds a single-column matrix out of a vector of Elements.
func FromCol(col []element.Element) Matrix {
	return Matrix{data: [][]element.Element{col}}
}

// FromSingle builds a 1x1 matrix containing e.
func FromSingle(e element.Element) Matrix {
	return Matrix{data: [][]element.Element{{e}}}
}

// FromVal builds a matrix of shape (numCols, numRows) with every entry
// set to val.
func FromVal(numRows, numCols int, val element.Element) Matrix {
	data := make([][]element.Element, numCols)
	for c := range data {
		col := make([]element.Element, numRows)
		for r := range col {
			col[r] = val
		}
		data[c] = col
	}
	return Matrix{data: data}
}

// GenUniformRand returns a matrix of shape (numCols, numRows) with
// entries mod q drawn uniformly at random.
func GenUniformRand(q uint64, numRows, numCols int) (Matrix, error) {
	data := make([][]element.Element, numCols)
	for c := range data {
		col := make([]element.Element, numRows)
		for r := range col {
			e, err := element.GenUniformRand(q)
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: uniform generation failed")
			}
			col[r] = e
		}
		data[c] = col
	}
	return Matrix{data: data}, nil
}

// GenUniformRandSeeded returns a matrix of shape (numCols, numRows) with
// entries mod q drawn from a deterministic PRNG keyed by seed. Two calls
// with the same seed, q, and dimensions regenerate the identical matrix,
// which is how a PIR server publishes its public matrix without
// transmitting it: the client derives the same matrix from the shared
// seed.
func GenUniformRandSeeded(seed [32]byte, q uint64, numRows, numCols int) Matrix {
	s := sample.NewDeterministic(seed, q)
	data := make([][]element.Element, numCols)
	for c := range data {
		col := make([]element.Element, numRows)
		for r := range col {
			v, _ := s.Sample() // Deterministic.Sample never errors.
			col[r] = element.From(q, v)
		}
		data[c] = col
	}
	return Matrix{data: data}
}

// GenNormalRand returns a matrix of shape (numCols, numRows) with
// entries mod q drawn from a discrete Gaussian with the given standard
// deviation.
func GenNormalRand(q uint64, stdDev float64, numRows, numCols int) (Matrix, error) {
	data := make([][]element.Element, numCols)
	for c := range data {
		col := make([]element.Element, numRows)
		for r := range col {
			e, err := element.GenNormalRand(q, stdDev)
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: normal generation failed")
			}
			col[r] = e
		}
		data[c] = col
	}
	return Matrix{data: data}, nil
}

// NumCols returns the number of columns.
func (m Matrix) NumCols() int {
	return len(m.data)
}

// NumRows returns the number of rows. It is 0 for an empty matrix.
func (m Matrix) NumRows() int {
	if len(m.data) == 0 {
		return 0
	}
	return len(m.data[0])
}

// Get returns the element at the given column and row.
func (m Matrix) Get(col, row int) (element.Element, error) {
	if col < 0 || col >= m.NumCols() || row < 0 || row >= m.NumRows() {
		return element.Element{}, errors.Wrapf(internal.ErrIndexOutOfRange, "col=%d row=%d", col, row)
	}
	return m.data[col][row], nil
}

// Set stores e at the given column and row.
func (m Matrix) Set(col, row int, e element.Element) error {
	if col < 0 || col >= m.NumCols() || row < 0 || row >= m.NumRows() {
		return errors.Wrapf(internal.ErrIndexOutOfRange, "col=%d row=%d", col, row)
	}
	m.data[col][row] = e
	return nil
}

func (m Matrix) checkSameDims(other Matrix) error {
	if m.NumCols() != other.NumCols() || m.NumRows() != other.NumRows() {
		return errors.Wrapf(internal.ErrShapeMismatch, "%dx%d vs %dx%d", m.NumCols(), m.NumRows(), other.NumCols(), other.NumRows())
	}
	return nil
}

// Rotated returns the transpose of m: columns become rows.
func (m Matrix) Rotated() Matrix {
	nc, nr := m.NumCols(), m.NumRows()
	out := make([][]element.Element, nr)
	for i := 0; i < nr; i++ {
		row := make([]element.Element, nc)
		for j := 0; j < nc; j++ {
			row[j] = m.data[j][i]
		}
		out[i] = row
	}
	return Matrix{data: out}
}

// Add returns the entrywise sum of m and other.
func (m Matrix) Add(other Matrix) (Matrix, error) {
	if err := m.checkSameDims(other); err != nil {
		return Matrix{}, err
	}
	out := New(0, m.NumRows(), m.NumCols())
	for c := 0; c < m.NumCols(); c++ {
		for r := 0; r < m.NumRows(); r++ {
			v, err := m.data[c][r].Add(other.data[c][r])
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: add")
			}
			out.data[c][r] = v
		}
	}
	return out, nil
}

// Sub returns the entrywise difference m - other.
func (m Matrix) Sub(other Matrix) (Matrix, error) {
	if err := m.checkSameDims(other); err != nil {
		return Matrix{}, err
	}
	out := New(0, m.NumRows(), m.NumCols())
	for c := 0; c < m.NumCols(); c++ {
		for r := 0; r < m.NumRows(); r++ {
			v, err := m.data[c][r].Sub(other.data[c][r])
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: sub")
			}
			out.data[c][r] = v
		}
	}
	return out, nil
}

// Mul returns the product of m and other. It requires m.NumRows() ==
// other.NumCols(); the result has m.NumCols() columns and
// other.NumRows() rows.
func (m Matrix) Mul(other Matrix) (Matrix, error) {
	if m.NumRows() != other.NumCols() {
		return Matrix{}, errors.Wrapf(internal.ErrShapeMismatch, "mul: %dx%d by %dx%d", m.NumCols(), m.NumRows(), other.NumCols(), other.NumRows())
	}
	n := m.NumCols()
	k := m.NumRows() // = other.NumCols()
	p := other.NumRows()

	out := make([][]element.Element, n)
	for i := 0; i < n; i++ {
		row := make([]element.Element, p)
		for j := 0; j < p; j++ {
			var sum element.Element
			var q uint64
			if n > 0 && p > 0 {
				q = m.data[i][0].Q()
			}
			sum = element.New(q)
			for l := 0; l < k; l++ {
				prod, err := m.data[i][l].Mul(other.data[l][j])
				if err != nil {
					return Matrix{}, errors.Wrap(err, "matrix: mul")
				}
				sum, err = sum.Add(prod)
				if err != nil {
					return Matrix{}, errors.Wrap(err, "matrix: mul accumulate")
				}
			}
			row[j] = sum
		}
		out[i] = row
	}
	return Matrix{data: out}, nil
}

// MulVec multiplies m by the vector rhs, contracting over m.NumRows(),
// which must equal len(rhs): entry j of the result is the dot product of
// column j of m with rhs. The result has shape (m.NumCols(), 1).
func (m Matrix) MulVec(rhs []element.Element) (Matrix, error) {
	if m.NumRows() != len(rhs) {
		return Matrix{}, errors.Wrapf(internal.ErrShapeMismatch, "mul_vec: %d rows vs vector length %d", m.NumRows(), len(rhs))
	}
	out := make([][]element.Element, m.NumCols())
	for c := 0; c < m.NumCols(); c++ {
		q := m.data[c][0].Q()
		sum := element.New(q)
		for r := 0; r < m.NumRows(); r++ {
			prod, err := m.data[c][r].Mul(rhs[r])
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: mul_vec")
			}
			sum, err = sum.Add(prod)
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: mul_vec accumulate")
			}
		}
		out[c] = []element.Element{sum}
	}
	return Matrix{data: out}, nil
}

// Flatten reads m as a plain vector: m must have exactly one row or
// exactly one column.
func (m Matrix) Flatten() ([]element.Element, error) {
	if m.NumRows() == 1 {
		out := make([]element.Element, m.NumCols())
		for c := 0; c < m.NumCols(); c++ {
			out[c] = m.data[c][0]
		}
		return out, nil
	}
	if m.NumCols() == 1 {
		out := make([]element.Element, m.NumRows())
		copy(out, m.data[0])
		return out, nil
	}
	return nil, errors.Wrapf(internal.ErrShapeMismatch, "flatten: %dx%d is not a vector", m.NumCols(), m.NumRows())
}

// MulElem returns m with every entry multiplied by e.
func (m Matrix) MulElem(e element.Element) (Matrix, error) {
	out := New(e.Q(), m.NumRows(), m.NumCols())
	for c := 0; c < m.NumCols(); c++ {
		for r := 0; r < m.NumRows(); r++ {
			v, err := m.data[c][r].Mul(e)
			if err != nil {
				return Matrix{}, errors.Wrap(err, "matrix: mul_elem")
			}
			out.data[c][r] = v
		}
	}
	return out, nil
}

// ChangeQ rebinds every entry of m to the new modulus q, preserving
// integer values. It is used to lift a plaintext-modulus matrix (mod p)
// into ciphertext space (mod q) before combining it with ciphertext
// arithmetic.
func (m Matrix) ChangeQ(q uint64) Matrix {
	out := make([][]element.Element, m.NumCols())
	for c := range out {
		col := make([]element.Element, m.NumRows())
		for r := range col {
			col[r] = m.data[c][r].ChangeQ(q)
		}
		out[c] = col
	}
	return Matrix{data: out}
}

// AppendCol appends col as a new, rightmost column. It requires
// len(col) == m.NumRows() unless m is currently empty.
func (m *Matrix) AppendCol(col []element.Element) error {
	if m.NumCols() > 0 && len(col) != m.NumRows() {
		return errors.Wrapf(internal.ErrShapeMismatch, "append_col: have %d rows, got %d", m.NumRows(), len(col))
	}
	m.data = append(m.data, col)
	return nil
}

// Decompose replaces every entry with its base-p digit expansion,
// widening the matrix by a factor of k = DigitWidth(q, p) columns, where
// q is the largest modulus among m's entries: each original column
// becomes k columns of digits, least-significant first, each digit
// itself an Element mod p.
//
// DoublePIR uses this to re-express its mod-q intermediate products as
// small base-p digits, which it lifts back to modulus q with ChangeQ
// before multiplying them by its second public matrix.
func (m Matrix) Decompose(p uint64) (Matrix, error) {
	if p < 2 {
		return Matrix{}, errors.Wrapf(internal.ErrInvalidParams, "decompose: p=%d", p)
	}
	k := DigitWidth(m.maxModulus(), p)
	numRows := m.NumRows()
	out := make([][]element.Element, 0, m.NumCols()*k)
	for c := 0; c < m.NumCols(); c++ {
		digitCols := make([][]element.Element, k)
		for d := range digitCols {
			digitCols[d] = make([]element.Element, numRows)
		}
		for r := 0; r < numRows; r++ {
			v := m.data[c][r].Uint64()
			for d := 0; d < k; d++ {
				digitCols[d][r] = element.From(p, v%p)
				v /= p
			}
		}
		out = append(out, digitCols...)
	}
	return Matrix{data: out}, nil
}

// Recompose inverts Decompose: every run of k = DigitWidth(q, p)
// consecutive columns, each holding base-p digits, is recombined into a
// single column of Elements mod q.
func (m Matrix) Recompose(p, q uint64) (Matrix, error) {
	k := DigitWidth(q, p)
	if m.NumCols()%k != 0 {
		return Matrix{}, errors.Wrapf(internal.ErrShapeMismatch, "recompose: %d cols not a multiple of k=%d", m.NumCols(), k)
	}
	numRows := m.NumRows()
	groups := m.NumCols() / k
	out := make([][]element.Element, groups)
	for g := 0; g < groups; g++ {
		col := make([]element.Element, numRows)
		for r := 0; r < numRows; r++ {
			var v uint64
			var mult uint64 = 1
			for d := 0; d < k; d++ {
				v += m.data[g*k+d][r].Uint64() * mult
				mult *= p
			}
			col[r] = element.From(q, v%q)
		}
		out[g] = col
	}
	return Matrix{data: out}, nil
}

// DigitWidth returns the number of base-p digits needed to represent any
// value below q, i.e. the digit count of q-1: k = floor(log_p(q-1)) + 1,
// which equals ceil(log_p(q-1)) unless q-1 is a power of p. It returns 1
// when q <= 1 or p < 2.
func DigitWidth(q, p uint64) int {
	if q <= 1 || p < 2 {
		return 1
	}
	k := 0
	max := q - 1
	for max > 0 {
		max /= p
		k++
	}
	if k == 0 {
		k = 1
	}
	return k
}

func (m Matrix) maxModulus() uint64 {
	var q uint64
	for _, col := range m.data {
		for _, e := range col {
			if e.Q() > q {
				q = e.Q()
			}
		}
	}
	return q
}

// Equals reports whether m and other hold identical Elements in
// identical positions.
func (m Matrix) Equals(other Matrix) bool {
	if m.NumCols() != other.NumCols() || m.NumRows() != other.NumRows() {
		return false
	}
	for c := range m.data {
		for r := range m.data[c] {
			if !m.data[c][r].Equal(other.data[c][r]) {
				return false
			}
		}
	}
	return true
}
