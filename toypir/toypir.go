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

// Package toypir implements a didactic private-information-retrieval
// protocol on top of regev: the client sends one Regev ciphertext per
// database entry, encrypting a one-hot selection vector, and the server
// homomorphically sums (or multiply-accumulates) the ciphertexts at the
// positions the database calls for. Nothing about this is
// sublinear-communication; it exists to demonstrate the homomorphism
// SimplePIR and DoublePIR exploit more efficiently.
package toypir

import (
	"github.com/pkg/errors"

	"github.com/geometryxyz/simplepir-go/element"
	"github.com/geometryxyz/simplepir-go/internal"
	"github.com/geometryxyz/simplepir-go/matrix"
	"github.com/geometryxyz/simplepir-go/regev"
)

// GenDB returns a database of dbSize Elements mod params.P, suitable for
// treatment as bits when P=2.
func GenDB(dbSize int, params regev.Params) ([]element.Element, error) {
	return GenDBQ(dbSize, params.P)
}

// GenDBQ returns a database of dbSize Elements mod q.
func GenDBQ(dbSize int, q uint64) ([]element.Element, error) {
	db := make([]element.Element, dbSize)
	for i := range db {
		e, err := element.GenUniformRand(q)
		if err != nil {
			return nil, errors.Wrap(err, "toypir: generating database")
		}
		db[i] = e
	}
	return db, nil
}

// Query returns dbSize ciphertexts encrypting a one-hot vector with a 1
// at idx and 0 elsewhere, under secret s.
func Query(params regev.Params, idx int, s []element.Element, dbSize int) ([]element.Element, error) {
	if idx < 0 || idx >= dbSize {
		return nil, errors.Wrapf(internal.ErrIndexOutOfRange, "toypir: idx=%d, dbSize=%d", idx, dbSize)
	}
	query := make([]element.Element, dbSize)
	for i := 0; i < dbSize; i++ {
		bit := uint64(0)
		if i == idx {
			bit = 1
		}
		e, err := regev.GenErrorVec(params.Q, params.M)
		if err != nil {
			return nil, errors.Wrap(err, "toypir: generating query error")
		}
		c, err := regev.Encrypt(params, s, e, element.From(params.P, bit))
		if err != nil {
			return nil, errors.Wrap(err, "toypir: encrypting query bit")
		}
		query[i] = c
	}
	return query, nil
}

// Answer returns the server's homomorphic answer using the sum-if-one
// strategy, efficient when db entries are bits: it sums params.A and the
// corresponding query ciphertext for every db entry equal to 1.
func Answer(params regev.Params, query []element.Element, db []element.Element) (matrix.Matrix, element.Element, error) {
	if len(query) != len(db) {
		return matrix.Matrix{}, element.Element{}, errors.Wrapf(internal.ErrShapeMismatch, "toypir: query length %d vs db length %d", len(query), len(db))
	}
	summedA := matrix.FromVal(params.A.NumRows(), params.A.NumCols(), element.New(params.Q))
	summedC := element.New(params.Q)

	for i, item := range db {
		if item.Uint64() != 1 {
			continue
		}
		var err error
		summedA, err = summedA.Add(params.A)
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer: accumulate A")
		}
		summedC, err = summedC.Add(query[i])
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer: accumulate c")
		}
	}
	return summedA, summedC, nil
}

// AnswerGeneral returns the server's homomorphic answer using the
// multiply-and-accumulate strategy, valid for general mod-q database
// entries (not just bits): it accumulates db[i]*params.A and
// db[i]*query[i] for every i.
func AnswerGeneral(params regev.Params, query []element.Element, db []element.Element) (matrix.Matrix, element.Element, error) {
	if len(query) != len(db) {
		return matrix.Matrix{}, element.Element{}, errors.Wrapf(internal.ErrShapeMismatch, "toypir: query length %d vs db length %d", len(query), len(db))
	}
	summedA := matrix.FromVal(params.A.NumRows(), params.A.NumCols(), element.New(params.Q))
	summedC := element.New(params.Q)

	for i, item := range db {
		dbItem := item.ChangeQ(params.Q)

		scaledA, err := params.A.MulElem(dbItem)
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer_general: scale A")
		}
		summedA, err = summedA.Add(scaledA)
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer_general: accumulate A")
		}

		scaledC, err := query[i].Mul(dbItem)
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer_general: scale c")
		}
		summedC, err = summedC.Add(scaledC)
		if err != nil {
			return matrix.Matrix{}, element.Element{}, errors.Wrap(err, "toypir: answer_general: accumulate c")
		}
	}
	return summedA, summedC, nil
}

// Recover decrypts the server's answer under secret s, using summedA in
// place of params.A: this works because scalar multiplication of a
// Regev ciphertext by k carries through to (kA, kA*s + ke + k*delta*mu),
// decryptable under the same secret against the public matrix kA.
func Recover(params regev.Params, secret []element.Element, summedA matrix.Matrix, summedC element.Element) (element.Element, error) {
	answerParams := params
	answerParams.A = summedA
	return regev.Decrypt(answerParams, secret, summedC)
}
