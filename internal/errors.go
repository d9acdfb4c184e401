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

// Package internal holds the sentinel errors shared by every exported
// package in the module, so that callers can test for a failure class
// with errors.Is regardless of which component produced it.
package internal

import "errors"

// ErrShapeMismatch is returned when a matrix or vector operation is given
// operands whose dimensions are incompatible.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrModulusMismatch is returned when an operation is given Elements or
// matrices defined over different moduli.
var ErrModulusMismatch = errors.New("modulus mismatch")

// ErrIndexOutOfRange is returned when a caller-supplied index (a query
// row or column, typically) falls outside the database bounds.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrInvalidParams is returned by a Params constructor when the supplied
// parameters are insane on their face (p >= q, sigma >= q, n == 0, ...).
var ErrInvalidParams = errors.New("invalid parameters")
