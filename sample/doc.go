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

// Package sample includes samplers for drawing random uint64 values
// destined to become Element or Matrix entries.
//
// Package sample provides the Sampler interface along with several
// implementations of it: uniform sampling over an interval, the small
// centered error distribution used by the Regev error vector, a general
// discrete Gaussian for Element.GenNormalRand, and a deterministic
// stream-cipher-backed sampler for reproducibly regenerating public
// matrices from a shared seed.
package sample
