// Copyright (c) 2021 Oasis Labs Inc. All rights reserved.
// Copyright (c) 2021 Yawning Angel. All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are
// met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived from
// this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS
// IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED
// TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A
// PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
// HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED
// TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR
// PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF
// LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE OF THIS
// SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package h2c

import (
	"gitlab.com/yawning/ed25519-core.git/field"
	"gitlab.com/yawning/ed25519-core.git/internal/montgomery"

	"gitlab.com/yawning/ed25519-core.git"
)

var (
	constOne = new(field.Element).One()
	constTwo = new(field.Element).Add(constOne, constOne)

	constMONTGOMERY_A_SQUARED = mustFeFromUint64(486662 * 486662)
)

func mustFeFromUint64(x uint64) *field.Element {
	var b [32]byte
	b[0] = byte(x)
	b[1] = byte(x >> 8)
	b[2] = byte(x >> 16)
	b[3] = byte(x >> 24)
	b[4] = byte(x >> 32)
	b[5] = byte(x >> 40)
	b[6] = byte(x >> 48)
	b[7] = byte(x >> 56)
	fe, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		panic("h2c: failed to deserialize constant: " + err.Error())
	}
	return fe
}

// ell2EdwardsFlavor maps a field element r to an edwards25519 point via
// Elligator2, following the Montgomery-curve map (ell2MontgomeryFlavor)
// composed with the RFC 7748 birational map to the twisted Edwards curve.
func ell2EdwardsFlavor(r *field.Element) *edwards25519.Point {
	u, v := ell2MontgomeryFlavor(r)
	return montgomery.ToEdwardsPoint(u, v)
}

// ell2MontgomeryFlavor maps a field element r to a point (u, v) on the
// curve25519 Montgomery curve via the Elligator2 map (RFC 9380 F.2).
//
// This is based off the public domain python implementation by Loup
// Vaillant, taken from the Monocypher package (tests/gen/elligator.py).
func ell2MontgomeryFlavor(r *field.Element) (*field.Element, *field.Element) {
	// r1
	t1 := new(field.Element).Square(r)
	t1.Multiply(t1, constTwo)

	// r2
	u := new(field.Element).Add(t1, constOne)

	t2 := new(field.Element).Square(u)

	// numerator
	t3 := new(field.Element).Multiply(constMONTGOMERY_A_SQUARED, t1)
	t3.Subtract(t3, t2)
	t3.Multiply(t3, montgomery.A)

	// denominator
	t1.Multiply(t2, u)

	t1.Multiply(t1, t3)
	_, isSquare := t1.SqrtRatio(constOne, t1)

	u.Square(r)
	u.Multiply(u, montgomery.U_FACTOR)

	v := new(field.Element).Multiply(r, montgomery.V_FACTOR)

	u.Select(constOne, u, isSquare)
	v.Select(constOne, v, isSquare)

	v.Multiply(v, t3)
	v.Multiply(v, t1)

	t1.Square(t1)

	u.Multiply(u, montgomery.NEG_A)
	u.Multiply(u, t3)
	u.Multiply(u, t2)
	u.Multiply(u, t1)

	negV := new(field.Element).Negate(v)
	v.Select(negV, v, isSquare^v.IsNegative())

	return u, v
}
