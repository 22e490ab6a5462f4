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

package field

// Invert sets v = 1/a (mod p) and returns v, using Fermat's little
// theorem (a^(p-2)) via the standard fixed addition chain. The chain's
// shape does not depend on the value of a, only squarings and multiplies
// in a data-independent pattern, so this is safe to use on secret field
// elements.
func (v *Element) Invert(a *Element) *Element {
	var z2, z8, z9, z11, z22, z5_0, z10_5, z10_0, z20_10, z20_0 Element
	var z40_20, z40_0, z50_10, z50_0, z100_50, z100_0 Element
	var z200_100, z200_0, z250_50, z250_0, z255_5 Element

	z2.Square(a)
	z8.Square(&z2)
	z8.Square(&z8)
	z9.Multiply(&z8, a)
	z11.Multiply(&z9, &z2)
	z22.Square(&z11)
	z5_0.Multiply(&z22, &z9)

	z10_5.Set(&z5_0)
	for i := 0; i < 5; i++ {
		z10_5.Square(&z10_5)
	}
	z10_0.Multiply(&z10_5, &z5_0)

	z20_10.Set(&z10_0)
	for i := 0; i < 10; i++ {
		z20_10.Square(&z20_10)
	}
	z20_0.Multiply(&z20_10, &z10_0)

	z40_20.Set(&z20_0)
	for i := 0; i < 20; i++ {
		z40_20.Square(&z40_20)
	}
	z40_0.Multiply(&z40_20, &z20_0)

	z50_10.Set(&z40_0)
	for i := 0; i < 10; i++ {
		z50_10.Square(&z50_10)
	}
	z50_0.Multiply(&z50_10, &z10_0)

	z100_50.Set(&z50_0)
	for i := 0; i < 50; i++ {
		z100_50.Square(&z100_50)
	}
	z100_0.Multiply(&z100_50, &z50_0)

	z200_100.Set(&z100_0)
	for i := 0; i < 100; i++ {
		z200_100.Square(&z200_100)
	}
	z200_0.Multiply(&z200_100, &z100_0)

	z250_50.Set(&z200_0)
	for i := 0; i < 50; i++ {
		z250_50.Square(&z250_50)
	}
	z250_0.Multiply(&z250_50, &z50_0)

	z255_5.Set(&z250_0)
	for i := 0; i < 5; i++ {
		z255_5.Square(&z255_5)
	}

	v.Multiply(&z255_5, &z11)
	return v
}

// pow22523 sets v = a^((p-5)/8) (mod p), the addition chain shared by the
// Elligator / square-root-of-ratio machinery. Same data-independent shape
// as Invert.
func (v *Element) pow22523(a *Element) *Element {
	var z2, z8, z9, z11, z22, z5_0, z10_5, z10_0, z20_10, z20_0 Element
	var z40_20, z40_0, z50_10, z50_0, z100_50, z100_0 Element
	var z200_100, z200_0, z250_50, z250_0, z252_2 Element

	z2.Square(a)
	z8.Square(&z2)
	z8.Square(&z8)
	z9.Multiply(&z8, a)
	z11.Multiply(&z9, &z2)
	z22.Square(&z11)
	z5_0.Multiply(&z22, &z9)

	z10_5.Set(&z5_0)
	for i := 0; i < 5; i++ {
		z10_5.Square(&z10_5)
	}
	z10_0.Multiply(&z10_5, &z5_0)

	z20_10.Set(&z10_0)
	for i := 0; i < 10; i++ {
		z20_10.Square(&z20_10)
	}
	z20_0.Multiply(&z20_10, &z10_0)

	z40_20.Set(&z20_0)
	for i := 0; i < 20; i++ {
		z40_20.Square(&z40_20)
	}
	z40_0.Multiply(&z40_20, &z20_0)

	z50_10.Set(&z40_0)
	for i := 0; i < 10; i++ {
		z50_10.Square(&z50_10)
	}
	z50_0.Multiply(&z50_10, &z10_0)

	z100_50.Set(&z50_0)
	for i := 0; i < 50; i++ {
		z100_50.Square(&z100_50)
	}
	z100_0.Multiply(&z100_50, &z50_0)

	z200_100.Set(&z100_0)
	for i := 0; i < 100; i++ {
		z200_100.Square(&z200_100)
	}
	z200_0.Multiply(&z200_100, &z100_0)

	z250_50.Set(&z200_0)
	for i := 0; i < 50; i++ {
		z250_50.Square(&z250_50)
	}
	z250_0.Multiply(&z250_50, &z50_0)

	z252_2.Square(&z250_0)
	z252_2.Square(&z252_2)

	v.Multiply(&z252_2, a)
	return v
}

// sqrtM1 is a square root of -1 (mod p), used to recover the other
// candidate root when the first guess produced by pow22523 has the wrong
// sign.
var sqrtM1 = &Element{l: decodeCanonical([32]byte{
	0xb0, 0xa0, 0x0e, 0x4a, 0x27, 0x1b, 0xee, 0xc4, 0x78, 0xe4, 0x2f, 0xad, 0x06, 0x18, 0x43, 0x2f,
	0xa7, 0xd7, 0xfb, 0x3d, 0x99, 0x00, 0x4d, 0x2b, 0x0b, 0xdf, 0xc1, 0x4f, 0x80, 0x24, 0x83, 0x2b,
})}

// SqrtRatio sets v to a square root of u/v and reports whether u/v was
// actually a quadratic residue. Matches the classic ed25519 decode
// formula: x = u*v^3*(u*v^7)^((p-5)/8); v*x^2 is then checked against
// ±u. If u/v is not a square, v is set to a square root of
// sqrt(-1)*u/v instead. Variable-time: only ever called on public data (point decoding and
// Elligator, never on secret scalars or the resulting point coordinates
// of a not-yet-validated signature).
func (v *Element) SqrtRatio(u, vv *Element) (*Element, int) {
	var v2, v3, v7, uv7, x, check, negU Element

	v2.Square(vv)
	v3.Multiply(&v2, vv)
	v7.Square(&v3)
	v7.Multiply(&v7, vv)

	uv7.Multiply(u, &v7)
	x.pow22523(&uv7)
	x.Multiply(&x, u)
	x.Multiply(&x, &v3)

	check.Square(&x)
	check.Multiply(&check, vv)

	var ucanon, checkcanon [32]byte
	u.normalizeBytes(&ucanon)
	check.normalizeBytes(&checkcanon)
	if ucanon == checkcanon {
		v.Set(&x)
		return v, 1
	}

	negU.Negate(u)
	var negUcanon [32]byte
	negU.normalizeBytes(&negUcanon)
	if negUcanon == checkcanon {
		v.Multiply(&x, sqrtM1)
		return v, 1
	}

	// Not a square: v*x^2 is now sqrt(-1)*u or -sqrt(-1)*u. Return the
	// root for which v*x^2 == sqrt(-1)*u, the value Elligator2 relies on.
	var negIU Element
	var negIUcanon [32]byte
	negIU.Multiply(&negU, sqrtM1)
	negIU.normalizeBytes(&negIUcanon)
	if negIUcanon == checkcanon {
		v.Multiply(&x, sqrtM1)
		return v, 0
	}
	v.Set(&x)
	return v, 0
}
