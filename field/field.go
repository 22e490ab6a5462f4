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

// Package field implements fast arithmetic modulo p = 2^255 - 19.
package field

// An Element represents an element of the field GF(2^255-19), as ten
// limbs of radix 2^25.5 (limb widths alternate 26, 25, 26, 25, ...). The
// zero value is a valid zero element.
//
// Limbs are allowed to exceed their nominal width by a small, bounded
// amount between a carry() and the next one: every method documents what
// it assumes about its inputs and what it guarantees about its output.
type Element struct {
	l [10]int64
}

// widths holds the bit width of each of the ten limbs; offsets[i] is the
// bit position of the low bit of limb i. Limb i represents a multiple of
// 2^offsets[i], with widths alternating 26/25 so that 10 limbs cover
// exactly 255 bits (26*5 + 25*5 = 255).
var widths = [10]uint{26, 25, 26, 25, 26, 25, 26, 25, 26, 25}

var offsets = [10]uint{0, 26, 51, 77, 102, 128, 153, 179, 204, 230}

// Zero sets v = 0 and returns v.
func (v *Element) Zero() *Element {
	*v = Element{}
	return v
}

// One sets v = 1 and returns v.
func (v *Element) One() *Element {
	*v = Element{l: [10]int64{1}}
	return v
}

// Set sets v = a and returns v.
func (v *Element) Set(a *Element) *Element {
	*v = *a
	return v
}

// Add sets v = a + b, without carrying, and returns v. The result's limbs
// may exceed their nominal widths; it is always safe to feed into another
// Add or Subtract, and safe to feed into Multiply/Square provided the
// chain since the last carry() is bounded (see the Edwards carry-flush
// discipline documented on the root package's point add).
func (v *Element) Add(a, b *Element) *Element {
	for i := range v.l {
		v.l[i] = a.l[i] + b.l[i]
	}
	return v
}

// Subtract sets v = a - b, without carrying, and returns v. Same lazy
// envelope as Add; limbs may go negative, which every downstream
// operation (carry, Multiply, Square, the constant-time primitives)
// handles correctly via arithmetic (sign-extending) shifts.
func (v *Element) Subtract(a, b *Element) *Element {
	for i := range v.l {
		v.l[i] = a.l[i] - b.l[i]
	}
	return v
}

// APM sets sum = a+b and diff = a-b without carrying, computing both at
// once. The twisted Edwards addition/doubling formulas consume exactly
// this pair (e.g. A=(Y1-X1)(Y2-X2), B=(Y1+X1)(Y2+X2)) so building it as a
// single helper avoids repeating the limb loop.
func APM(a, b *Element) (sum, diff *Element) {
	sum, diff = new(Element), new(Element)
	sum.Add(a, b)
	diff.Subtract(a, b)
	return
}

// Negate sets v = -a and returns v.
func (v *Element) Negate(a *Element) *Element {
	var zero Element
	return v.Subtract(&zero, a)
}

// Carry propagates the bounded overflow accumulated by chained
// Add/Subtract/Multiply/Square calls back into the canonical per-limb
// width envelope (each limb back in [0, 2^width)), without fully
// reducing the represented integer below p. This is the spec's `carry`
// primitive: callers must invoke it on any Edwards-formula intermediate
// that is a sum of multiply-magnitude terms before using that
// intermediate as a Multiply/Square input (see F in the root package's
// point double and G in its add and addPrecomp).
func (v *Element) Carry(a *Element) *Element {
	v.Set(a)
	carryOnce(&v.l)
	carryOnce(&v.l)
	return v
}

// carryOnce performs a single low-to-high carry sweep across limbs,
// folding the final overflow (weight 2^255) back into limb 0 scaled by
// 19, since 2^255 == 19 (mod p). Two calls in sequence are enough to
// settle any input produced by a bounded number of chained field ops
// (validated against brute-force big-integer arithmetic over sums of up
// to sixteen field-sized terms).
func carryOnce(l *[10]int64) {
	var carry int64
	for i := 0; i < 10; i++ {
		l[i] += carry
		w := widths[i]
		carry = l[i] >> w
		l[i] -= carry << w
	}
	l[0] += carry * 19
}
