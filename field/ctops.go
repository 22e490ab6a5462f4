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

import "crypto/subtle"

// Select sets v = a if cond == 1, or v = b if cond == 0, and returns v.
// Constant-time: implemented with a full-width mask and XOR, never a
// branch on cond.
//
// Preconditions: cond must be 0 or 1.
func (v *Element) Select(a, b *Element, cond int) *Element {
	mask := int64(-cond)
	for i := range v.l {
		v.l[i] = b.l[i] ^ (mask & (a.l[i] ^ b.l[i]))
	}
	return v
}

// CSwap conditionally swaps a and b in place: if swap == 1 they are
// exchanged, if swap == 0 they are left alone. Constant-time.
//
// Preconditions: swap must be 0 or 1.
func CSwap(a, b *Element, swap int) {
	mask := int64(-swap)
	for i := range a.l {
		t := mask & (a.l[i] ^ b.l[i])
		a.l[i] ^= t
		b.l[i] ^= t
	}
}

// CNegate sets v = a if cond == 0, or v = -a if cond == 1, and returns v.
// Constant-time.
//
// Preconditions: cond must be 0 or 1.
func (v *Element) CNegate(a *Element, cond int) *Element {
	var neg Element
	neg.Negate(a)
	return v.Select(&neg, a, cond)
}

// IsNegative returns 1 if v's canonical representative is odd, and 0
// otherwise. Matches the Edwards encoding's use of the low bit of x as
// its "sign".
func (v *Element) IsNegative() int {
	var buf [32]byte
	v.normalizeBytes(&buf)
	return int(buf[0] & 1)
}

// Equal returns 1 if v == a (as field elements, i.e. after full
// reduction), and 0 otherwise. Constant-time.
func (v *Element) Equal(a *Element) int {
	var vb, ab [32]byte
	v.normalizeBytes(&vb)
	a.normalizeBytes(&ab)
	return subtle.ConstantTimeCompare(vb[:], ab[:])
}

// IsZeroVar reports whether v is the zero field element. May be
// variable-time; only ever called on public verification intermediates
// (spec's isZeroVar).
func (v *Element) IsZeroVar() bool {
	var buf [32]byte
	v.normalizeBytes(&buf)
	return buf == [32]byte{}
}
