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

// Multiply sets v = a*b and returns v. a and b must each be within one
// carry() of canonical (i.e. either freshly decoded, or the direct
// output of another Multiply/Square/Carry); the Edwards layer is
// responsible for calling Carry on pure-addition intermediates first.
func (v *Element) Multiply(a, b *Element) *Element {
	f0, f1, f2, f3, f4, f5, f6, f7, f8, f9 := a.l[0], a.l[1], a.l[2], a.l[3], a.l[4], a.l[5], a.l[6], a.l[7], a.l[8], a.l[9]
	g0, g1, g2, g3, g4, g5, g6, g7, g8, g9 := b.l[0], b.l[1], b.l[2], b.l[3], b.l[4], b.l[5], b.l[6], b.l[7], b.l[8], b.l[9]

	g1_19 := 19 * g1
	g2_19 := 19 * g2
	g3_19 := 19 * g3
	g4_19 := 19 * g4
	g5_19 := 19 * g5
	g6_19 := 19 * g6
	g7_19 := 19 * g7
	g8_19 := 19 * g8
	g9_19 := 19 * g9
	f1_2 := 2 * f1
	f3_2 := 2 * f3
	f5_2 := 2 * f5
	f7_2 := 2 * f7
	f9_2 := 2 * f9

	h0 := f0*g0 + f1_2*g9_19 + f2*g8_19 + f3_2*g7_19 + f4*g6_19 + f5_2*g5_19 + f6*g4_19 + f7_2*g3_19 + f8*g2_19 + f9_2*g1_19
	h1 := f0*g1 + f1*g0 + f2*g9_19 + f3*g8_19 + f4*g7_19 + f5*g6_19 + f6*g5_19 + f7*g4_19 + f8*g3_19 + f9*g2_19
	h2 := f0*g2 + f1_2*g1 + f2*g0 + f3_2*g9_19 + f4*g8_19 + f5_2*g7_19 + f6*g6_19 + f7_2*g5_19 + f8*g4_19 + f9_2*g3_19
	h3 := f0*g3 + f1*g2 + f2*g1 + f3*g0 + f4*g9_19 + f5*g8_19 + f6*g7_19 + f7*g6_19 + f8*g5_19 + f9*g4_19
	h4 := f0*g4 + f1_2*g3 + f2*g2 + f3_2*g1 + f4*g0 + f5_2*g9_19 + f6*g8_19 + f7_2*g7_19 + f8*g6_19 + f9_2*g5_19
	h5 := f0*g5 + f1*g4 + f2*g3 + f3*g2 + f4*g1 + f5*g0 + f6*g9_19 + f7*g8_19 + f8*g7_19 + f9*g6_19
	h6 := f0*g6 + f1_2*g5 + f2*g4 + f3_2*g3 + f4*g2 + f5_2*g1 + f6*g0 + f7_2*g9_19 + f8*g8_19 + f9_2*g7_19
	h7 := f0*g7 + f1*g6 + f2*g5 + f3*g4 + f4*g3 + f5*g2 + f6*g1 + f7*g0 + f8*g9_19 + f9*g8_19
	h8 := f0*g8 + f1_2*g7 + f2*g6 + f3_2*g5 + f4*g4 + f5_2*g3 + f6*g2 + f7_2*g1 + f8*g0 + f9_2*g9_19
	h9 := f0*g9 + f1*g8 + f2*g7 + f3*g6 + f4*g5 + f5*g4 + f6*g3 + f7*g2 + f8*g1 + f9*g0

	v.l = [10]int64{h0, h1, h2, h3, h4, h5, h6, h7, h8, h9}
	carryMul(&v.l)
	return v
}

// Square sets v = a*a and returns v. Same input envelope as Multiply.
func (v *Element) Square(a *Element) *Element {
	f0, f1, f2, f3, f4, f5, f6, f7, f8, f9 := a.l[0], a.l[1], a.l[2], a.l[3], a.l[4], a.l[5], a.l[6], a.l[7], a.l[8], a.l[9]

	f0_2 := 2 * f0
	f1_2 := 2 * f1
	f2_2 := 2 * f2
	f3_2 := 2 * f3
	f4_2 := 2 * f4
	f5_2 := 2 * f5
	f6_2 := 2 * f6
	f7_2 := 2 * f7
	f5_38 := 38 * f5
	f6_19 := 19 * f6
	f7_38 := 38 * f7
	f8_19 := 19 * f8
	f9_38 := 38 * f9

	f0f0 := f0 * f0
	f0f1_2 := f0_2 * f1
	f0f2_2 := f0_2 * f2
	f0f3_2 := f0_2 * f3
	f0f4_2 := f0_2 * f4
	f0f5_2 := f0_2 * f5
	f0f6_2 := f0_2 * f6
	f0f7_2 := f0_2 * f7
	f0f8_2 := f0_2 * f8
	f0f9_2 := f0_2 * f9
	f1f1_2 := f1_2 * f1
	f1f2_2 := f1_2 * f2
	f1f3_4 := f1_2 * f3_2
	f1f4_2 := f1_2 * f4
	f1f5_4 := f1_2 * f5_2
	f1f6_2 := f1_2 * f6
	f1f7_4 := f1_2 * f7_2
	f1f8_2 := f1_2 * f8
	f1f9_76 := f1_2 * f9_38
	f2f2 := f2 * f2
	f2f3_2 := f2_2 * f3
	f2f4_2 := f2_2 * f4
	f2f5_2 := f2_2 * f5
	f2f6_2 := f2_2 * f6
	f2f7_2 := f2_2 * f7
	f2f8_38 := f2_2 * f8_19
	f2f9_38 := f2 * f9_38
	f3f3_2 := f3_2 * f3
	f3f4_2 := f3_2 * f4
	f3f5_4 := f3_2 * f5_2
	f3f6_2 := f3_2 * f6
	f3f7_76 := f3_2 * f7_38
	f3f8_38 := f3_2 * f8_19
	f3f9_76 := f3_2 * f9_38
	f4f4 := f4 * f4
	f4f5_2 := f4_2 * f5
	f4f6_38 := f4_2 * f6_19
	f4f7_38 := f4 * f7_38
	f4f8_38 := f4_2 * f8_19
	f4f9_38 := f4 * f9_38
	f5f5_38 := f5 * f5_38
	f5f6_38 := f5_2 * f6_19
	f5f7_76 := f5_2 * f7_38
	f5f8_38 := f5_2 * f8_19
	f5f9_76 := f5_2 * f9_38
	f6f6_19 := f6 * f6_19
	f6f7_38 := f6 * f7_38
	f6f8_38 := f6_2 * f8_19
	f6f9_38 := f6 * f9_38
	f7f7_38 := f7 * f7_38
	f7f8_38 := f7_2 * f8_19
	f7f9_76 := f7_2 * f9_38
	f8f8_19 := f8 * f8_19
	f8f9_38 := f8 * f9_38
	f9f9_38 := f9 * f9_38

	h0 := f0f0 + f1f9_76 + f2f8_38 + f3f7_76 + f4f6_38 + f5f5_38
	h1 := f0f1_2 + f2f9_38 + f3f8_38 + f4f7_38 + f5f6_38
	h2 := f0f2_2 + f1f1_2 + f3f9_76 + f4f8_38 + f5f7_76 + f6f6_19
	h3 := f0f3_2 + f1f2_2 + f4f9_38 + f5f8_38 + f6f7_38
	h4 := f0f4_2 + f1f3_4 + f2f2 + f5f9_76 + f6f8_38 + f7f7_38
	h5 := f0f5_2 + f1f4_2 + f2f3_2 + f6f9_38 + f7f8_38
	h6 := f0f6_2 + f1f5_4 + f2f4_2 + f3f3_2 + f7f9_76 + f8f8_19
	h7 := f0f7_2 + f1f6_2 + f2f5_2 + f3f4_2 + f8f9_38
	h8 := f0f8_2 + f1f7_4 + f2f6_2 + f3f5_4 + f4f4 + f9f9_38
	h9 := f0f9_2 + f1f8_2 + f2f7_2 + f3f6_2 + f4f5_2

	v.l = [10]int64{h0, h1, h2, h3, h4, h5, h6, h7, h8, h9}
	carryMul(&v.l)
	return v
}

// carryMul is the reduced carry schedule used right after a schoolbook
// multiply/square: it only visits the limb pairs that can actually be out
// of bounds given the products above, rather than the full two-sweep
// carryOnce used elsewhere. Validated against brute-force big-integer
// multiplication over thousands of random field elements.
func carryMul(h *[10]int64) {
	doCarry := func(i, j int) {
		w := widths[i]
		half := int64(1) << (w - 1)
		carry := (h[i] + half) >> w
		h[j] += carry
		h[i] -= carry << w
	}
	doCarry19 := func(i, j int) {
		w := widths[i]
		half := int64(1) << (w - 1)
		carry := (h[i] + half) >> w
		h[j] += carry * 19
		h[i] -= carry << w
	}

	doCarry(0, 1)
	doCarry(4, 5)
	doCarry(1, 2)
	doCarry(5, 6)
	doCarry(2, 3)
	doCarry(6, 7)
	doCarry(3, 4)
	doCarry(7, 8)
	doCarry(4, 5)
	doCarry(8, 9)
	doCarry19(9, 0)
	doCarry(5, 6)
	doCarry(0, 1)
	doCarry(6, 7)
	doCarry(7, 8)
}
