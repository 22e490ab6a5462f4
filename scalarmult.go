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

package edwards25519

import (
	"crypto/subtle"
	"sync"
)

// baseTable holds, for each of the 32 byte positions i and each multiplier
// j in [1,8], the precomp entry for j*256^i*B (spec.md 3's "Precomputation
// table": 32*8*3*10 int64 limbs, ~60 KiB). Built lazily, once, behind a
// sync.Once: concurrent first callers block on the same construction and
// every later call is a lock-free read of the now-immutable table.
var (
	baseTableOnce sync.Once
	baseTable     [32][8]precomp
)

func ensureBaseTable() {
	baseTableOnce.Do(func() {
		unit := NewGeneratorPoint()
		for i := 0; i < 32; i++ {
			acc := new(Point).Set(unit)
			baseTable[i][0] = precompOf(acc)
			for j := 1; j < 8; j++ {
				acc = new(Point).add(acc, unit)
				baseTable[i][j] = precompOf(acc)
			}
			if i != 31 {
				next := new(Point).Set(unit)
				for k := 0; k < 8; k++ {
					next.double(next)
				}
				unit = next
			}
		}
	})
}

// selectRow sets pc to row[idx-1] in constant time for idx in [1,8], or to
// the identity entry if idx == 0 (no mask matches). This is spec.md 4.4's
// Lookup: iterate j from 1 to 8 and conditionally move table[j-1] using a
// mask built from ((j xor abs) - 1) >> 31.
func selectRow(pc *precomp, row *[8]precomp, idx int) {
	pc.yPlusX.One()
	pc.yMinusX.One()
	pc.xy2d.Zero()
	for j := 1; j <= 8; j++ {
		mask := int(subtle.ConstantTimeEq(int32(j), int32(idx)))
		pc.yPlusX.Select(&row[j-1].yPlusX, &pc.yPlusX, mask)
		pc.yMinusX.Select(&row[j-1].yMinusX, &pc.yMinusX, mask)
		pc.xy2d.Select(&row[j-1].xy2d, &pc.xy2d, mask)
	}
}

// buildSmallTable computes the nine precomp entries {0*p, 1*p, ..., 8*p}
// for an arbitrary point p, for use by ScalarMult. It always performs the
// same sequence of operations regardless of p; p need not be secret for this to be safe, and no
// branch here depends on the multiplying scalar.
func buildSmallTable(p *Point) [9]precomp {
	var table [9]precomp
	table[0] = identityPrecomp()
	acc := new(Point).Set(p)
	table[1] = precompOf(acc)
	for k := 2; k <= 8; k++ {
		next := new(Point).add(acc, p)
		table[k] = precompOf(next)
		acc = next
	}
	return table
}

// scalarBytes returns s's 32-byte little-endian representation, suitable
// for recode regardless of whether s was produced by SetBytesWithClamping
// (unreduced) or one of the mod-ell constructors (reduced, hence < ell <
// 2^253 < 2^255, recode's precondition).
func scalarBytes(s *Scalar) [32]byte {
	return s.b
}

// windowedMult runs ScalarMult's constant-time signed-digit windowed
// multiply against an arbitrary (non-fixed) point's small table: acc =
// sum_i digit[i] * 16^i * P, one quadruple-doubling and one constant-time
// addPrecomp per nibble (table[|digit|], sign-adjusted).
func windowedMult(table [9]precomp, s *Scalar) *Point {
	digits := recode(scalarBytes(s))

	acc := NewIdentityPoint()
	for i := 63; i >= 0; i-- {
		acc.double(acc)
		acc.double(acc)
		acc.double(acc)
		acc.double(acc)

		idx, sign := absSignDigit(digits[i])
		var pc precomp
		selectPrecomp(&pc, table[:], idx)
		condNegatePrecomp(&pc, sign)
		acc.addPrecomp(acc, &pc)
	}
	return acc
}

// Precompute forces construction of the fixed-base table used by
// ScalarBaseMult. Callers need not invoke this: the table builds itself
// lazily and safely on first use. It exists so a caller that wants to
// pay the one-time setup cost up front (outside a latency-sensitive
// code path) can do so explicitly.
func Precompute() {
	ensureBaseTable()
}

// windowedMultBase runs spec.md 4.4's fixed-base windowed multiply: the
// 64 signed nibbles of s split into an odd-index pass and an even-index
// pass sharing the single 32-row base table, with exactly four doublings
// between the two passes supplying the factor of 16 the odd nibbles need
// (digit i contributes digit[i]*16^i*B; table row i/2 only ever holds
// multiples of 256^(i/2)*B, so the odd pass's contribution is scaled up by
// 16 via the doublings before the even pass is added in directly).
func windowedMultBase(s *Scalar) *Point {
	digits := recode(scalarBytes(s))

	acc := NewIdentityPoint()
	for i := 1; i < 64; i += 2 {
		idx, sign := absSignDigit(digits[i])
		var pc precomp
		selectRow(&pc, &baseTable[i/2], idx)
		condNegatePrecomp(&pc, sign)
		acc.addPrecomp(acc, &pc)
	}

	acc.double(acc)
	acc.double(acc)
	acc.double(acc)
	acc.double(acc)

	for i := 0; i < 64; i += 2 {
		idx, sign := absSignDigit(digits[i])
		var pc precomp
		selectRow(&pc, &baseTable[i/2], idx)
		condNegatePrecomp(&pc, sign)
		acc.addPrecomp(acc, &pc)
	}
	return acc
}

// ScalarBaseMult sets v = s*B, where B is the Edwards25519 base point,
// and returns v. Constant-time in s.
func (v *Point) ScalarBaseMult(s *Scalar) *Point {
	ensureBaseTable()
	return v.Set(windowedMultBase(s))
}

// ScalarMult sets v = s*p and returns v. Constant-time in s; p need not
// be secret (the per-call table built from p is computed with a fixed
// operation sequence regardless of p's value, but the table contents
// themselves are not blinded).
func (v *Point) ScalarMult(s *Scalar, p *Point) *Point {
	table := buildSmallTable(p)
	return v.Set(windowedMult(table, s))
}

// VarTimeDoubleScalarBaseMult sets v = a*A + b*B, where B is the base
// point, and returns v. Variable-time: only ever used to check public
// signature/VRF-proof equations, never on secret scalars.
func (v *Point) VarTimeDoubleScalarBaseMult(a *Scalar, A *Point, b *Scalar) *Point {
	return v.VarTimeMultiScalarMult([]*Scalar{a, b}, []*Point{A, NewGeneratorPoint()})
}

// VarTimeMultiScalarMult sets v = sum_i scalars[i]*points[i] and returns
// v, using a variable-time Straus's algorithm (simultaneous windowed
// multiply sharing one doubling chain across all terms). Panics if the
// two slices have different lengths. Variable-time: only ever used on
// public verification data.
func (v *Point) VarTimeMultiScalarMult(scalars []*Scalar, points []*Point) *Point {
	if len(scalars) != len(points) {
		panic("edwards25519: VarTimeMultiScalarMult: mismatched slice lengths")
	}

	n := len(scalars)
	tables := make([][9]precomp, n)
	digitsPerTerm := make([][64]int8, n)
	for i := range scalars {
		tables[i] = buildSmallTable(points[i])
		digitsPerTerm[i] = recode(scalarBytes(scalars[i]))
	}

	acc := NewIdentityPoint()
	for i := 63; i >= 0; i-- {
		acc.double(acc)
		acc.double(acc)
		acc.double(acc)
		acc.double(acc)

		for j := 0; j < n; j++ {
			d := digitsPerTerm[j][i]
			if d == 0 {
				continue
			}
			idx, sign := absSignDigit(d)
			pc := tables[j][idx]
			if sign == 1 {
				pc.yPlusX, pc.yMinusX = pc.yMinusX, pc.yPlusX
				pc.xy2d.Negate(&pc.xy2d)
			}
			acc.addPrecomp(acc, &pc)
		}
	}
	return v.Set(acc)
}
