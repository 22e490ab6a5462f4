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
	"fmt"
)

// A Scalar holds a 256-bit little-endian integer. Scalars produced by
// SetCanonicalBytes, SetUniformBytes, Add, Subtract, Negate, and
// Multiply are always reduced into [0, ell). SetBytesWithClamping is the
// one documented exception: it stores the RFC 8032 clamped byte string
// directly, unreduced, because that is the exact exponent
// Point.ScalarBaseMult expects for key generation and signing -- see
// spec.md 4.2's prune and 4.4's fixed-base multiply, which are defined
// over the clamped integer directly, not its reduction mod ell.
type Scalar struct {
	b [32]byte
}

// ellBytes is ell = 2^252 + 27742317777372353535851937790883648493,
// little-endian.
var ellBytes = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2,
	0xde, 0xf9, 0xde, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

// NewScalar returns a new, zero-valued Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// Zero sets s = 0 and returns s.
func (s *Scalar) Zero() *Scalar {
	s.b = [32]byte{}
	return s
}

// Set sets s = a and returns s.
func (s *Scalar) Set(a *Scalar) *Scalar {
	s.b = a.b
	return s
}

// Bytes returns s's 32-byte little-endian encoding. For any Scalar other
// than one produced by SetBytesWithClamping, this is canonical (< ell).
func (s *Scalar) Bytes() []byte {
	out := s.b
	return out[:]
}

// subBorrow computes a-b as 256-bit little-endian integers, returning the
// difference and the borrow (1 if a < b, 0 otherwise).
func subBorrow(a, b [32]byte) ([32]byte, uint32) {
	var out [32]byte
	var borrow int32
	for i := 0; i < 32; i++ {
		d := int32(a[i]) - int32(b[i]) - borrow
		if d < 0 {
			d += 256
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = byte(d)
	}
	return out, uint32(borrow)
}

// addCarry computes a+b as 256-bit little-endian integers, returning the
// sum and the carry-out (0 or 1).
func addCarry(a, b [32]byte) ([32]byte, uint32) {
	var out [32]byte
	var carry uint32
	for i := 0; i < 32; i++ {
		t := uint32(a[i]) + uint32(b[i]) + carry
		out[i] = byte(t)
		carry = t >> 8
	}
	return out, carry
}

// ltVar reports whether a < b, interpreting both as 256-bit little-endian
// unsigned integers. Variable-time (spec's gte, negated; only ever used
// on public scalar bounds checks).
func ltVar(a, b [32]byte) bool {
	_, borrow := subBorrow(a, b)
	return borrow == 1
}

// checkScalarVar reports whether b, read as a little-endian 256-bit
// integer, is a valid scalar: b < ell. Used to reject the malleable
// S >= ell signatures spec.md 4.5/7/8 requires rejecting. Variable-time:
// only ever called on public signature bytes.
func checkScalarVar(b [32]byte) bool {
	return ltVar(b, ellBytes)
}

// SetCanonicalBytes decodes 32 little-endian bytes into s, and returns an
// error if the encoded integer is not a valid, reduced scalar (>= ell).
func (s *Scalar) SetCanonicalBytes(b []byte) (*Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("edwards25519: invalid Scalar encoding length: %d", len(b))
	}
	var buf [32]byte
	copy(buf[:], b)
	if !checkScalarVar(buf) {
		return nil, fmt.Errorf("edwards25519: invalid Scalar encoding: value >= ell")
	}
	s.b = buf
	return s, nil
}

// SetUniformBytes reduces the 512-bit little-endian integer encoded by
// the 64 bytes of b modulo ell, and returns s. This is reduce512 from
// spec.md 4.2.
func (s *Scalar) SetUniformBytes(b []byte) (*Scalar, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("edwards25519: invalid wide Scalar encoding length: %d", len(b))
	}
	var buf [64]byte
	copy(buf[:], b)
	s.b = reduce512(buf)
	return s, nil
}

// SetBytesWithClamping applies the RFC 8032 clamping operation to the 32
// bytes of b (clear bits 0-2, set bit 254, clear bit 255) and stores the
// result directly, UNREDUCED (key generation's and signing's secret
// scalar s, and the VRF secret x). ScalarBaseMult, ScalarMult, Add,
// Multiply and MulAdd read the full 256-bit value and accept it; Negate
// and Subtract (of it) assume a value below ell and do not.
func (s *Scalar) SetBytesWithClamping(b []byte) (*Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("edwards25519: invalid Scalar encoding length: %d", len(b))
	}
	var buf [32]byte
	copy(buf[:], b)
	s.b = prune(buf)
	return s, nil
}

// prune applies the RFC 8032 bit-clamp to a 32-byte seed-hash half: clear
// bits 0-2, set bit 254, clear bit 255.
func prune(h [32]byte) [32]byte {
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	return h
}

// Add sets s = a+b (mod ell) and returns s.
func (s *Scalar) Add(a, b *Scalar) *Scalar {
	sum, carry := addCarry(a.b, b.b)
	var wide [64]byte
	copy(wide[:32], sum[:])
	wide[32] = byte(carry)
	s.b = reduce512(wide)
	return s
}

// Subtract sets s = a-b (mod ell) and returns s.
func (s *Scalar) Subtract(a, b *Scalar) *Scalar {
	var negB Scalar
	negB.Negate(b)
	return s.Add(a, &negB)
}

// Negate sets s = -a (mod ell) and returns s.
func (s *Scalar) Negate(a *Scalar) *Scalar {
	if a.b == ([32]byte{}) {
		s.b = [32]byte{}
		return s
	}
	diff, _ := subBorrow(ellBytes, a.b)
	s.b = diff
	return s
}

// Multiply sets s = a*b (mod ell) and returns s.
func (s *Scalar) Multiply(a, b *Scalar) *Scalar {
	return s.MulAdd(a, b, NewScalar())
}

// MulAdd sets s = k*a + b (mod ell) and returns s: this is the exact
// schoolbook multiply-accumulate spec.md 4.5 step 6 describes for
// S = (r + k*s) mod ell.
func (s *Scalar) MulAdd(k, a, b *Scalar) *Scalar {
	ku := bytesToWords(k.b)
	au := bytesToWords(a.b)

	var acc [16]uint32
	bu := bytesToWords(b.b)
	copy(acc[:8], bu[:])

	mulAddTo(ku, au, &acc)

	var wide [64]byte
	wordsToBytes64(acc, &wide)
	s.b = reduce512(wide)
	return s
}

// Equal returns 1 if s == a and 0 otherwise. Constant-time.
func (s *Scalar) Equal(a *Scalar) int {
	return subtle.ConstantTimeCompare(s.b[:], a.b[:])
}

// bytesToWords decodes 32 little-endian bytes into eight 32-bit words.
func bytesToWords(b [32]byte) [8]uint32 {
	var w [8]uint32
	for i := 0; i < 8; i++ {
		w[i] = uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
	}
	return w
}

// wordsToBytes64 encodes sixteen 32-bit words into 64 little-endian
// bytes.
func wordsToBytes64(w [16]uint32, out *[64]byte) {
	for i := 0; i < 16; i++ {
		out[4*i] = byte(w[i])
		out[4*i+1] = byte(w[i] >> 8)
		out[4*i+2] = byte(w[i] >> 16)
		out[4*i+3] = byte(w[i] >> 24)
	}
}

// mulAddTo computes acc += u*v, where u and v are eight 32-bit words
// (a 256-bit unsigned integer each) and acc is sixteen 32-bit words (a
// 512-bit accumulator), using schoolbook long multiplication. This is the
// mulAddTo(u[8], v[8], acc[16]) primitive spec.md 6 lists as consumed
// from an external big-integer collaborator; it is small enough to carry
// in-package rather than adding a dependency for eight-word multiplies.
func mulAddTo(u, v [8]uint32, acc *[16]uint32) {
	for i := 0; i < 8; i++ {
		var carry uint64
		ui := uint64(u[i])
		for j := 0; j < 8; j++ {
			t := uint64(acc[i+j]) + ui*uint64(v[j]) + carry
			acc[i+j] = uint32(t)
			carry = t >> 32
		}
		k := i + 8
		for carry != 0 {
			t := uint64(acc[k]) + carry
			acc[k] = uint32(t)
			carry = t >> 32
			k++
		}
	}
}
