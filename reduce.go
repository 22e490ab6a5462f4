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

// reduce512 reduces the 512-bit little-endian integer encoded by h modulo
// ell, and returns its canonical 32-byte little-endian encoding.
//
// The algorithm works in radix 2^28 (19 limbs spanning 512 bits) and
// exploits 2^252 == -c (mod ell), where c = ell - 2^252 is 125 bits (5
// limbs, L0..L4). A single descending fold pass (i = 18..9) repeatedly
// removes the top limb by distributing -carry*c into the five limbs
// starting nine positions below it and immediately renormalizing x[0:i],
// so limb magnitudes never grow beyond what one sweep can carry. The
// carry that renormalization pushes out of position i is added into limb
// i-1 and folded with it in the next step. After the pass a positive
// residual at 2^252 is folded once more, leaving x[0:9] normalized and
// x[9] in {-1, 0}: an exact integer value in (-2^29*c, 2^252), which a
// single conditional addition of ell brings into [0, ell). No second fold
// pass or iterated subtract/add loop is needed (see DESIGN.md).
func reduce512(h [64]byte) [32]byte {
	x := decode64ToLimbs28(h)

	for i := 18; i >= 9; i-- {
		carry := x[i]
		x[i] = 0
		for j := 0; j < 5; j++ {
			x[i-9+j] -= carry * ellLimbs28[j]
		}
		top := sweep28(&x, i)
		if i > 9 {
			// top*2^(28i) joins the limb folded next, so it is folded too.
			x[i-1] += top << 28
		} else {
			x[i] += top
		}
	}

	// A positive residual at 2^252 is folded once more (2^252 == -c), so
	// that x[9] ends in {-1, 0} as combineReducedLimbs expects.
	pos := x[9] &^ (x[9] >> 63)
	x[9] -= pos
	for j := 0; j < 5; j++ {
		x[j] -= pos * ellLimbs28[j]
	}
	x[9] += sweep28(&x, 9)

	return combineReducedLimbs(x)
}

// ellLimbs28 holds c = ell - 2^252 in radix 2^28.
var ellLimbs28 = [5]int64{
	0xcf5d3ed, 0x12631a5, 0x79cd658, 0xf9dea2f, 0x14de,
}

// decode64ToLimbs28 decodes 64 little-endian bytes into 19 limbs of 28
// bits each (19*28 = 532 >= 512, the excess bits of the top limb are
// simply zero).
func decode64ToLimbs28(h [64]byte) [19]int64 {
	var x [19]int64
	for i := 0; i < 19; i++ {
		offset := uint(28 * i)
		x[i] = int64(extractBits64(&h, offset, 28))
	}
	return x
}

// extractBits64 extracts a width-bit field starting at bit offset from a
// little-endian 64-byte buffer.
func extractBits64(b *[64]byte, offset, width uint) uint64 {
	byteStart := offset / 8
	bitStart := offset % 8
	needed := bitStart + width
	nbytes := (needed + 7) / 8
	var raw uint64
	for i := uint(0); i < nbytes && byteStart+i < 64; i++ {
		raw |= uint64(b[byteStart+i]) << (8 * i)
	}
	raw >>= bitStart
	raw &= (uint64(1) << width) - 1
	return raw
}

// sweep28 normalizes limbs x[0:n] into [0, 2^28), propagating the carry
// upward (Go's arithmetic right shift on a signed int64 matches the
// floor-division carry semantics this needs even when a limb is
// temporarily negative), and returns the carry that would continue into
// position n.
func sweep28(x *[19]int64, n int) int64 {
	var carry int64
	for i := 0; i < n; i++ {
		x[i] += carry
		carry = x[i] >> 28
		x[i] -= carry << 28
	}
	return carry
}

// combineReducedLimbs takes the ten limbs x[0:10] left by reduce512's
// fold (x[0:9] each in [0, 2^28), x[9] a small, possibly negative
// residual) and returns their exact value, canonically reduced into
// [0, ell), as 32 little-endian bytes.
func combineReducedLimbs(x [19]int64) [32]byte {
	var loBuf [32]byte
	for i := 0; i < 9; i++ {
		packLimbBits(&loBuf, x[i], uint(28*i), 28)
	}
	loWords8 := bytesToWords(loBuf)
	var loWords9 [9]uint32
	copy(loWords9[:8], loWords8[:])

	x9 := x[9]
	neg := x9 < 0
	absX9 := x9
	if neg {
		absX9 = -absX9
	}
	shifted := uint64(absX9) << 28
	var hiWords9 [9]uint32
	hiWords9[7] = uint32(shifted)
	hiWords9[8] = uint32(shifted >> 32)

	var resultWords9 [9]uint32
	if !neg {
		resultWords9, _ = addWords9(loWords9, hiWords9)
	} else {
		diff, _ := subWords9(loWords9, hiWords9)
		ellWords8 := bytesToWords(ellBytes)
		var ellWords9 [9]uint32
		copy(ellWords9[:8], ellWords8[:])
		resultWords9, _ = addWords9(diff, ellWords9)
	}

	var out [32]byte
	var out8 [8]uint32
	copy(out8[:], resultWords9[:8])
	wordsToBytes32(out8, &out)
	return out
}

// packLimbBits ORs the low width bits of v into buf starting at bit
// offset, little-endian. v must already be within [0, 2^width).
func packLimbBits(buf *[32]byte, v int64, offset, width uint) {
	uv := uint64(v)
	for b := uint(0); b < width; b++ {
		bit := (uv >> b) & 1
		pos := offset + b
		buf[pos/8] |= byte(bit) << (pos % 8)
	}
}

// wordsToBytes32 encodes eight 32-bit words into 32 little-endian bytes.
func wordsToBytes32(w [8]uint32, out *[32]byte) {
	for i := 0; i < 8; i++ {
		out[4*i] = byte(w[i])
		out[4*i+1] = byte(w[i] >> 8)
		out[4*i+2] = byte(w[i] >> 16)
		out[4*i+3] = byte(w[i] >> 24)
	}
}

// addWords9 adds two nine-word (288-bit) little-endian unsigned integers,
// returning the sum and the carry-out.
func addWords9(a, b [9]uint32) ([9]uint32, uint32) {
	var out [9]uint32
	var carry uint64
	for i := 0; i < 9; i++ {
		t := uint64(a[i]) + uint64(b[i]) + carry
		out[i] = uint32(t)
		carry = t >> 32
	}
	return out, uint32(carry)
}

// subWords9 subtracts b from a as nine-word (288-bit) little-endian
// unsigned integers modulo 2^288, returning the difference and the
// borrow-out.
func subWords9(a, b [9]uint32) ([9]uint32, uint32) {
	var out [9]uint32
	var borrow uint64
	for i := 0; i < 9; i++ {
		t := uint64(a[i]) - uint64(b[i]) - borrow
		out[i] = uint32(t)
		borrow = (t >> 32) & 1
	}
	return out, uint32(borrow)
}
