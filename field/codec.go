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

import "fmt"

// decodeCanonical decodes 32 little-endian bytes into field limbs,
// ignoring (masking off) the top bit of byte 31, which is reserved
// elsewhere (the Edwards point sign bit) and carries the result into the
// canonical per-limb envelope.
func decodeCanonical(b [32]byte) [10]int64 {
	b[31] &= 0x7f
	var l [10]int64
	for i := 0; i < 10; i++ {
		l[i] = limbFromBytes(&b, offsets[i], widths[i])
	}
	carryOnce(&l)
	carryOnce(&l)
	return l
}

// limbFromBytes extracts a `width`-bit field starting at bit `offset`
// from a little-endian 32-byte buffer.
func limbFromBytes(b *[32]byte, offset, width uint) int64 {
	var v int64
	// gather up to 5 bytes' worth of raw bits spanning [offset, offset+width)
	byteStart := offset / 8
	bitStart := offset % 8
	needed := bitStart + width
	nbytes := (needed + 7) / 8
	var raw uint64
	for i := uint(0); i < nbytes && byteStart+i < 32; i++ {
		raw |= uint64(b[byteStart+i]) << (8 * i)
	}
	raw >>= bitStart
	raw &= (uint64(1) << width) - 1
	v = int64(raw)
	return v
}

// SetBytes decodes 32 little-endian bytes into v, masking off the
// reserved top bit (bit 255), and returns v. The input need not be
// canonically reduced; SetBytes always produces a value in [0, 2^255).
func (v *Element) SetBytes(b []byte) (*Element, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("field: invalid Element encoding length: %d", len(b))
	}
	var buf [32]byte
	copy(buf[:], b)
	v.l = decodeCanonical(buf)
	return v, nil
}

// SetWideBytes decodes 64 little-endian bytes, reduces the represented
// 512-bit integer modulo p, and returns v. Used to map a wide hash output
// directly into the field (hash-to-curve's uniform-bytes suites).
func (v *Element) SetWideBytes(b []byte) (*Element, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("field: invalid wide Element encoding length: %d", len(b))
	}
	var lo, hi [32]byte
	copy(lo[:], b[:32])
	copy(hi[:], b[32:])

	// decodeCanonical drops bit 255 of each half; add those bits back as
	// 2^255 == 19 and 2^511 == 2^256 * 2^255 == 38*19 == 722 (mod p).
	loTop := int64(lo[31] >> 7)
	hiTop := int64(hi[31] >> 7)

	var loElem, hiElem Element
	loElem.l = decodeCanonical(lo)
	hiElem.l = decodeCanonical(hi)

	// 2^256 == 38 (mod p), since 2^255 == 19.
	hiElem.mulSmall(&hiElem, 38)
	v.Add(&loElem, &hiElem)
	v.l[0] += 19*loTop + 722*hiTop
	carryOnce(&v.l)
	carryOnce(&v.l)
	return v, nil
}

// mulSmall sets v = a*c for a small (well within int64 range) constant c
// and returns v, carrying the result into the canonical envelope.
func (v *Element) mulSmall(a *Element, c int64) *Element {
	for i := range v.l {
		v.l[i] = a.l[i] * c
	}
	carryOnce(&v.l)
	carryOnce(&v.l)
	return v
}

// canonicalize reduces v's represented integer fully into [0, p), given
// that v's limbs are already within their per-limb width envelope (i.e.
// freshly carried). It returns the canonicalized limbs without modifying
// v, by subtracting q*p, where q (0 or 1) is the carry-out of bit 255
// when 19 is added to the value.
func canonicalize(l [10]int64) [10]int64 {
	// q == 1 iff value+19 carries out of bit 255, i.e. iff value >= p.
	q := (l[0] + 19) >> widths[0]
	for i := 1; i < 10; i++ {
		q = (l[i] + q) >> widths[i]
	}
	// Adding 19*q and dropping the final carry (2^255) subtracts q*p.
	l[0] += 19 * q
	var carry int64
	for i := 0; i < 10; i++ {
		l[i] += carry
		w := widths[i]
		carry = l[i] >> w
		l[i] -= carry << w
	}
	return l
}

// normalizeBytes writes v's canonical 32-byte little-endian encoding
// (value reduced into [0, p), top bit always 0) into out.
func (v *Element) normalizeBytes(out *[32]byte) {
	var tmp [10]int64
	copy(tmp[:], v.l[:])
	carryOnce(&tmp)
	carryOnce(&tmp)
	canon := canonicalize(tmp)

	*out = [32]byte{}
	for i := 0; i < 10; i++ {
		packLimb(out, canon[i], offsets[i], widths[i])
	}
}

func packLimb(out *[32]byte, v int64, offset, width uint) {
	uv := uint64(v)
	for b := uint(0); b < width; b++ {
		bit := (uv >> b) & 1
		pos := offset + b
		out[pos/8] |= byte(bit) << (pos % 8)
	}
}

// Bytes returns v's canonical 32-byte little-endian encoding.
func (v *Element) Bytes() []byte {
	var out [32]byte
	v.normalizeBytes(&out)
	return out[:]
}

// Normalize reduces v's represented value fully into [0, p) in place and
// returns v. Corresponds to the spec's `normalize` primitive.
func (v *Element) Normalize() *Element {
	carryOnce(&v.l)
	carryOnce(&v.l)
	v.l = canonicalize(v.l)
	return v
}
