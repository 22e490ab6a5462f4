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

// Package edwards25519 implements the Edwards25519 group: group elements
// ("points"), scalars reduced modulo the group order, and the
// constant-time / variable-time arithmetic spec.md's Signer and the
// adapted hash-to-curve and ECVRF packages are built from.
package edwards25519

import (
	"crypto/subtle"
	"fmt"

	"gitlab.com/yawning/ed25519-core.git/field"
)

// A Point is a group element in extended twisted Edwards coordinates
// (X, Y, Z, T) with x = X/Z, y = Y/Z, x*y = T/Z. The zero value is NOT a
// valid point; use NewIdentityPoint or SetBytes/SetExtendedCoordinates.
type Point struct {
	x, y, z, t field.Element
}

func mustField(b [32]byte) *field.Element {
	fe, err := new(field.Element).SetBytes(b[:])
	if err != nil {
		panic(err)
	}
	return fe
}

var (
	dConst = mustField([32]byte{
		0xa3, 0x78, 0x59, 0x13, 0xca, 0x4d, 0xeb, 0x75, 0xab, 0xd8, 0x41, 0x41,
		0x4d, 0x0a, 0x70, 0x00, 0x98, 0xe8, 0x79, 0x77, 0x79, 0x40, 0xc7, 0x8c,
		0x73, 0xfe, 0x6f, 0x2b, 0xee, 0x6c, 0x03, 0x52,
	})

	d2Const = mustField([32]byte{
		0x59, 0xf1, 0xb2, 0x26, 0x94, 0x9b, 0xd6, 0xeb, 0x56, 0xb1, 0x83, 0x82,
		0x9a, 0x14, 0xe0, 0x00, 0x30, 0xd1, 0xf3, 0xee, 0xf2, 0x80, 0x8e, 0x19,
		0xe7, 0xfc, 0xdf, 0x56, 0xdc, 0xd9, 0x06, 0x24,
	})

	genX = mustField([32]byte{
		0x1a, 0xd5, 0x25, 0x8f, 0x60, 0x2d, 0x56, 0xc9, 0xb2, 0xa7, 0x25, 0x95,
		0x60, 0xc7, 0x2c, 0x69, 0x5c, 0xdc, 0xd6, 0xfd, 0x31, 0xe2, 0xa4, 0xc0,
		0xfe, 0x53, 0x6e, 0xcd, 0xd3, 0x36, 0x69, 0x21,
	})
	genY = mustField([32]byte{
		0x58, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
		0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	})

	pBytes = [32]byte{
		0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f,
	}
)

// NewIdentityPoint returns the identity element (0, 1).
func NewIdentityPoint() *Point {
	v := &Point{}
	v.x.Zero()
	v.y.One()
	v.z.One()
	v.t.Zero()
	return v
}

// NewGeneratorPoint returns the Edwards25519 base point B.
func NewGeneratorPoint() *Point {
	v := &Point{}
	v.x.Set(genX)
	v.y.Set(genY)
	v.z.One()
	v.t.Multiply(genX, genY)
	return v
}

// Set sets v = p and returns v.
func (v *Point) Set(p *Point) *Point {
	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.z.Set(&p.z)
	v.t.Set(&p.t)
	return v
}

// SetExtendedCoordinates sets v's extended coordinates directly and
// returns v, rejecting inputs with inconsistent coordinates (x*y != t*z)
// or z == 0. The curve equation itself is not checked. This is how
// the adapted hash-to-curve / Elligator2 code (which computes x, y
// directly) hands its result back as a Point.
func (v *Point) SetExtendedCoordinates(x, y, z, t *field.Element) (*Point, error) {
	if z.IsZeroVar() {
		return nil, fmt.Errorf("edwards25519: invalid point: z == 0")
	}
	lhs := new(field.Element).Multiply(x, y)
	rhs := new(field.Element).Multiply(t, z)
	if lhs.Equal(rhs) != 1 {
		return nil, fmt.Errorf("edwards25519: invalid point: x*y != t*z")
	}
	v.x.Set(x)
	v.y.Set(y)
	v.z.Set(z)
	v.t.Set(t)
	return v, nil
}

// add sets v = p+q using the complete add-2008-hwcd-3 unified addition
// law (safe for doublings and the identity: edwards25519's a = -1 is a
// QR and d is a non-QR mod p, so this formula has no exceptional cases).
//
// Every Add/Subtract intermediate fed into a Multiply or Square below is
// run through field.Element.Carry first: Multiply/Square require their
// operands to be within one carry() of canonical, while plain
// Add/Subtract results are safe there only while the chain since the
// last carry stays bounded (see field.Element.Add's doc comment).
func (v *Point) add(p, q *Point) *Point {
	var a, b, c, d, e, f, g, h field.Element
	var t0, t1 field.Element

	t0.Subtract(&p.y, &p.x)
	t0.Carry(&t0)
	t1.Subtract(&q.y, &q.x)
	t1.Carry(&t1)
	a.Multiply(&t0, &t1)

	t0.Add(&p.y, &p.x)
	t0.Carry(&t0)
	t1.Add(&q.y, &q.x)
	t1.Carry(&t1)
	b.Multiply(&t0, &t1)

	c.Multiply(&p.t, d2Const)
	c.Multiply(&c, &q.t)

	t0.Add(&p.z, &p.z)
	t0.Carry(&t0)
	d.Multiply(&t0, &q.z)

	e.Subtract(&b, &a)
	e.Carry(&e)
	f.Subtract(&d, &c)
	f.Carry(&f)
	g.Add(&d, &c)
	g.Carry(&g)
	h.Add(&b, &a)
	h.Carry(&h)

	v.x.Multiply(&e, &f)
	v.y.Multiply(&g, &h)
	v.t.Multiply(&e, &h)
	v.z.Multiply(&f, &g)
	return v
}

// double sets v = 2p using the dbl-2008-hwcd formula. See add's note on
// the carry discipline between Add/Subtract and Multiply/Square.
func (v *Point) double(p *Point) *Point {
	var a, b, c, g, h, e, f field.Element
	var t0 field.Element

	a.Square(&p.x)
	b.Square(&p.y)
	c.Square(&p.z)
	c.Add(&c, &c)
	c.Carry(&c)

	h.Add(&a, &b)
	h.Carry(&h)

	t0.Add(&p.x, &p.y)
	t0.Carry(&t0)
	t0.Square(&t0)

	e.Subtract(&h, &t0)
	e.Carry(&e)
	g.Subtract(&a, &b)
	g.Carry(&g)
	f.Add(&c, &g)
	f.Carry(&f)

	v.x.Multiply(&e, &f)
	v.y.Multiply(&g, &h)
	v.t.Multiply(&e, &h)
	v.z.Multiply(&f, &g)
	return v
}

// precomp holds a point's affine-ish table entry (y+x, y-x, 2d*x*y), the
// inputs the mixed-addition formula addPrecomp consumes.
type precomp struct {
	yPlusX, yMinusX, xy2d field.Element
}

// precompOf normalizes p to affine and returns its precomp entry.
func precompOf(p *Point) precomp {
	var zInv, x, y field.Element
	zInv.Invert(&p.z)
	x.Multiply(&p.x, &zInv)
	y.Multiply(&p.y, &zInv)

	var pc precomp
	pc.yPlusX.Add(&y, &x)
	pc.yMinusX.Subtract(&y, &x)
	pc.xy2d.Multiply(&x, &y)
	pc.xy2d.Multiply(&pc.xy2d, d2Const)
	return pc
}

// identityPrecomp is the precomp entry for the identity element: adding
// it via addPrecomp is a no-op, used to keep windowed multiplies
// constant-time across zero digits.
func identityPrecomp() precomp {
	var pc precomp
	pc.yPlusX.One()
	pc.yMinusX.One()
	pc.xy2d.Zero()
	return pc
}

// addPrecomp sets v = p + P, where P's table entry pc = (y+x, y-x, 2d*x*y)
// was computed with P's Z implicitly 1 (mixed addition).
func (v *Point) addPrecomp(p *Point, pc *precomp) *Point {
	var a, b, c, d, e, f, g, h field.Element
	var t0 field.Element

	t0.Subtract(&p.y, &p.x)
	a.Multiply(&t0, &pc.yMinusX)

	t0.Add(&p.y, &p.x)
	b.Multiply(&t0, &pc.yPlusX)

	c.Multiply(&p.t, &pc.xy2d)

	d.Add(&p.z, &p.z)

	e.Subtract(&b, &a)
	f.Subtract(&d, &c)
	g.Add(&d, &c)
	g.Carry(&g)
	h.Add(&b, &a)

	v.x.Multiply(&e, &f)
	v.y.Multiply(&g, &h)
	v.t.Multiply(&e, &h)
	v.z.Multiply(&f, &g)
	return v
}

// selectPrecomp sets pc to table[idx] in constant time; idx must be in
// [0, len(table)).
func selectPrecomp(pc *precomp, table []precomp, idx int) {
	pc.yPlusX.One()
	pc.yMinusX.One()
	pc.xy2d.Zero()
	for k, cand := range table {
		mask := int(subtle.ConstantTimeEq(int32(k), int32(idx)))
		pc.yPlusX.Select(&cand.yPlusX, &pc.yPlusX, mask)
		pc.yMinusX.Select(&cand.yMinusX, &pc.yMinusX, mask)
		pc.xy2d.Select(&cand.xy2d, &pc.xy2d, mask)
	}
}

// condNegatePrecomp negates pc's underlying point in constant time if
// sign == 1 (swap yPlusX/yMinusX, negate xy2d).
func condNegatePrecomp(pc *precomp, sign int) {
	var newPlus, newMinus, newXy2d field.Element
	newPlus.Select(&pc.yMinusX, &pc.yPlusX, sign)
	newMinus.Select(&pc.yPlusX, &pc.yMinusX, sign)
	newXy2d.CNegate(&pc.xy2d, sign)
	pc.yPlusX, pc.yMinusX, pc.xy2d = newPlus, newMinus, newXy2d
}

// absSignDigit splits a signed nibble in [-8, 8] into its absolute value
// (an index into a 9-entry table, 0 meaning "add the identity") and a
// 0/1 sign.
func absSignDigit(d int8) (idx, sign int) {
	sign = int((d >> 7) & 1)
	idx = int(d) - ((int(d) << 1) & -sign)
	return idx, sign
}

// Negate sets v = -p and returns v.
func (v *Point) Negate(p *Point) *Point {
	v.x.Negate(&p.x)
	v.y.Set(&p.y)
	v.z.Set(&p.z)
	v.t.Negate(&p.t)
	return v
}

// Add sets v = p+q and returns v.
func (v *Point) Add(p, q *Point) *Point {
	return v.add(p, q)
}

// MultByCofactor sets v = 8*p (edwards25519's cofactor) and returns v.
func (v *Point) MultByCofactor(p *Point) *Point {
	v.double(p)
	v.double(v)
	v.double(v)
	return v
}

// ExtendedCoordinates returns v's internal extended (X, Y, Z, T)
// representation, satisfying x/z, y/z the affine coordinates and x*y =
// t*z. For use by packages (such as the Elligator2/Montgomery map) that
// need to operate on the coordinates directly rather than through the
// canonical encoding.
func (v *Point) ExtendedCoordinates() (x, y, z, t *field.Element) {
	return &v.x, &v.y, &v.z, &v.t
}

// Equal returns 1 if v and p represent the same group element, and 0
// otherwise. Constant-time (byte-compares the canonical encodings).
func (v *Point) Equal(p *Point) int {
	vb, pb := v.Bytes(), p.Bytes()
	return subtle.ConstantTimeCompare(vb, pb)
}

// Bytes returns v's canonical 32-byte compressed encoding: the canonical
// little-endian encoding of y, with the top bit replaced by x's sign.
func (v *Point) Bytes() []byte {
	var zInv, x, y field.Element
	zInv.Invert(&v.z)
	x.Multiply(&v.x, &zInv)
	y.Multiply(&v.y, &zInv)

	out := y.Bytes()
	var buf [32]byte
	copy(buf[:], out)
	buf[31] |= byte(x.IsNegative()) << 7
	return buf[:]
}

// isCanonicalFieldBytes reports whether b, with its top bit cleared,
// encodes a value strictly less than p.
func isCanonicalFieldBytes(b [32]byte) bool {
	b[31] &= 0x7f
	var borrow int32
	for i := 0; i < 32; i++ {
		d := int32(b[i]) - int32(pBytes[i]) - borrow
		if d < 0 {
			borrow = 1
		} else {
			borrow = 0
		}
	}
	return borrow == 1
}

// SetBytes decodes a 32-byte compressed point encoding into v and returns
// v, rejecting non-canonical y encodings and encodings that do not
// correspond to a point on the curve.
func (v *Point) SetBytes(b []byte) (*Point, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("edwards25519: invalid Point encoding length: %d", len(b))
	}
	var buf [32]byte
	copy(buf[:], b)
	if !isCanonicalFieldBytes(buf) {
		return nil, fmt.Errorf("edwards25519: invalid Point encoding: non-canonical y")
	}
	sign := int(buf[31] >> 7)

	y, err := new(field.Element).SetBytes(buf[:])
	if err != nil {
		return nil, err
	}

	one := new(field.Element).One()
	var u, vv, y2 field.Element
	y2.Square(y)
	u.Subtract(&y2, one)
	vv.Multiply(&y2, dConst)
	vv.Add(&vv, one)

	x, wasSquare := new(field.Element).SqrtRatio(&u, &vv)
	if wasSquare != 1 {
		return nil, fmt.Errorf("edwards25519: invalid Point encoding: not on curve")
	}
	if x.IsZeroVar() && sign == 1 {
		return nil, fmt.Errorf("edwards25519: invalid Point encoding: x == 0 with sign bit set")
	}
	if x.IsNegative() != sign {
		x.Negate(x)
	}

	v.x.Set(x)
	v.y.Set(y)
	v.z.One()
	v.t.Multiply(x, y)
	return v, nil
}
