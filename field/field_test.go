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

import (
	"bytes"
	"crypto/rand"
	"math/big"
	"testing"
)

// pBig is p = 2^255 - 19, computed independently of the package's own
// limb arithmetic for use as an arbitrary-precision oracle in tests.
var pBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

// leToBig decodes b as a little-endian unsigned integer.
func leToBig(b []byte) *big.Int {
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}

func randomElement(t *testing.T) *Element {
	t.Helper()
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		t.Fatal(err)
	}
	e, err := new(Element).SetBytes(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestZeroOne(t *testing.T) {
	z, o := new(Element).Zero(), new(Element).One()
	if z.Equal(o) == 1 {
		t.Fatal("zero equals one")
	}
	sum := new(Element).Add(z, o)
	if sum.Equal(o) != 1 {
		t.Fatal("0 + 1 != 1")
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randomElement(t)
		b := randomElement(t)
		sum := new(Element).Add(a, b)
		back := new(Element).Subtract(sum, b)
		if back.Equal(a) != 1 {
			t.Fatalf("(a+b)-b != a, trial %d", i)
		}
	}
}

func TestSquareMatchesMultiply(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randomElement(t)
		sq := new(Element).Square(a)
		mul := new(Element).Multiply(a, a)
		if sq.Equal(mul) != 1 {
			t.Fatalf("Square(a) != Multiply(a,a), trial %d", i)
		}
	}
}

func TestMultiplyIdentity(t *testing.T) {
	one := new(Element).One()
	for i := 0; i < 64; i++ {
		a := randomElement(t)
		got := new(Element).Multiply(a, one)
		if got.Equal(a) != 1 {
			t.Fatalf("a*1 != a, trial %d", i)
		}
	}
}

func TestInvert(t *testing.T) {
	one := new(Element).One()
	for i := 0; i < 32; i++ {
		a := randomElement(t)
		if a.IsZeroVar() {
			continue
		}
		inv := new(Element).Invert(a)
		got := new(Element).Multiply(a, inv)
		if got.Equal(one) != 1 {
			t.Fatalf("a * invert(a) != 1, trial %d", i)
		}
	}
}

func TestSqrtM1(t *testing.T) {
	sq := new(Element).Square(sqrtM1)
	negOne := new(Element).Negate(new(Element).One())
	if sq.Equal(negOne) != 1 {
		t.Fatal("sqrtM1^2 != -1")
	}
}

func TestSqrtRatio(t *testing.T) {
	one := new(Element).One()
	for i := 0; i < 32; i++ {
		x := randomElement(t)
		v := randomElement(t)
		if v.IsZeroVar() {
			continue
		}
		u := new(Element).Square(x)
		u.Multiply(u, v) // u/v == x^2, always a square

		r, wasSquare := new(Element).SqrtRatio(u, v)
		if wasSquare != 1 {
			t.Fatalf("u/v should have been square, trial %d", i)
		}
		lhs := new(Element).Square(r)
		lhs.Multiply(lhs, v)
		if lhs.Equal(u) != 1 {
			t.Fatalf("v*r^2 != u, trial %d", i)
		}
	}
	_ = one
}

func TestBytesRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		a := randomElement(t)
		enc := a.Bytes()
		if len(enc) != 32 {
			t.Fatalf("encoded length %d != 32", len(enc))
		}
		if enc[31]&0x80 != 0 {
			t.Fatal("encoded top bit set")
		}
		b, err := new(Element).SetBytes(enc)
		if err != nil {
			t.Fatal(err)
		}
		if b.Equal(a) != 1 {
			t.Fatalf("decode(encode(a)) != a, trial %d", i)
		}
	}
}

func TestSelectAndCSwap(t *testing.T) {
	a := randomElement(t)
	b := randomElement(t)

	sel1 := new(Element).Select(a, b, 1)
	if sel1.Equal(a) != 1 {
		t.Fatal("Select(a,b,1) != a")
	}
	sel0 := new(Element).Select(a, b, 0)
	if sel0.Equal(b) != 1 {
		t.Fatal("Select(a,b,0) != b")
	}

	x, y := *a, *b
	CSwap(&x, &y, 1)
	if x.Equal(b) != 1 || y.Equal(a) != 1 {
		t.Fatal("CSwap(1) did not swap")
	}
	x, y = *a, *b
	CSwap(&x, &y, 0)
	if x.Equal(a) != 1 || y.Equal(b) != 1 {
		t.Fatal("CSwap(0) swapped")
	}
}

func TestCNegate(t *testing.T) {
	a := randomElement(t)
	neg := new(Element).Negate(a)

	got0 := new(Element).CNegate(a, 0)
	if got0.Equal(a) != 1 {
		t.Fatal("CNegate(a,0) != a")
	}
	got1 := new(Element).CNegate(a, 1)
	if got1.Equal(neg) != 1 {
		t.Fatal("CNegate(a,1) != -a")
	}
}

func TestSetWideBytesAgreesWithDoubleReduce(t *testing.T) {
	// 64 zero bytes must decode to the zero element.
	var zeroWide [64]byte
	z, err := new(Element).SetWideBytes(zeroWide[:])
	if err != nil {
		t.Fatal(err)
	}
	if !z.IsZeroVar() {
		t.Fatal("SetWideBytes(0) != 0")
	}

	// A wide value equal to a plain 32-byte element (zero-extended) must
	// decode to the same element as SetBytes.
	a := randomElement(t)
	var wide [64]byte
	copy(wide[:32], a.Bytes())
	got, err := new(Element).SetWideBytes(wide[:])
	if err != nil {
		t.Fatal(err)
	}
	if got.Equal(a) != 1 {
		t.Fatal("SetWideBytes(zero-extended a) != a")
	}
}

// TestSetWideBytesMatchesBigIntArbitraryPrecision cross-checks SetWideBytes
// against an independent math/big reduction mod p, over full random 64-byte
// inputs, rather than only the zero and zero-extended inputs of
// TestSetWideBytesAgreesWithDoubleReduce: a bug in SetWideBytes's folding of
// the high half and top bits could otherwise slip past.
func TestSetWideBytesMatchesBigIntArbitraryPrecision(t *testing.T) {
	for trial := 0; trial < 256; trial++ {
		var wide [64]byte
		if _, err := rand.Read(wide[:]); err != nil {
			t.Fatal(err)
		}
		got, err := new(Element).SetWideBytes(wide[:])
		if err != nil {
			t.Fatal(err)
		}

		want := new(big.Int).Mod(leToBig(wide[:]), pBig)
		gotBig := leToBig(got.Bytes())
		if gotBig.Cmp(want) != 0 {
			t.Fatalf("trial %d: SetWideBytes(%x) = %x, want %x (mod p via math/big)", trial, wide, gotBig, want)
		}
	}
}

func TestAPM(t *testing.T) {
	a := randomElement(t)
	b := randomElement(t)
	sum, diff := APM(a, b)
	if sum.Equal(new(Element).Add(a, b)) != 1 {
		t.Fatal("APM sum mismatch")
	}
	if diff.Equal(new(Element).Subtract(a, b)) != 1 {
		t.Fatal("APM diff mismatch")
	}
}

func TestSetBytesRejectsBadLength(t *testing.T) {
	_, err := new(Element).SetBytes(bytes.Repeat([]byte{1}, 31))
	if err == nil {
		t.Fatal("expected error for short input")
	}
	_, err = new(Element).SetWideBytes(bytes.Repeat([]byte{1}, 63))
	if err == nil {
		t.Fatal("expected error for short wide input")
	}
}
