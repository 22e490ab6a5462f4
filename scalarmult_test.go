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
	"crypto/rand"
	"testing"
)

func TestScalarBaseMultMatchesScalarMult(t *testing.T) {
	b := NewGeneratorPoint()
	for i := 0; i < 16; i++ {
		s := randomScalar(t)
		viaBase := new(Point).ScalarBaseMult(s)
		viaGeneric := new(Point).ScalarMult(s, b)
		if viaBase.Equal(viaGeneric) != 1 {
			t.Fatalf("trial %d: ScalarBaseMult(s) != ScalarMult(s, B)", i)
		}
	}
}

func TestScalarMultByZeroIsIdentity(t *testing.T) {
	zero := NewScalar().Zero()
	got := new(Point).ScalarMult(zero, NewGeneratorPoint())
	if got.Equal(NewIdentityPoint()) != 1 {
		t.Fatal("0*B != identity")
	}
}

func TestScalarMultByOneIsIdentityOperation(t *testing.T) {
	oneBytes := make([]byte, 32)
	oneBytes[0] = 1
	one, err := NewScalar().SetCanonicalBytes(oneBytes)
	if err != nil {
		t.Fatal(err)
	}
	b := NewGeneratorPoint()
	got := new(Point).ScalarMult(one, b)
	if got.Equal(b) != 1 {
		t.Fatal("1*B != B")
	}
}

func TestScalarMultDistributesOverAdd(t *testing.T) {
	for i := 0; i < 8; i++ {
		a := randomScalar(t)
		b := randomScalar(t)
		sum := NewScalar().Add(a, b)

		base := NewGeneratorPoint()
		lhs := new(Point).ScalarBaseMult(sum)
		rhs := new(Point).Add(new(Point).ScalarMult(a, base), new(Point).ScalarMult(b, base))
		if lhs.Equal(rhs) != 1 {
			t.Fatalf("trial %d: (a+b)*B != a*B + b*B", i)
		}
	}
}

func TestVarTimeDoubleScalarBaseMult(t *testing.T) {
	for i := 0; i < 8; i++ {
		a := randomScalar(t)
		b := randomScalar(t)

		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			t.Fatal(err)
		}
		A := new(Point).ScalarBaseMult(randomScalar(t))

		got := new(Point).VarTimeDoubleScalarBaseMult(a, A, b)
		want := new(Point).Add(new(Point).ScalarMult(a, A), new(Point).ScalarBaseMult(b))
		if got.Equal(want) != 1 {
			t.Fatalf("trial %d: VarTimeDoubleScalarBaseMult(a,A,b) != a*A + b*B", i)
		}
	}
}

func TestVarTimeMultiScalarMultAgreesWithSequentialAdds(t *testing.T) {
	n := 5
	scalars := make([]*Scalar, n)
	points := make([]*Point, n)
	want := NewIdentityPoint()
	for i := 0; i < n; i++ {
		scalars[i] = randomScalar(t)
		points[i] = new(Point).ScalarBaseMult(randomScalar(t))
		want.Add(want, new(Point).ScalarMult(scalars[i], points[i]))
	}

	got := new(Point).VarTimeMultiScalarMult(scalars, points)
	if got.Equal(want) != 1 {
		t.Fatal("VarTimeMultiScalarMult disagrees with sequential scalar multiplies and adds")
	}
}

func TestVarTimeMultiScalarMultPanicsOnMismatchedLengths(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for mismatched slice lengths")
		}
	}()
	_ = new(Point).VarTimeMultiScalarMult([]*Scalar{NewScalar()}, nil)
}

func TestPrecomputeIsIdempotent(t *testing.T) {
	Precompute()
	Precompute()
	b := NewGeneratorPoint()
	s := randomScalar(t)
	got := new(Point).ScalarBaseMult(s)
	want := new(Point).ScalarMult(s, b)
	if got.Equal(want) != 1 {
		t.Fatal("ScalarBaseMult result changed after redundant Precompute calls")
	}
}
