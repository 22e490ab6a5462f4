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

package h2c

import (
	"bytes"
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"testing"

	"golang.org/x/crypto/sha3"
)

// TestVectors exercises the suite entry points end to end: determinism,
// sensitivity to message/DST, the Montgomery <-> Edwards round trip, and
// agreement of the generic and concrete SHA-512 suites, since the upstream JSON test vectors from the
// RFC 9380 reference implementation were not available to vendor here.
func TestVectors(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-edwards25519_XMD:SHA-512_ELL2_RO_")

	t.Run("EdwardsRO/Deterministic", func(t *testing.T) {
		p1, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) != 1 {
			t.Fatal("hash to curve is not deterministic")
		}
	})

	t.Run("EdwardsRO/MessageSensitive", func(t *testing.T) {
		p1, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abcdef0123456789"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) == 1 {
			t.Fatal("distinct messages hashed to the same point")
		}
	})

	t.Run("EdwardsRO/DSTSensitive", func(t *testing.T) {
		p1, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XMD_SHA512_ELL2_RO([]byte("a different DST"), []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) == 1 {
			t.Fatal("distinct DSTs hashed to the same point")
		}
	})

	t.Run("EdwardsNU/Deterministic", func(t *testing.T) {
		p1, err := Edwards25519_XMD_SHA512_ELL2_NU(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XMD_SHA512_ELL2_NU(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) != 1 {
			t.Fatal("encode to curve is not deterministic")
		}
	})

	t.Run("Curve25519/RoundTripsThroughEdwards", func(t *testing.T) {
		p, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		u, v, err := Curve25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		mp := &montgomeryPoint{u, v}
		if mp.ToEdwardsPoint().Equal(p) != 1 {
			t.Fatal("montgomery suite disagrees with edwards suite")
		}

		fromP := newMontgomeryPointFromEdwards(p)
		if fromP.u.Equal(mp.u) != 1 || fromP.v.Equal(mp.v) != 1 {
			t.Fatal("montgomery coordinates derived from the edwards point do not match the montgomery suite's own output")
		}
	})

	t.Run("XOF/Deterministic", func(t *testing.T) {
		p1, err := Edwards25519_XOF_ELL2_RO(sha3.NewShake128(), dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XOF_ELL2_RO(sha3.NewShake128(), dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) != 1 {
			t.Fatal("XOF-based hash to curve is not deterministic")
		}
	})

	t.Run("Generic/MatchesConcreteSuite", func(t *testing.T) {
		p1, err := Edwards25519_XMD_SHA512_ELL2_RO(dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		p2, err := Edwards25519_XMD_ELL2_RO(crypto.SHA512, dst, []byte("abc"))
		if err != nil {
			t.Fatal(err)
		}
		if p1.Equal(p2) != 1 {
			t.Fatal("concrete SHA-512 suite disagrees with the generic suite")
		}
	})
}

// TestExpandMessage checks expand_message_xmd/xof against their own
// defining properties (deterministic, fills the requested length,
// sensitive to the message) in the absence of vendored RFC 9380 vectors.
func TestExpandMessage(t *testing.T) {
	dst := []byte("QUUX-V01-CS02-with-expander-SHA256-128")

	t.Run("XMD/FillsRequestedLength", func(t *testing.T) {
		for _, n := range []int{1, 32, 48, 128, 255} {
			out := make([]byte, n)
			if err := ExpandMessageXMD(out, crypto.SHA256, dst, []byte("abc")); err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
		}
	})

	t.Run("XMD/Deterministic", func(t *testing.T) {
		out1 := make([]byte, 48)
		out2 := make([]byte, 48)
		if err := ExpandMessageXMD(out1, crypto.SHA256, dst, []byte("abc")); err != nil {
			t.Fatal(err)
		}
		if err := ExpandMessageXMD(out2, crypto.SHA256, dst, []byte("abc")); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out1, out2) {
			t.Fatal("expand_message_xmd is not deterministic")
		}
	})

	t.Run("XMD/MessageSensitive", func(t *testing.T) {
		out1 := make([]byte, 48)
		out2 := make([]byte, 48)
		if err := ExpandMessageXMD(out1, crypto.SHA256, dst, []byte("abc")); err != nil {
			t.Fatal(err)
		}
		if err := ExpandMessageXMD(out2, crypto.SHA256, dst, []byte("abcdef0123456789")); err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(out1, out2) {
			t.Fatal("distinct messages expanded to the same bytes")
		}
	})

	t.Run("XOF/FillsRequestedLength", func(t *testing.T) {
		for _, n := range []int{1, 32, 48, 128, 255} {
			out := make([]byte, n)
			if err := ExpandMessageXOF(out, sha3.NewShake128(), dst, []byte("abc")); err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
		}
	})

	t.Run("XOF/Deterministic", func(t *testing.T) {
		out1 := make([]byte, 48)
		out2 := make([]byte, 48)
		if err := ExpandMessageXOF(out1, sha3.NewShake128(), dst, []byte("abc")); err != nil {
			t.Fatal(err)
		}
		if err := ExpandMessageXOF(out2, sha3.NewShake128(), dst, []byte("abc")); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out1, out2) {
			t.Fatal("expand_message_xof is not deterministic")
		}
	})

	t.Run("XMD/OverlongDST", func(t *testing.T) {
		longDST := bytes.Repeat([]byte("x"), 300)
		out := make([]byte, 48)
		if err := ExpandMessageXMD(out, crypto.SHA256, longDST, []byte("abc")); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("XOF/OverlongDST", func(t *testing.T) {
		longDST := bytes.Repeat([]byte("x"), 300)
		out := make([]byte, 48)
		if err := ExpandMessageXOF(out, sha3.NewShake128(), longDST, []byte("abc")); err != nil {
			t.Fatal(err)
		}
	})
}
