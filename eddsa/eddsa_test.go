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

package eddsa

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"
)

func mustUnhex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("failed to parse hex: %v", err)
	}
	return b
}

// TestIETFVectors checks the RFC 8032 section 7.1 TEST 1-3 vectors.
// TEST 2 and TEST 3 are only known here by their published signature
// prefix (spec.md does not carry the full 128 hex characters), so those
// two compare only the bytes actually given.
func TestIETFVectors(t *testing.T) {
	cases := []struct {
		name       string
		sk         string
		msg        string
		pk         string // empty if not checked in full
		sig        string // may be a prefix-only hex string
		prefixOnly bool
	}{
		{
			name: "TEST1",
			sk:   "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60",
			msg:  "",
			pk:   "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
			sig:  "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
		},
		{
			name:       "TEST2",
			sk:         "4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb",
			msg:        "72",
			sig:        "92a009a9f0d4cab8720e820b5f642540",
			prefixOnly: true,
		},
		{
			name:       "TEST3",
			sk:         "c5aa8df43f9f837bedb7442f31dcb7b166d38535076f094b85ce3a2e0b4458f7",
			msg:        "af82",
			sig:        "6291d657deec24024827e69c3abe01a3",
			prefixOnly: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sk := mustUnhex(t, tc.sk)
			msg := mustUnhex(t, tc.msg)
			wantSig := mustUnhex(t, tc.sig)

			if tc.pk != "" {
				pk := GeneratePublicKey(sk)
				wantPK := mustUnhex(t, tc.pk)
				if !bytes.Equal(pk, wantPK) {
					t.Fatalf("public key mismatch: got %x, want %x", pk, wantPK)
				}
			}

			sig := Sign(sk, msg)
			if tc.prefixOnly {
				if !bytes.Equal(sig[:len(wantSig)], wantSig) {
					t.Fatalf("signature prefix mismatch: got %x, want %x", sig[:len(wantSig)], wantSig)
				}
			} else {
				if !bytes.Equal(sig, wantSig) {
					t.Fatalf("signature mismatch: got %x, want %x", sig, wantSig)
				}
			}

			pk := GeneratePublicKey(sk)
			if !Verify(sig, pk, msg) {
				t.Fatal("Verify rejected an honestly generated signature")
			}
		})
	}
}

func randomSeed(t *testing.T) []byte {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		t.Fatalf("failed to read random seed: %v", err)
	}
	return seed
}

// TestRoundTrip checks property 1: verify(sign(sk, m), publicKey(sk), m).
func TestRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		seed := randomSeed(t)
		msg := make([]byte, i*7)
		if _, err := rand.Read(msg); err != nil {
			t.Fatal(err)
		}

		pk := GeneratePublicKey(seed)
		sig := Sign(seed, msg)
		if !Verify(sig, pk, msg) {
			t.Fatalf("round trip failed for message of length %d", len(msg))
		}
	}
}

// TestDeterminism checks properties 2 and 3: GeneratePublicKey and Sign
// are pure functions of their inputs.
func TestDeterminism(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("deterministic signing")

	pk1 := GeneratePublicKey(seed)
	pk2 := GeneratePublicKey(seed)
	if !bytes.Equal(pk1, pk2) {
		t.Fatal("GeneratePublicKey is not deterministic")
	}

	sig1 := Sign(seed, msg)
	sig2 := Sign(seed, msg)
	if !bytes.Equal(sig1, sig2) {
		t.Fatal("Sign is not deterministic")
	}
}

// addIgnoringEll adds two 32-byte little-endian integers modulo 2^256,
// without any reduction modulo ell. Used only to build the malleability
// test's S + ell signature; Scalar arithmetic always reduces mod ell and
// so cannot represent this deliberately out-of-range value.
func addIgnoringEll(a, b [32]byte) [32]byte {
	var out [32]byte
	var carry uint16
	for i := 0; i < 32; i++ {
		sum := uint16(a[i]) + uint16(b[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}

// TestMalleabilityRejection checks property 4: sig' = R || (S + ell) must
// be rejected even though it encodes the same group element equation.
func TestMalleabilityRejection(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("malleability check")
	pk := GeneratePublicKey(seed)
	sig := Sign(seed, msg)

	ell := [32]byte{
		0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58, 0xd6, 0x9c, 0xf7, 0xa2,
		0xde, 0xf9, 0xde, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
	}
	var s [32]byte
	copy(s[:], sig[32:])
	sPlusEll := addIgnoringEll(s, ell)

	var malleated [SignatureSize]byte
	copy(malleated[:32], sig[:32])
	copy(malleated[32:], sPlusEll[:])

	if Verify(malleated[:], pk, msg) {
		t.Fatal("Verify accepted a malleated S+ell signature")
	}
}

// TestTamperRejection checks property 5: flipping any single bit of sig,
// pk, or m causes Verify to return false.
func TestTamperRejection(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("tamper check")
	pk := GeneratePublicKey(seed)
	sig := Sign(seed, msg)

	if !Verify(sig, pk, msg) {
		t.Fatal("baseline signature does not verify")
	}

	flipBit := func(b []byte, pos int) []byte {
		out := make([]byte, len(b))
		copy(out, b)
		out[pos/8] ^= 1 << (pos % 8)
		return out
	}

	for _, pos := range []int{0, 63, 127, 255, 511} {
		tampered := flipBit(sig, pos)
		if Verify(tampered, pk, msg) {
			t.Fatalf("Verify accepted a signature with bit %d flipped", pos)
		}
	}
	for _, pos := range []int{0, 127, 255} {
		tampered := flipBit(pk, pos)
		if Verify(sig, tampered, msg) {
			t.Fatalf("Verify accepted a tampered public key, bit %d", pos)
		}
	}
	if len(msg) > 0 {
		tampered := flipBit(msg, 0)
		if Verify(sig, pk, tampered) {
			t.Fatal("Verify accepted a tampered message")
		}
	}
}

// TestWrongKeyRejection checks property 6.
func TestWrongKeyRejection(t *testing.T) {
	seed1 := randomSeed(t)
	seed2 := randomSeed(t)
	msg := []byte("wrong key check")

	sig := Sign(seed1, msg)
	pk2 := GeneratePublicKey(seed2)

	if Verify(sig, pk2, msg) {
		t.Fatal("Verify accepted a signature under the wrong public key")
	}
}

// TestLowOrderPublicKeyRejection checks the all-zero public key vector:
// the all-zero encoding decodes to a small-order point, not the signer's
// actual key, so any honest signature must fail to verify against it.
func TestLowOrderPublicKeyRejection(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("low order A check")
	sig := Sign(seed, msg)

	var lowOrderPK [PublicKeySize]byte
	if Verify(sig, lowOrderPK[:], msg) {
		t.Fatal("Verify accepted a signature against the all-zero public key")
	}
}

// TestNonCanonicalYRejection checks that a public key with y >= p
// (all-0xff bytes, top bit cleared) is rejected outright.
func TestNonCanonicalYRejection(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("non canonical y check")
	sig := Sign(seed, msg)

	var badPK [PublicKeySize]byte
	for i := range badPK {
		badPK[i] = 0xff
	}
	badPK[31] &= 0x7f

	if Verify(sig, badPK[:], msg) {
		t.Fatal("Verify accepted a non-canonical public key encoding")
	}
}

func TestBadLengths(t *testing.T) {
	seed := randomSeed(t)
	msg := []byte("bad length check")
	pk := GeneratePublicKey(seed)
	sig := Sign(seed, msg)

	if Verify(sig[:63], pk, msg) {
		t.Fatal("Verify accepted a truncated signature")
	}
	if Verify(sig, pk[:31], msg) {
		t.Fatal("Verify accepted a truncated public key")
	}
}
