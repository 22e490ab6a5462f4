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

// Package eddsa implements the plain Ed25519 signature scheme (RFC 8032
// section 5.1): key generation, deterministic signing, and verification,
// built on top of this module's edwards25519 field, scalar, and point
// arithmetic.
package eddsa

import (
	"crypto/sha512"
	"crypto/subtle"

	"gitlab.com/yawning/ed25519-core.git/field"

	"gitlab.com/yawning/ed25519-core.git"
)

const (
	// SeedSize is the size, in bytes, of an Ed25519 seed (the private key
	// input to GeneratePublicKey and Sign).
	SeedSize = 32

	// PublicKeySize is the size, in bytes, of an Ed25519 public key.
	PublicKeySize = 32

	// SignatureSize is the size, in bytes, of an Ed25519 signature.
	SignatureSize = 64
)

// Precompute forces construction of the fixed-base scalar multiplication
// table. It may be called eagerly to pay the one-time setup cost outside
// a latency-sensitive path; the first call to GeneratePublicKey, Sign, or
// Verify triggers it automatically otherwise.
func Precompute() {
	edwards25519.Precompute()
}

// expandSeed hashes a 32-byte seed into the clamped scalar s and the
// nonce-derivation prefix, per RFC 8032 section 5.1.5 steps 1-2.
func expandSeed(seed []byte) (s *edwards25519.Scalar, prefix []byte) {
	if len(seed) != SeedSize {
		panic("eddsa: invalid seed length")
	}

	h := sha512.Sum512(seed)

	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		panic("eddsa: failed to clamp seed scalar: " + err.Error())
	}

	return s, h[32:]
}

// GeneratePublicKey derives the 32-byte public key A = encode(s*B) from a
// 32-byte seed.
func GeneratePublicKey(seed []byte) []byte {
	s, _ := expandSeed(seed)
	A := edwards25519.NewIdentityPoint().ScalarBaseMult(s)
	return A.Bytes()
}

// Sign computes a deterministic 64-byte Ed25519 signature of message
// under the private key derived from seed.
func Sign(seed, message []byte) []byte {
	return sign(seed, nil, message)
}

// SignWithPublicKey is Sign, but skips recomputing the public key from
// seed when the caller already has it on hand (e.g. cached from a prior
// GeneratePublicKey call).
func SignWithPublicKey(seed, publicKey, message []byte) []byte {
	if len(publicKey) != PublicKeySize {
		panic("eddsa: invalid public key length")
	}
	return sign(seed, publicKey, message)
}

func sign(seed, publicKey, message []byte) []byte {
	s, prefix := expandSeed(seed)

	A := publicKey
	if A == nil {
		A = edwards25519.NewIdentityPoint().ScalarBaseMult(s).Bytes()
	}

	h := sha512.New()
	_, _ = h.Write(prefix)
	_, _ = h.Write(message)
	rDigest := h.Sum(nil)

	r, err := edwards25519.NewScalar().SetUniformBytes(rDigest)
	if err != nil {
		panic("eddsa: failed to reduce nonce: " + err.Error())
	}
	R := edwards25519.NewIdentityPoint().ScalarBaseMult(r).Bytes()

	k := hashRAM(R, A, message)

	S := edwards25519.NewScalar().MulAdd(k, s, r)

	var sig [SignatureSize]byte
	copy(sig[:32], R)
	copy(sig[32:], S.Bytes())
	return sig[:]
}

// hashRAM computes k = reduce512(SHA-512(R || A || m)), the challenge
// scalar shared by signing step 5 and verification.
func hashRAM(R, A, message []byte) *edwards25519.Scalar {
	h := sha512.New()
	_, _ = h.Write(R)
	_, _ = h.Write(A)
	_, _ = h.Write(message)
	digest := h.Sum(nil)

	k, err := edwards25519.NewScalar().SetUniformBytes(digest)
	if err != nil {
		panic("eddsa: failed to reduce challenge: " + err.Error())
	}
	return k
}

// Verify reports whether sig is a valid Ed25519 signature of message
// under publicKey. Malformed signatures or public keys (non-canonical
// coordinates, S >= ell, points not on the curve) cause Verify to return
// false rather than panic or error, per the scheme's error-handling
// contract. A signature or public key of the wrong length also makes
// Verify return false.
func Verify(sig, publicKey, message []byte) bool {
	Precompute()
	if len(sig) != SignatureSize || len(publicKey) != PublicKeySize {
		return false
	}

	rBytes := sig[:32]
	sBytes := sig[32:]

	if !isCanonicalFieldElement(rBytes) {
		return false
	}

	S, err := edwards25519.NewScalar().SetCanonicalBytes(sBytes)
	if err != nil {
		return false // S >= ell.
	}

	A, err := edwards25519.NewIdentityPoint().SetBytes(publicKey)
	if err != nil {
		return false
	}
	negA := edwards25519.NewIdentityPoint().Negate(A)

	k := hashRAM(rBytes, publicKey, message)

	Rprime := edwards25519.NewIdentityPoint().VarTimeDoubleScalarBaseMult(k, negA, S)

	return subtle.ConstantTimeCompare(Rprime.Bytes(), rBytes) == 1
}

// isCanonicalFieldElement reports whether b, with its top (sign) bit
// masked off, encodes a value strictly less than p. Verification never
// needs to decode R as a curve point -- only its top-bit-masked value
// needs to be a canonical field element, per spec.md 4.5's Verify step.
func isCanonicalFieldElement(b []byte) bool {
	var masked [32]byte
	copy(masked[:], b)
	masked[31] &= 0x7f

	fe, err := new(field.Element).SetBytes(masked[:])
	if err != nil {
		return false
	}

	var got [32]byte
	copy(got[:], fe.Bytes())
	return got == masked
}
