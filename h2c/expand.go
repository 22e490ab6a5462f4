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
	"crypto"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const maxDSTLength = 255

// the long-DST prefix from RFC 9380 section 5.3.3, used when the
// caller-supplied domain separation tag exceeds maxDSTLength bytes.
var longDSTPrefix = []byte("H2C-OVERSIZE-DST-")

// expandDST applies the RFC 9380 section 5.3.3 over-long DST prefixing,
// returning a tag guaranteed to be at most maxDSTLength bytes, hashed
// through hashFn (which returns the digest of the single byte slice it
// is given).
func expandDST(dst []byte, hashFn func([]byte) []byte) []byte {
	if len(dst) <= maxDSTLength {
		return dst
	}
	return hashFn(append(append([]byte{}, longDSTPrefix...), dst...))
}

// ExpandMessageXMD implements the expand_message_xmd operation of RFC
// 9380 section 5.3.1, filling out with len(out) pseudorandom bytes
// derived from msg and dst via hFunc.
func ExpandMessageXMD(out []byte, hFunc crypto.Hash, dst, msg []byte) error {
	if !hFunc.Available() {
		return fmt.Errorf("h2c: requested hash function is not available")
	}

	h := hFunc.New()
	bLen := h.Size()
	sInBlockLen := h.BlockSize()

	lenInBytes := len(out)
	ell := (lenInBytes + bLen - 1) / bLen
	if ell > 255 {
		return fmt.Errorf("h2c: requested output length too large")
	}

	dst = expandDST(dst, func(b []byte) []byte {
		h := hFunc.New()
		_, _ = h.Write(b)
		return h.Sum(nil)
	})

	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	zPad := make([]byte, sInBlockLen)
	lIBStr := make([]byte, 2)
	binary.BigEndian.PutUint16(lIBStr, uint16(lenInBytes))

	msgPrime := make([]byte, 0, len(zPad)+len(msg)+len(lIBStr)+1+len(dstPrime))
	msgPrime = append(msgPrime, zPad...)
	msgPrime = append(msgPrime, msg...)
	msgPrime = append(msgPrime, lIBStr...)
	msgPrime = append(msgPrime, 0x00)
	msgPrime = append(msgPrime, dstPrime...)

	h.Reset()
	_, _ = h.Write(msgPrime)
	b0 := h.Sum(nil)

	h.Reset()
	_, _ = h.Write(b0)
	_, _ = h.Write([]byte{0x01})
	_, _ = h.Write(dstPrime)
	bI := h.Sum(nil)

	uniformBytes := make([]byte, 0, ell*bLen)
	uniformBytes = append(uniformBytes, bI...)

	for i := 2; i <= ell; i++ {
		xored := make([]byte, bLen)
		for j := range xored {
			xored[j] = b0[j] ^ bI[j]
		}

		h.Reset()
		_, _ = h.Write(xored)
		_, _ = h.Write([]byte{byte(i)})
		_, _ = h.Write(dstPrime)
		bI = h.Sum(nil)

		uniformBytes = append(uniformBytes, bI...)
	}

	copy(out, uniformBytes[:lenInBytes])
	return nil
}

// ExpandMessageXOF implements the expand_message_xof operation of RFC
// 9380 section 5.3.2, filling out with len(out) pseudorandom bytes
// derived from msg and dst via xofFunc. xofFunc is cloned and reset for
// each use, so the caller may reuse the sha3.ShakeHash passed in across
// calls. An over-long DST is hashed to ceil(2*k/8) bytes.
func ExpandMessageXOF(out []byte, xofFunc sha3.ShakeHash, dst, msg []byte) error {
	lenInBytes := len(out)

	dst = expandDST(dst, func(b []byte) []byte {
		xof := xofFunc.Clone()
		xof.Reset()
		_, _ = xof.Write(b)
		digest := make([]byte, (2*kay+7)/8)
		_, _ = xof.Read(digest)
		return digest
	})

	dstPrime := append(append([]byte{}, dst...), byte(len(dst)))

	lIBStr := make([]byte, 2)
	binary.BigEndian.PutUint16(lIBStr, uint16(lenInBytes))

	msgPrime := make([]byte, 0, len(msg)+len(lIBStr)+len(dstPrime))
	msgPrime = append(msgPrime, msg...)
	msgPrime = append(msgPrime, lIBStr...)
	msgPrime = append(msgPrime, dstPrime...)

	xof := xofFunc.Clone()
	xof.Reset()
	_, _ = xof.Write(msgPrime)

	uniformBytes := make([]byte, lenInBytes)
	if _, err := xof.Read(uniformBytes); err != nil {
		return fmt.Errorf("h2c: failed to read from XOF: %w", err)
	}

	copy(out, uniformBytes)
	return nil
}
