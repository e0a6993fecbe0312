// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

//go:build amd64
// +build amd64

package aes

// The engines below keep all 11 round keys and all four lanes in registers
// for the whole call; the round sequence is unrolled by hand so there is no
// call overhead between rounds and nothing spills. Lanes are independent
// after the initial feedback XOR, which lets the CPU overlap the ~4-cycle
// AESENC latency chains across them.

// EncodeQuad applies the feedback XOR to the four lanes once, then runs
// iterations full AES-128 encryptions of each lane with the forward
// schedule rk, writing the results back over blocks.
//
//go:noescape
//go:nosplit
func EncodeQuad(rk *ExpandedKey128, blocks *BlockQuad, feedback *BlockQuad, iterations int)

// DecodeQuad runs iterations full AES-128 decryptions of each lane with
// the equivalent-inverse schedule rk, then applies the feedback XOR once.
// Inverse of EncodeQuad for matching feedbacks.
//
//go:noescape
//go:nosplit
func DecodeQuad(rk *ExpandedKey128, blocks *BlockQuad, feedback *BlockQuad, iterations int)

// EncryptBlock runs iterations full AES-128 encryptions of a single block
// in place. The chain is inherently sequential; there is nothing to
// pipeline here.
//
//go:noescape
//go:nosplit
func EncryptBlock(rk *ExpandedKey128, block *[16]byte, iterations int)

// DecryptBlock runs iterations full AES-128 decryptions of a single block
// in place with the equivalent-inverse schedule rk.
//
//go:noescape
//go:nosplit
func DecryptBlock(rk *ExpandedKey128, block *[16]byte, iterations int)

// VerifyQuad runs iterations full AES-128 decryptions of the four lanes in
// blocks (no feedback) and reports whether every lane equals its expected
// counterpart. The comparison is a lane-wise 64-bit compare AND-reduced to
// a single boolean.
//
//go:noescape
//go:nosplit
func VerifyQuad(rk *ExpandedKey128, expected *BlockQuad, blocks *BlockQuad, iterations int) bool

// EncodeQuadVAES is EncodeQuad with the four lanes packed in one 512-bit
// register; one VAESENC advances all lanes a round. Requires AVX-512 VAES.
//
//go:noescape
//go:nosplit
func EncodeQuadVAES(rk *ExpandedKey128, blocks *BlockQuad, feedback *BlockQuad, iterations int)

// DecodeQuadVAES is DecodeQuad on the 512-bit path. Requires AVX-512 VAES.
//
//go:noescape
//go:nosplit
func DecodeQuadVAES(rk *ExpandedKey128, blocks *BlockQuad, feedback *BlockQuad, iterations int)

// VerifyQuadVAES is VerifyQuad on the 512-bit path. Requires AVX-512 VAES.
//
//go:noescape
//go:nosplit
func VerifyQuadVAES(rk *ExpandedKey128, expected *BlockQuad, blocks *BlockQuad, iterations int) bool
