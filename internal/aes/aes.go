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

// Package aes provides the AES-128 key schedule and the pipelined four-lane
// block engines the replication and proof-of-time codecs are built on.
// The key schedule is portable Go; the engines are hand-written amd64
// assembly in two flavours, AES-NI (four independent XMM lanes) and VAES
// (the same four lanes packed in one ZMM register). Both flavours consume
// the same expanded schedule and produce bit-identical output.
package aes

import (
	"encoding/binary"
	"math/bits"

	"github.com/SnellerInc/aesproofs/ints"
)

// Key128 represents a 128-bit AES key in the little-endian word layout
// the hardware round instructions consume.
type Key128 [4]uint32

// ExpandedKey128 stores the 11 round keys produced by the AES key
// expansion algorithm. The in-memory layout (11 contiguous 16-byte round
// keys) is exactly what the block engines load their key registers from.
type ExpandedKey128 [11]Key128

// BlockQuad is four 128-bit lanes, the working unit of one pipelined
// engine call. The lanes share no data; grouping four of them is what
// keeps the CPU's AES execution units saturated.
type BlockQuad [4][16]byte

// Key128FromBlock loads a 16-byte block as a Key128.
func Key128FromBlock(b [16]byte) Key128 {
	return Key128{
		binary.LittleEndian.Uint32(b[0:4]),
		binary.LittleEndian.Uint32(b[4:8]),
		binary.LittleEndian.Uint32(b[8:12]),
		binary.LittleEndian.Uint32(b[12:16]),
	}
}

// RandomKey128 creates a 128-bit key with cryptographically strong RNG values
func RandomKey128() (Key128, error) {
	var key Key128
	err := ints.RandomFillSlice(key[:])
	return key, err
}

func aesSubWord(x uint32) uint32 {
	b0 := byte(x & 0xff)
	b1 := byte((x >> 8) & 0xff)
	b2 := byte((x >> 16) & 0xff)
	b3 := byte((x >> 24) & 0xff)
	s0 := aesSBox[b0]
	s1 := aesSBox[b1]
	s2 := aesSBox[b2]
	s3 := aesSBox[b3]
	return (uint32(s3) << 24) | (uint32(s2) << 16) | (uint32(s1) << 8) | uint32(s0)
}

func aesRotWord(x uint32) uint32 {
	return bits.RotateLeft32(x, -8)
}

// ExpandFrom takes a Key128 key and expands it into 11 round keys
func (p *ExpandedKey128) ExpandFrom(key Key128) {
	p[0] = key
	for i := 4; i < 44; i++ {
		t := p[(i-1)/4][(i-1)%4]
		if i%4 == 0 {
			t = aesSubWord(aesRotWord(t)) ^ roundConstant[(i/4)-1]
		}
		p[i/4][i%4] = p[(i-4)/4][(i-4)%4] ^ t
	}
}

// ExpandInverseFrom takes a Key128 key and expands it into the 11 round
// keys of the equivalent-inverse schedule required for decryption with
// the hardware decode instructions: the forward schedule reversed, with
// InvMixColumns applied to the nine middle round keys. The decode engines
// walk the result front to back, mirroring the encode loop.
func (p *ExpandedKey128) ExpandInverseFrom(key Key128) {
	var enc ExpandedKey128
	enc.ExpandFrom(key)
	p[0] = enc[10]
	for i := 1; i <= 9; i++ {
		p[i] = invMixKey(enc[10-i])
	}
	p[10] = enc[0]
}

// invMixKey applies InvMixColumns to each of the four columns of a round
// key. Cold path: runs once per schedule, so table-free GF(2^8)
// arithmetic is fine here.
func invMixKey(k Key128) Key128 {
	var out Key128
	for i, w := range k {
		s0 := byte(w)
		s1 := byte(w >> 8)
		s2 := byte(w >> 16)
		s3 := byte(w >> 24)
		t0 := gfMul(s0, 0x0e) ^ gfMul(s1, 0x0b) ^ gfMul(s2, 0x0d) ^ gfMul(s3, 0x09)
		t1 := gfMul(s0, 0x09) ^ gfMul(s1, 0x0e) ^ gfMul(s2, 0x0b) ^ gfMul(s3, 0x0d)
		t2 := gfMul(s0, 0x0d) ^ gfMul(s1, 0x09) ^ gfMul(s2, 0x0e) ^ gfMul(s3, 0x0b)
		t3 := gfMul(s0, 0x0b) ^ gfMul(s1, 0x0d) ^ gfMul(s2, 0x09) ^ gfMul(s3, 0x0e)
		out[i] = uint32(t0) | uint32(t1)<<8 | uint32(t2)<<16 | uint32(t3)<<24
	}
	return out
}

// gfMul multiplies a and b in GF(2^8) modulo the AES polynomial 0x11b.
func gfMul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= 0x1b
		}
		b >>= 1
	}
	return p
}

var roundConstant = [10]uint32{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

var aesSBox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}
