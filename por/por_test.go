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

package por

import (
	stdaes "crypto/aes"
	"encoding/binary"
	"testing"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sys/cpu"

	"github.com/SnellerInc/aesproofs"
	"github.com/SnellerInc/aesproofs/ints"
)

const testIterations = 256

// deriveBlock produces a stable 16-byte test input from a label, so
// failures reproduce without recording random inputs.
func deriveBlock(label string) aesproofs.Block {
	sum := blake2b.Sum256([]byte(label))
	var b aesproofs.Block
	copy(b[:], sum[:])
	return b
}

// fillPiece fills p with a deterministic siphash stream keyed by (k0, k1).
func fillPiece(p *aesproofs.Piece, k0, k1 uint64) {
	var ctr [8]byte
	for off := 0; off < aesproofs.PieceSize; off += aesproofs.BlockSize {
		binary.LittleEndian.PutUint64(ctr[:], uint64(off))
		lo, hi := siphash.Hash128(k0, k1, ctr[:])
		binary.LittleEndian.PutUint64(p[off:], lo)
		binary.LittleEndian.PutUint64(p[off+8:], hi)
	}
}

func randPiece(t *testing.T) aesproofs.Piece {
	t.Helper()
	var p aesproofs.Piece
	if err := ints.RandomFillSlice(p[:]); err != nil {
		t.Fatal(err)
	}
	return p
}

func randBlock(t *testing.T) aesproofs.Block {
	t.Helper()
	var b aesproofs.Block
	if err := ints.RandomFillSlice(b[:]); err != nil {
		t.Fatal(err)
	}
	return b
}

// referenceEncode is an independent rendition of the encoding chain built
// on crypto/aes, one stdlib encryption per AES iteration. Slow, but it
// pins both the chain layout and the iterated cipher itself without
// sharing any code with the engines under test.
func referenceEncode(t *testing.T, piece *aesproofs.Piece, id, iv aesproofs.Block, aesIterations, breadthIterations int) {
	t.Helper()
	c, err := stdaes.NewCipher(id[:])
	if err != nil {
		t.Fatal(err)
	}
	feedback := iv
	for k := 0; k < breadthIterations; k++ {
		for off := 0; off < aesproofs.PieceSize; off += aesproofs.BlockSize {
			var b [aesproofs.BlockSize]byte
			copy(b[:], piece[off:])
			for i := range b {
				b[i] ^= feedback[i]
			}
			for n := 0; n < aesIterations; n++ {
				c.Encrypt(b[:], b[:])
			}
			copy(piece[off:], b[:])
			feedback = aesproofs.Block(b)
		}
	}
}

func TestEncodeMatchesReference(t *testing.T) {
	for _, breadth := range []int{1, 10} {
		keysID := deriveBlock("por-reference-id")
		keys := NewKeys(keysID)

		var pieces [4]aesproofs.Piece
		var ivs [4]aesproofs.Block
		for l := range pieces {
			fillPiece(&pieces[l], 0x6c62272e07bb0142, uint64(l))
			ivs[l] = deriveBlock("por-reference-iv-" + string(rune('0'+l)))
		}

		want := pieces
		for l := range want {
			referenceEncode(t, &want[l], keysID, ivs[l], testIterations, breadth)
		}

		AESNI{}.Encode(&pieces, keys, ivs, testIterations, breadth)
		for l := range pieces {
			if pieces[l] != want[l] {
				t.Fatalf("breadth %d: lane %d diverges from the reference chain", breadth, l)
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, breadth := range []int{1, 10} {
		for trial := 0; trial < 50; trial++ {
			id := randBlock(t)
			iv := randBlock(t)
			input := randPiece(t)
			keys := NewKeys(id)

			pieces := [4]aesproofs.Piece{input, input, input, input}
			AESNI{}.Encode(&pieces, keys, [4]aesproofs.Block{iv, iv, iv, iv}, testIterations, breadth)

			for l := range pieces {
				if pieces[l] == input {
					t.Fatalf("breadth %d: lane %d encoding is the identity", breadth, l)
				}
				decoded := pieces[l]
				AESNI{}.Decode(&decoded, keys, iv, testIterations, breadth)
				if decoded != input {
					t.Fatalf("breadth %d trial %d: lane %d round-trip mismatch", breadth, trial, l)
				}
			}
		}
	}
}

func TestEncodeDeterminism(t *testing.T) {
	id := deriveBlock("por-determinism-id")
	iv := deriveBlock("por-determinism-iv")
	keys := NewKeys(id)

	var input aesproofs.Piece
	fillPiece(&input, 0x736f6d6570736575, 0x646f72616e646f6d)

	run := func() [4]aesproofs.Piece {
		pieces := [4]aesproofs.Piece{input, input, input, input}
		AESNI{}.Encode(&pieces, keys, [4]aesproofs.Block{iv, iv, iv, iv}, testIterations, 1)
		return pieces
	}

	first := run()
	second := run()
	if first != second {
		t.Fatal("encoding is not deterministic")
	}
}

// Encoding four pieces together must equal encoding each piece on its own:
// the lanes share the engine call but no data.
func TestLaneIndependence(t *testing.T) {
	id := deriveBlock("por-lanes-id")
	keys := NewKeys(id)

	var pieces [4]aesproofs.Piece
	var ivs [4]aesproofs.Block
	for l := range pieces {
		fillPiece(&pieces[l], 0x0123456789abcdef, uint64(l)*0x1111)
		ivs[l] = deriveBlock("por-lanes-iv-" + string(rune('0'+l)))
	}

	together := pieces
	AESNI{}.Encode(&together, keys, ivs, testIterations, 1)

	for l := range pieces {
		alone := [4]aesproofs.Piece{pieces[l], pieces[l], pieces[l], pieces[l]}
		AESNI{}.Encode(&alone, keys, [4]aesproofs.Block{ivs[l], ivs[l], ivs[l], ivs[l]}, testIterations, 1)
		if alone[0] != together[l] {
			t.Fatalf("lane %d depends on its neighbours", l)
		}
	}
}

func TestVAESMatchesAESNI(t *testing.T) {
	if !cpu.X86.HasAVX512VAES {
		t.Skip("VAES support not available")
	}

	for trial := 0; trial < 20; trial++ {
		id := randBlock(t)
		keys := NewKeys(id)

		var pieces [4]aesproofs.Piece
		var ivs [4]aesproofs.Block
		for l := range pieces {
			pieces[l] = randPiece(t)
			ivs[l] = randBlock(t)
		}

		ni := pieces
		AESNI{}.Encode(&ni, keys, ivs, testIterations, 1)
		wide := pieces
		VAES{}.Encode(&wide, keys, ivs, testIterations, 1)
		if ni != wide {
			t.Fatalf("trial %d: VAES encode diverges from AES-NI", trial)
		}

		decNI := ni[0]
		AESNI{}.Decode(&decNI, keys, ivs[0], testIterations, 1)
		decWide := wide[0]
		VAES{}.Decode(&decWide, keys, ivs[0], testIterations, 1)
		if decNI != decWide {
			t.Fatalf("trial %d: VAES decode diverges from AES-NI", trial)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	keys := NewKeys(deriveBlock("por-bench-id"))

	var pieces [4]aesproofs.Piece
	var ivs [4]aesproofs.Block
	for l := range pieces {
		fillPiece(&pieces[l], 0xdeadbeefcafebabe, uint64(l))
		ivs[l] = deriveBlock("por-bench-iv")
	}

	b.SetBytes(4 * aesproofs.PieceSize)
	for n := 0; n < b.N; n++ {
		AESNI{}.Encode(&pieces, keys, ivs, testIterations, 1)
	}
}

func BenchmarkEncodeVAES(b *testing.B) {
	if !cpu.X86.HasAVX512VAES {
		b.Skip("VAES support not available")
	}
	keys := NewKeys(deriveBlock("por-bench-id"))

	var pieces [4]aesproofs.Piece
	var ivs [4]aesproofs.Block
	for l := range pieces {
		fillPiece(&pieces[l], 0xdeadbeefcafebabe, uint64(l))
		ivs[l] = deriveBlock("por-bench-iv")
	}

	b.SetBytes(4 * aesproofs.PieceSize)
	for n := 0; n < b.N; n++ {
		VAES{}.Encode(&pieces, keys, ivs, testIterations, 1)
	}
}

func BenchmarkDecode(b *testing.B) {
	keys := NewKeys(deriveBlock("por-bench-id"))
	iv := deriveBlock("por-bench-iv")

	var piece aesproofs.Piece
	fillPiece(&piece, 0xdeadbeefcafebabe, 0)

	b.SetBytes(aesproofs.PieceSize)
	for n := 0; n < b.N; n++ {
		AESNI{}.Decode(&piece, keys, iv, testIterations, 1)
	}
}
