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
	"github.com/SnellerInc/aesproofs"
	"github.com/SnellerInc/aesproofs/internal/aes"
)

// AESNI is the replication codec on the 128-bit AES-NI engine. The zero
// value is ready to use on any CPU with AES-NI.
type AESNI struct{}

// Encode replicates four pieces in place. Each lane runs its own CBC
// chain: block 0 of the first breadth pass chains from the lane's IV,
// every other block from the previous ciphertext block, and block 0 of
// later passes from the previous pass's final ciphertext. aesIterations
// is the per-block AES count, breadthIterations the number of passes over
// the whole piece.
func (AESNI) Encode(pieces *[4]aesproofs.Piece, keys *Keys, ivs [4]aesproofs.Block, aesIterations, breadthIterations int) {
	var blocks, feedback aes.BlockQuad
	for k := 0; k < breadthIterations; k++ {
		for off := 0; off < aesproofs.PieceSize; off += aesproofs.BlockSize {
			for l := range blocks {
				copy(blocks[l][:], pieces[l][off:])
				feedback[l] = [16]byte(ivs[l])
			}
			aes.EncodeQuad(&keys.enc, &blocks, &feedback, aesIterations)
			for l := range blocks {
				copy(pieces[l][off:], blocks[l][:])
				ivs[l] = aesproofs.Block(blocks[l])
			}
		}
	}
}

// Decode inverts Encode for a single piece. Blocks are processed in
// reverse order in groups of four; all four feedbacks of a group are
// known up front, which is what makes the decode side parallel.
func (e AESNI) Decode(piece *aesproofs.Piece, keys *Keys, iv aesproofs.Block, aesIterations, breadthIterations int) {
	for k := 1; k < breadthIterations; k++ {
		e.decodePass(piece, &keys.dec, nil, aesIterations)
	}
	e.decodePass(piece, &keys.dec, &iv, aesIterations)
}

func (AESNI) decodePass(piece *aesproofs.Piece, rk *aes.ExpandedKey128, iv *aesproofs.Block, iterations int) {
	const groupSize = 4 * aesproofs.BlockSize
	const groups = aesproofs.PieceSize / groupSize

	var blocks, feedback aes.BlockQuad
	for g := groups - 1; g >= 1; g-- {
		off := g * groupSize
		for l := range blocks {
			copy(blocks[l][:], piece[off+l*aesproofs.BlockSize:])
			copy(feedback[l][:], piece[off+(l-1)*aesproofs.BlockSize:])
		}
		aes.DecodeQuad(rk, &blocks, &feedback, iterations)
		for l := range blocks {
			copy(piece[off+l*aesproofs.BlockSize:], blocks[l][:])
		}
	}

	// First group: block 0 chains from the pass IV. On breadth passes
	// before the last the IV is nil and the feedback is the piece's last
	// block, which the loop above has already decoded back to the
	// previous pass's final ciphertext.
	for l := range blocks {
		copy(blocks[l][:], piece[l*aesproofs.BlockSize:])
	}
	if iv != nil {
		feedback[0] = [16]byte(*iv)
	} else {
		copy(feedback[0][:], piece[aesproofs.PieceSize-aesproofs.BlockSize:])
	}
	for l := 1; l < 4; l++ {
		copy(feedback[l][:], piece[(l-1)*aesproofs.BlockSize:])
	}
	aes.DecodeQuad(rk, &blocks, &feedback, iterations)
	for l := range blocks {
		copy(piece[l*aesproofs.BlockSize:], blocks[l][:])
	}
}
