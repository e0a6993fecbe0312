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

// VAES is the replication codec on the 512-bit vector AES engine; the
// four lanes travel in a single register. Output is bit-identical to
// AESNI. Constructing it on a machine where aesproofs.Implementations
// does not report VAES is a programming error.
type VAES struct{}

// Encode replicates four pieces in place; see AESNI.Encode for the chain
// layout.
func (VAES) Encode(pieces *[4]aesproofs.Piece, keys *Keys, ivs [4]aesproofs.Block, aesIterations, breadthIterations int) {
	var blocks, feedback aes.BlockQuad
	for k := 0; k < breadthIterations; k++ {
		for off := 0; off < aesproofs.PieceSize; off += aesproofs.BlockSize {
			for l := range blocks {
				copy(blocks[l][:], pieces[l][off:])
				feedback[l] = [16]byte(ivs[l])
			}
			aes.EncodeQuadVAES(&keys.enc, &blocks, &feedback, aesIterations)
			for l := range blocks {
				copy(pieces[l][off:], blocks[l][:])
				ivs[l] = aesproofs.Block(blocks[l])
			}
		}
	}
}

// Decode inverts Encode for a single piece; see AESNI.Decode.
func (e VAES) Decode(piece *aesproofs.Piece, keys *Keys, iv aesproofs.Block, aesIterations, breadthIterations int) {
	for k := 1; k < breadthIterations; k++ {
		e.decodePass(piece, &keys.dec, nil, aesIterations)
	}
	e.decodePass(piece, &keys.dec, &iv, aesIterations)
}

func (VAES) decodePass(piece *aesproofs.Piece, rk *aes.ExpandedKey128, iv *aesproofs.Block, iterations int) {
	const groupSize = 4 * aesproofs.BlockSize
	const groups = aesproofs.PieceSize / groupSize

	var blocks, feedback aes.BlockQuad
	for g := groups - 1; g >= 1; g-- {
		off := g * groupSize
		for l := range blocks {
			copy(blocks[l][:], piece[off+l*aesproofs.BlockSize:])
			copy(feedback[l][:], piece[off+(l-1)*aesproofs.BlockSize:])
		}
		aes.DecodeQuadVAES(rk, &blocks, &feedback, iterations)
		for l := range blocks {
			copy(piece[off+l*aesproofs.BlockSize:], blocks[l][:])
		}
	}

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
	aes.DecodeQuadVAES(rk, &blocks, &feedback, iterations)
	for l := range blocks {
		copy(piece[l*aesproofs.BlockSize:], blocks[l][:])
	}
}
