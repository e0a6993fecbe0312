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

package pot

import (
	"sync"

	"github.com/SnellerInc/aesproofs"
	"github.com/SnellerInc/aesproofs/internal/aes"
)

// VAES is the proof-of-time engine on the 512-bit vector AES path.
// Results are bit-identical to AESNI. Constructing it on a machine where
// aesproofs.Implementations does not report VAES is a programming error.
type VAES struct{}

// Prove computes the checkpoint chain over seed. The chain is one block
// wide, so the wider registers buy nothing here; proving runs the same
// single-lane path as AESNI and exists for engine symmetry.
func (VAES) Prove(seed aesproofs.Block, keys *Keys, aesIterations, parallelism int) Proof {
	inner := segmentLength(aesIterations, parallelism)
	proof := make(Proof, 0, parallelism)
	x := [aesproofs.BlockSize]byte(seed)
	for i := 0; i < parallelism; i++ {
		aes.EncryptBlock(&keys.enc, &x, inner)
		proof = append(proof, aesproofs.Block(x))
	}
	return proof
}

// Verify checks proof against seed; see AESNI.Verify.
func (e VAES) Verify(proof Proof, seed aesproofs.Block, keys *Keys, aesIterations int) bool {
	inner := segmentLength(aesIterations, len(proof))
	j := 0
	for ; j+4 <= len(proof); j += 4 {
		if !e.verifyGroup(proof, seed, keys, j, inner) {
			return false
		}
	}
	for ; j < len(proof); j++ {
		if !verifySingle(proof, seed, keys, j, inner) {
			return false
		}
	}
	return true
}

// VerifyParallel is Verify with the groups of four spread across
// goroutines; see AESNI.VerifyParallel.
func (e VAES) VerifyParallel(proof Proof, seed aesproofs.Block, keys *Keys, aesIterations int) bool {
	inner := segmentLength(aesIterations, len(proof))
	groups := len(proof) / 4

	results := make([]bool, groups)
	var wg sync.WaitGroup
	wg.Add(groups)
	for g := 0; g < groups; g++ {
		go func(g int) {
			defer wg.Done()
			results[g] = e.verifyGroup(proof, seed, keys, g*4, inner)
		}(g)
	}

	ok := true
	for j := groups * 4; j < len(proof); j++ {
		ok = verifySingle(proof, seed, keys, j, inner) && ok
	}
	wg.Wait()

	for _, r := range results {
		ok = ok && r
	}
	return ok
}

func (VAES) verifyGroup(proof Proof, seed aesproofs.Block, keys *Keys, j, inner int) bool {
	var expected, blocks aes.BlockQuad
	for l := 0; l < 4; l++ {
		expected[l] = [aesproofs.BlockSize]byte(predecessor(proof, seed, j+l))
		blocks[l] = [aesproofs.BlockSize]byte(proof[j+l])
	}
	return aes.VerifyQuadVAES(&keys.dec, &expected, &blocks, inner)
}
