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

// Package pot implements the proof-of-time primitive: a sequential AES
// chain over a seed acting as a verifiable delay function. Proving walks
// the chain one block at a time and cannot be parallelized; verification
// checks adjacent checkpoint pairs independently, four at a time through
// the pipelined decode engine, optionally spread across goroutines.
//
// Prover and verifier are pure functions of their inputs; a failed
// verification is a false return, not an error.
package pot

import (
	"github.com/SnellerInc/aesproofs"
	"github.com/SnellerInc/aesproofs/internal/aes"
)

// Proof is the ordered sequence of checkpoints produced by Prove; its
// length equals the parallelism the prover was asked for, and each
// checkpoint is the chain state after another aesIterations/parallelism
// encryptions.
type Proof []aesproofs.Block

// Keys bundles the encryption and decryption schedules derived from a
// 16-byte identity. Construct once per identity; safe for concurrent use
// afterwards.
type Keys struct {
	enc aes.ExpandedKey128
	dec aes.ExpandedKey128
}

// NewKeys expands the identity id into the forward schedule used for
// proving and the equivalent-inverse schedule used for verification.
func NewKeys(id aesproofs.Block) *Keys {
	k := aes.Key128FromBlock(id)
	keys := new(Keys)
	keys.enc.ExpandFrom(k)
	keys.dec.ExpandInverseFrom(k)
	return keys
}

// segmentLength validates the (iterations, parallelism) pair and returns
// the per-checkpoint iteration count. Violations are programmer errors.
func segmentLength(aesIterations, parallelism int) int {
	if parallelism <= 0 || aesIterations%parallelism != 0 {
		panic("pot: aes iterations must be a positive multiple of parallelism")
	}
	return aesIterations / parallelism
}

// predecessor returns the expected pre-image of checkpoint j: the seed
// for the first checkpoint, the previous checkpoint otherwise.
func predecessor(proof Proof, seed aesproofs.Block, j int) aesproofs.Block {
	if j == 0 {
		return seed
	}
	return proof[j-1]
}
