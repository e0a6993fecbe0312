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

// Package aesproofs implements the AES-128 core of a proof-of-space/time
// protocol: a proof-of-replication codec that turns a data piece into a
// replica through a slow, inherently sequential chained encoding (package
// por), and a proof-of-time sequential AES chain with a pipelined,
// parallelizable verifier (package pot). Both are driven by the four-lane
// hardware block engines in internal/aes.
//
// The root package holds the shared value types and the runtime capability
// query. AES-NI is assumed present on target CPUs; the wider VAES engine is
// optional and its availability is reported by Implementations. The caller
// picks an engine once; the core never auto-selects.
package aesproofs

// BlockSize is the AES block width in bytes. Identities, seeds, IVs and
// proof-of-time checkpoints are all single blocks.
const BlockSize = 16

// PieceSize is the size in bytes of the data pieces the replication codec
// operates on. It divides evenly into groups of four contiguous blocks,
// the working unit of the pipelined engines.
const PieceSize = 4096

// Block is a 16-byte value, the width of AES.
type Block [BlockSize]byte

// Piece is a caller-owned buffer the replication codec transforms in place.
type Piece [PieceSize]byte

// Implementation identifies an accelerated AES implementation beyond the
// baseline AES-NI engine.
type Implementation uint8

const (
	// VAES is the AVX-512 vector AES instruction set, processing four
	// 128-bit lanes in a single 512-bit register per instruction.
	VAES Implementation = iota
)

func (i Implementation) String() string {
	switch i {
	case VAES:
		return "VAES"
	default:
		return "unknown"
	}
}
