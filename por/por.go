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

// Package por implements the proof-of-replication codec: a CBC-style chain
// over a whole piece with the single AES encryption replaced by an
// N-iterated one, so encoding is slow and inherently sequential per lane
// while decoding stays parallel across blocks. Four independent piece
// lanes are encoded together to saturate the pipelined block engines; the
// lanes are never mixed.
//
// The codec comes in two engine flavours, AESNI and VAES, selected once by
// the caller. Their outputs are bit-identical; VAES is only a throughput
// play and must not be constructed on machines where
// aesproofs.Implementations does not report it.
package por

import (
	"github.com/SnellerInc/aesproofs"
	"github.com/SnellerInc/aesproofs/internal/aes"
)

// Keys bundles the encryption and decryption schedules derived from a
// 16-byte replication identity. Construct once per identity; safe for
// concurrent use afterwards.
type Keys struct {
	enc aes.ExpandedKey128
	dec aes.ExpandedKey128
}

// NewKeys expands the identity id into the forward schedule used for
// encoding and the equivalent-inverse schedule used for decoding.
func NewKeys(id aesproofs.Block) *Keys {
	k := aes.Key128FromBlock(id)
	keys := new(Keys)
	keys.enc.ExpandFrom(k)
	keys.dec.ExpandInverseFrom(k)
	return keys
}
