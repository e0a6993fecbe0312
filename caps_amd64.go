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

package aesproofs

import (
	"golang.org/x/sys/cpu"
)

// Implementations reports which accelerated AES implementations are
// available on this machine beyond the baseline AES-NI engine.
// Constructing an engine for an implementation not present in the result
// is a programming error.
func Implementations() []Implementation {
	var impls []Implementation
	if cpu.X86.HasAVX512VAES {
		impls = append(impls, VAES)
	}
	return impls
}
