// Copyright 2026 The Provledger Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package provcrypto provides keypair generation, signing, and
// verification across the NIST (ECDSA) and RSA families, with a uniform
// capability set so pkg/token can treat both algorithms polymorphically.
package provcrypto

import (
	"crypto"
	"fmt"

	_ "golang.org/x/crypto/sha3" // registers crypto.SHA3_256/384/512
)

// HashFunc resolves one of the three supported hash names to a
// crypto.Hash. golang.org/x/crypto/sha3 is imported for its registration
// side effect since SHA-3 is not in the standard library's crypto package.
func HashFunc(name string) (crypto.Hash, error) {
	switch name {
	case "SHA3-256":
		return crypto.SHA3_256, nil
	case "SHA3-384":
		return crypto.SHA3_384, nil
	case "SHA3-512":
		return crypto.SHA3_512, nil
	default:
		return 0, fmt.Errorf("provcrypto: unknown hash function %q", name)
	}
}

// Sum hashes data with the named hash function.
func Sum(name string, data []byte) ([]byte, error) {
	h, err := HashFunc(name)
	if err != nil {
		return nil, err
	}
	hh := h.New()
	hh.Write(data)
	return hh.Sum(nil), nil
}
