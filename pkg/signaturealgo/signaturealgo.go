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

// Package signaturealgo parses sign-spec strings ("NIST256", "RSA2048",
// ...) into a structured (family, bit-width, curve) triple. It generalizes
// the common pattern of parsing a single hash algorithm name into a
// crypto.Hash to the family+bits grammar this module's sign-spec strings
// use, and adds the NIST curve lookup and byte-width computation that
// signature and key codec lengths require.
package signaturealgo

import (
	"crypto/elliptic"
	"fmt"
	"strconv"
	"strings"
)

// Family is the signature algorithm family.
type Family string

const (
	NIST Family = "NIST"
	RSA  Family = "RSA"
)

// Spec is a parsed sign-spec string: its family, bit width, and (for NIST)
// curve.
type Spec struct {
	Raw    string
	Family Family
	Bits   int
	Curve  elliptic.Curve // nil for RSA
}

// ByteWidth returns the exact length, in bytes, used to encode and decode
// signature blobs and public keys as big-endian integers: twice the
// curve's coordinate byte size for NIST (the raw r||s concatenation), or
// bits/8 for RSA (the modulus size).
func (s Spec) ByteWidth() int {
	if s.Family == NIST {
		coordBytes := (s.Curve.Params().BitSize + 7) / 8
		return coordBytes * 2
	}
	return s.Bits / 8
}

var nistCurves = map[int]elliptic.Curve{
	192: nil, // P-192 has no stdlib elliptic.Curve; Parse rejects it below.
	256: elliptic.P256(),
	384: elliptic.P384(),
	521: elliptic.P521(),
}

// Parse splits name into (family, bits) and, for NIST, resolves the named
// curve. The grammar is "name = <letters><digits>".
func Parse(name string) (Spec, error) {
	if name == "" {
		return Spec{}, fmt.Errorf("signaturealgo: empty sign spec")
	}
	idx := 0
	for idx < len(name) && !isDigit(name[idx]) {
		idx++
	}
	if idx == 0 || idx == len(name) {
		return Spec{}, fmt.Errorf("signaturealgo: invalid sign algorithm %q", name)
	}
	familyStr := name[:idx]
	bitsStr := name[idx:]
	for _, c := range bitsStr {
		if !isDigit(byte(c)) {
			return Spec{}, fmt.Errorf("signaturealgo: invalid sign algorithm %q", name)
		}
	}
	bits, err := strconv.Atoi(bitsStr)
	if err != nil {
		return Spec{}, fmt.Errorf("signaturealgo: invalid sign algorithm %q", name)
	}

	switch strings.ToUpper(familyStr) {
	case string(NIST):
		curve, ok := nistCurves[bits]
		if !ok {
			return Spec{}, fmt.Errorf("signaturealgo: unsupported count of NIST bits %d", bits)
		}
		if curve == nil {
			// P-192 (bits == 192) is not in crypto/elliptic's named-curve
			// set; this module does not carry a P-192 implementation, so
			// it is an explicit unsupported case rather than a silent
			// substitution.
			return Spec{}, fmt.Errorf("signaturealgo: NIST192 is not supported by this build")
		}
		return Spec{Raw: name, Family: NIST, Bits: bits, Curve: curve}, nil
	case string(RSA):
		if bits <= 0 || bits%8 != 0 {
			return Spec{}, fmt.Errorf("signaturealgo: invalid RSA bit size %d", bits)
		}
		return Spec{Raw: name, Family: RSA, Bits: bits}, nil
	default:
		return Spec{}, fmt.Errorf("signaturealgo: unknown sign algorithm family %q", familyStr)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
