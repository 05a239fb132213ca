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

package provcrypto

import (
	"fmt"
	"math/big"

	"github.com/provledger/provtoken/pkg/config"
)

// EncodeInt converts a byte string to the base-10 text of the unsigned
// integer it represents under the configured endianness, the form every
// token attribute — hash, sign, sign_time, public_key — is stored as.
func EncodeInt(data []byte, endian config.Endian) string {
	ordered := orderedBytes(data, endian)
	return new(big.Int).SetBytes(ordered).String()
}

// DecodeInt is the inverse of EncodeInt: it reconstructs exactly width
// bytes (zero-padded on the left in big-endian terms) from the stored
// base-10 text, using width from the declared sign/hash function so
// leading zero bytes are never lost — the same fixed-width contract the
// Python original relies on via its sign_bytes parameter. An integer
// wider than width bytes is an error.
func DecodeInt(text string, width int, endian config.Endian) ([]byte, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("provcrypto: %q is not a valid integer", text)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("provcrypto: negative integer %q is not valid here", text)
	}
	if (n.BitLen()+7)/8 > width {
		return nil, fmt.Errorf("provcrypto: integer %q does not fit in %d bytes; use a larger key or a smaller hash", text, width)
	}
	out := make([]byte, width)
	n.FillBytes(out)
	return orderedBytes(out, endian), nil
}

// DecodeIntVar is DecodeInt without a known fixed width, used for values
// whose stored byte length is self-delimiting (the DER SPKI blob an RSA
// public key is encoded as always starts with a non-zero ASN.1 tag byte,
// so no leading zero byte is ever lost). Unlike DecodeInt it is always
// big-endian: with no fixed width to reverse against, a little-endian
// variable-width encoding would be ambiguous, so RSA public keys are
// always stored big-endian regardless of the configured ENDIAN.
func DecodeIntVar(text string) ([]byte, error) {
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return nil, fmt.Errorf("provcrypto: %q is not a valid integer", text)
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("provcrypto: negative integer %q is not valid here", text)
	}
	return n.Bytes(), nil
}

// orderedBytes reverses data when endian is little, since every internal
// computation in this module (FillBytes, SetBytes) is big-endian.
func orderedBytes(data []byte, endian config.Endian) []byte {
	if endian != config.LittleEndian {
		return data
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[len(data)-1-i] = b
	}
	return out
}
