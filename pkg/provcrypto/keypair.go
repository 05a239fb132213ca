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
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"math/big"

	"github.com/provledger/provtoken/pkg/signaturealgo"
)

// KeyPair is a generated signing keypair for one algorithm family.
type KeyPair struct {
	Spec  signaturealgo.Spec
	ECDSA *ecdsa.PrivateKey // set when Spec.Family == NIST
	RSA   *rsa.PrivateKey   // set when Spec.Family == RSA
}

// Generate creates a fresh keypair for spec, per the
// generate(spec) -> (sk, pk) capability.
func Generate(spec signaturealgo.Spec) (*KeyPair, error) {
	switch spec.Family {
	case signaturealgo.NIST:
		sk, err := ecdsa.GenerateKey(spec.Curve, rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("provcrypto: generating ECDSA key: %w", err)
		}
		return &KeyPair{Spec: spec, ECDSA: sk}, nil
	case signaturealgo.RSA:
		sk, err := rsa.GenerateKey(rand.Reader, spec.Bits)
		if err != nil {
			return nil, fmt.Errorf("provcrypto: generating RSA key: %w", err)
		}
		return &KeyPair{Spec: spec, RSA: sk}, nil
	default:
		return nil, fmt.Errorf("provcrypto: unknown sign family %q", spec.Family)
	}
}

// Sign signs data and returns the fixed-width signature bytes: raw r||s
// for NIST, PKCS#1 v1.5 for RSA.
func (kp *KeyPair) Sign(hash crypto.Hash, data []byte) ([]byte, error) {
	digest, err := digestFor(hash, data)
	if err != nil {
		return nil, err
	}
	switch kp.Spec.Family {
	case signaturealgo.NIST:
		r, s, err := ecdsa.Sign(rand.Reader, kp.ECDSA, digest)
		if err != nil {
			return nil, fmt.Errorf("provcrypto: ECDSA sign: %w", err)
		}
		width := kp.Spec.ByteWidth() / 2
		out := make([]byte, kp.Spec.ByteWidth())
		r.FillBytes(out[:width])
		s.FillBytes(out[width:])
		return out, nil
	case signaturealgo.RSA:
		sig, err := rsa.SignPKCS1v15(rand.Reader, kp.RSA, hash, digest)
		if err != nil {
			return nil, fmt.Errorf("provcrypto: RSA sign: %w", err)
		}
		return sig, nil
	default:
		return nil, fmt.Errorf("provcrypto: unknown sign family %q", kp.Spec.Family)
	}
}

// PublicKeyBytes returns the byte-string encoding of the public key that
// crosses the storage boundary in a token: the raw X||Y coordinate
// concatenation for NIST, and the DER-encoded SubjectPublicKeyInfo for RSA
// (see DESIGN.md for the rationale).
func (kp *KeyPair) PublicKeyBytes() ([]byte, error) {
	switch kp.Spec.Family {
	case signaturealgo.NIST:
		width := kp.Spec.ByteWidth() / 2
		out := make([]byte, kp.Spec.ByteWidth())
		kp.ECDSA.X.FillBytes(out[:width])
		kp.ECDSA.Y.FillBytes(out[width:])
		return out, nil
	case signaturealgo.RSA:
		return x509.MarshalPKIXPublicKey(&kp.RSA.PublicKey)
	default:
		return nil, fmt.Errorf("provcrypto: unknown sign family %q", kp.Spec.Family)
	}
}

// digestFor hashes data with hash. A hash that is not available (the zero
// value included) is an error; data is never treated as pre-hashed.
func digestFor(hash crypto.Hash, data []byte) ([]byte, error) {
	if !hash.Available() {
		return nil, fmt.Errorf("provcrypto: hash function unavailable")
	}
	h := hash.New()
	h.Write(data)
	return h.Sum(nil), nil
}

// ImportPublicKey reconstructs a public key from its stored byte-string
// form, the inverse of PublicKeyBytes, per the import_pk
// capability.
func ImportPublicKey(spec signaturealgo.Spec, data []byte) (crypto.PublicKey, error) {
	switch spec.Family {
	case signaturealgo.NIST:
		width := spec.ByteWidth() / 2
		if len(data) != width*2 {
			return nil, fmt.Errorf("provcrypto: NIST public key has wrong length %d, want %d", len(data), width*2)
		}
		x := new(big.Int).SetBytes(data[:width])
		y := new(big.Int).SetBytes(data[width:])
		if !spec.Curve.IsOnCurve(x, y) {
			return nil, fmt.Errorf("provcrypto: public key point is not on curve")
		}
		return &ecdsa.PublicKey{Curve: spec.Curve, X: x, Y: y}, nil
	case signaturealgo.RSA:
		pub, err := x509.ParsePKIXPublicKey(data)
		if err != nil {
			return nil, fmt.Errorf("provcrypto: parsing RSA public key: %w", err)
		}
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("provcrypto: SPKI does not hold an RSA public key")
		}
		return rsaPub, nil
	default:
		return nil, fmt.Errorf("provcrypto: unknown sign family %q", spec.Family)
	}
}

// Verify checks sig over data under pub, per the verify
// capability.
func Verify(spec signaturealgo.Spec, pub crypto.PublicKey, hash crypto.Hash, data, sig []byte) (bool, error) {
	digest, err := digestFor(hash, data)
	if err != nil {
		return false, err
	}
	switch spec.Family {
	case signaturealgo.NIST:
		ecPub, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return false, fmt.Errorf("provcrypto: expected ECDSA public key")
		}
		width := spec.ByteWidth() / 2
		if len(sig) != width*2 {
			return false, fmt.Errorf("provcrypto: signature has wrong length %d, want %d", len(sig), width*2)
		}
		r := new(big.Int).SetBytes(sig[:width])
		s := new(big.Int).SetBytes(sig[width:])
		return ecdsa.Verify(ecPub, digest, r, s), nil
	case signaturealgo.RSA:
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return false, fmt.Errorf("provcrypto: expected RSA public key")
		}
		err := rsa.VerifyPKCS1v15(rsaPub, hash, digest, sig)
		return err == nil, nil
	default:
		return false, fmt.Errorf("provcrypto: unknown sign family %q", spec.Family)
	}
}
