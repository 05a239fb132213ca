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

package provcrypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/provcrypto"
	"github.com/provledger/provtoken/pkg/signaturealgo"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	for _, name := range []string{"NIST256", "NIST384", "RSA512"} {
		t.Run(name, func(t *testing.T) {
			spec, err := signaturealgo.Parse(name)
			require.NoError(t, err)
			kp, err := provcrypto.Generate(spec)
			require.NoError(t, err)

			hash, err := provcrypto.HashFunc("SHA3-256")
			require.NoError(t, err)
			data := []byte("some bundle's canonical bytes")

			sig, err := kp.Sign(hash, data)
			require.NoError(t, err)
			require.Len(t, sig, spec.ByteWidth())

			pubBytes, err := kp.PublicKeyBytes()
			require.NoError(t, err)
			pub, err := provcrypto.ImportPublicKey(spec, pubBytes)
			require.NoError(t, err)

			ok, err := provcrypto.Verify(spec, pub, hash, data, sig)
			require.NoError(t, err)
			require.True(t, ok)

			tampered := append([]byte(nil), data...)
			tampered[0] ^= 0xFF
			ok, err = provcrypto.Verify(spec, pub, hash, tampered, sig)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestEncodeDecodeIntRoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0xFF, 0x00}
	for _, endian := range []config.Endian{config.BigEndian, config.LittleEndian} {
		text := provcrypto.EncodeInt(data, endian)
		got, err := provcrypto.DecodeInt(text, len(data), endian)
		require.NoError(t, err)
		require.Equal(t, data, got)
	}
}

func TestDecodeIntVarPreservesNonZeroLeadingByte(t *testing.T) {
	data := []byte{0x30, 0x82, 0x01, 0x22}
	text := provcrypto.EncodeInt(data, config.BigEndian)
	got, err := provcrypto.DecodeIntVar(text)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
