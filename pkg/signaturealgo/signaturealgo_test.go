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

package signaturealgo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/signaturealgo"
)

func TestParseNIST(t *testing.T) {
	cases := []struct {
		name      string
		wantBytes int
	}{
		{"NIST256", 64},
		{"NIST384", 96},
		{"NIST521", 132},
	}
	for _, c := range cases {
		spec, err := signaturealgo.Parse(c.name)
		require.NoError(t, err)
		require.Equal(t, signaturealgo.NIST, spec.Family)
		require.Equal(t, c.wantBytes, spec.ByteWidth())
	}
}

func TestParseRSA(t *testing.T) {
	spec, err := signaturealgo.Parse("RSA2048")
	require.NoError(t, err)
	require.Equal(t, signaturealgo.RSA, spec.Family)
	require.Equal(t, 256, spec.ByteWidth())
}

func TestParseNIST192Unsupported(t *testing.T) {
	_, err := signaturealgo.Parse("NIST192")
	require.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	for _, bad := range []string{"", "256", "NIST", "NISTxyz", "RSA0", "XYZ256"} {
		_, err := signaturealgo.Parse(bad)
		require.Error(t, err, bad)
	}
}
