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

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/config"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestValidateRejectsUnknownEndian(t *testing.T) {
	c := config.Default()
	c.Endian = "middle"
	require.Error(t, c.Validate())
}

func TestValidateRejectsUnknownDocFormat(t *testing.T) {
	c := config.Default()
	c.DocFormat = "yaml"
	require.Error(t, c.Validate())
}

func TestValidateRejectsUnknownHashFunc(t *testing.T) {
	c := config.Default()
	c.HashFunc = "MD5"
	require.Error(t, c.Validate())
}

func TestValidateRejectsNegativeExpiry(t *testing.T) {
	c := config.Default()
	c.ExpireInDays = -1
	require.Error(t, c.Validate())
}

func TestLoadMissingYAMLFails(t *testing.T) {
	_, err := config.Load("/nonexistent/path/to/config.yaml")
	require.Error(t, err)
}
