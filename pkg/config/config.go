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

// Package config holds the process-wide defaults this module reads at
// startup (ENDIAN, DOC_FORMAT, HASH_FUNC, SIGN_FUNC, ENCODING, PREFIX, URI,
// EXPIRE_IN_DAYS). Values are sourced from PROVTOKEN_*-prefixed
// environment variables via envconfig, with an optional YAML file overlay
// for scripted or checked-in configuration, read from a file path (inline
// YAML data is not accepted).
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Endian selects the byte order used whenever an integer (hash, signature,
// public key) crosses the storage boundary in a token. Sign and verify
// must agree on this value.
type Endian string

const (
	BigEndian    Endian = "big"
	LittleEndian Endian = "little"
)

// DocFormat names an external document serializer. Validate checks it, but
// nothing else in this module reads it: the CLI encodes and decodes
// documents as JSON via pkg/provmodel/jsoncodec whatever its value.
type DocFormat string

const (
	FormatXML   DocFormat = "xml"
	FormatJSON  DocFormat = "json"
	FormatProvN DocFormat = "provn"
)

// Config is this module's process-wide configuration.
type Config struct {
	Endian        Endian    `envconfig:"ENDIAN" yaml:"endian" default:"big"`
	DocFormat     DocFormat `envconfig:"DOC_FORMAT" yaml:"doc_format" default:"json"`
	HashFunc      string    `envconfig:"HASH_FUNC" yaml:"hash_func" default:"SHA3-256"`
	SignFunc      string    `envconfig:"SIGN_FUNC" yaml:"sign_func" default:"NIST256"`
	Encoding      string    `envconfig:"ENCODING" yaml:"encoding" default:"UTF-8"`
	Prefix        string    `envconfig:"PREFIX" yaml:"prefix" default:"ex"`
	URI           string    `envconfig:"URI" yaml:"uri" default:"https://provtoken.example/ns#"`
	ExpireInDays  int       `envconfig:"EXPIRE_IN_DAYS" yaml:"expire_in_days" default:"1"`
}

// Load builds a Config from PROVTOKEN_*-prefixed environment variables. If
// yamlPath is non-empty, its contents are unmarshalled on top of the
// environment-derived defaults, letting a checked-in file override or
// supply values a deployment's environment does not set.
func Load(yamlPath string) (*Config, error) {
	var c Config
	if err := envconfig.Process("PROVTOKEN", &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", yamlPath, err)
		}
	}
	return &c, c.Validate()
}

// Validate checks that every field holds a value the rest of the module
// understands, failing fast at configuration time rather than at first use.
func (c *Config) Validate() error {
	switch c.Endian {
	case BigEndian, LittleEndian:
	default:
		return fmt.Errorf("config: unknown endian %q", c.Endian)
	}
	switch c.DocFormat {
	case FormatXML, FormatJSON, FormatProvN:
	default:
		return fmt.Errorf("config: unknown doc format %q", c.DocFormat)
	}
	switch c.HashFunc {
	case "SHA3-256", "SHA3-384", "SHA3-512":
	default:
		return fmt.Errorf("config: unknown hash function %q", c.HashFunc)
	}
	if c.ExpireInDays < 0 {
		return fmt.Errorf("config: expire_in_days must be non-negative, got %d", c.ExpireInDays)
	}
	return nil
}

// Default returns the module defaults with no environment or file overlay,
// convenient for tests and library callers that do not want process-wide
// configuration.
func Default() *Config {
	c := &Config{
		Endian:       BigEndian,
		DocFormat:    FormatJSON,
		HashFunc:     "SHA3-256",
		SignFunc:     "NIST256",
		Encoding:     "UTF-8",
		Prefix:       "ex",
		URI:          "https://provtoken.example/ns#",
		ExpireInDays: 1,
	}
	return c
}
