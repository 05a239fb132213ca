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

package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/builder"
	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/provmodel"
)

func findMeta(t *testing.T, doc *provmodel.Document) *provmodel.Bundle {
	t.Helper()
	for _, b := range doc.Bundles {
		if b.Identifier.Local == "meta" {
			return b
		}
	}
	t.Fatal("no meta bundle")
	return nil
}

func tokenCountFor(meta *provmodel.Bundle, bundleLocal string) int {
	count := 0
	for _, r := range meta.GetRecords(provmodel.DerivationKind) {
		if r.HasAttribute("prov:type", "Token") && r.Used.Local == bundleLocal {
			count++
		}
	}
	return count
}

func TestExactlyOneToken(t *testing.T) {
	req := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1}},
			{{ID: 2}},
		},
		Updates: []builder.UpdateSpec{
			{Source: 1, NewEntities: builder.BundleSpec{{ID: 3}}},
		},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	meta := findMeta(t, doc)

	require.Equal(t, 1, tokenCountFor(meta, "bundle1"))
	require.Equal(t, 1, tokenCountFor(meta, "bundle2"))
	require.Equal(t, 1, tokenCountFor(meta, "bundle3"))
}

func TestMergeSuppressesIntoBundleFirstToken(t *testing.T) {
	into := 2
	req := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1}}, // bundle1: merge source
			{{ID: 2}}, // bundle2: merge target
		},
		Updates: []builder.UpdateSpec{
			{Source: 1, MergeInto: &into, Deletions: nil},
		},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	meta := findMeta(t, doc)

	require.Equal(t, 1, tokenCountFor(meta, "bundle1"))
	require.Equal(t, 1, tokenCountFor(meta, "bundle2"))
}

func TestForkMintsTwoBases(t *testing.T) {
	req := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1}},
		},
		Updates: []builder.UpdateSpec{
			{Source: 1, NewEntities: builder.BundleSpec{{ID: 2}}},
			{Source: 1, NewEntities: builder.BundleSpec{{ID: 3}}},
		},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	meta := findMeta(t, doc)

	specializations := meta.GetRecords(provmodel.SpecializationKind)
	bases := map[string]bool{}
	for _, s := range specializations {
		bases[s.General.Local] = true
	}
	require.GreaterOrEqual(t, len(bases), 3, "forked revisions should not share a base with their common ancestor")
}

func TestInvalidateUnknownBundleFails(t *testing.T) {
	req := &builder.Request{
		Bundles:           []builder.BundleSpec{{{ID: 1}}},
		InvalidateBundles: []int{99},
	}
	_, _, err := builder.Generate(config.Default(), req)
	require.Error(t, err)
}

func TestReservedByteRejected(t *testing.T) {
	req := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1, HasProvenance: []string{"@/has#reserved/6"}}},
		},
	}
	_, _, err := builder.Generate(config.Default(), req)
	require.Error(t, err)
}
