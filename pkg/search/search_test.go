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

package search_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/builder"
	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/docview"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/provmodel/jsoncodec"
	"github.com/provledger/provtoken/pkg/search"
	"github.com/provledger/provtoken/pkg/token"
)

func writeDoc(t *testing.T, dir, name string, doc *provmodel.Document) string {
	t.Helper()
	codec := jsoncodec.New()
	data, err := codec.Encode(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func newEngine(t *testing.T, strict bool) *search.Engine {
	t.Helper()
	cfg := config.Default()
	store, err := docview.NewStore(jsoncodec.New(), token.NewValidator(cfg))
	require.NoError(t, err)
	return search.NewEngine(store, strict)
}

func TestSearchReportsNewestValidHolder(t *testing.T) {
	dir := t.TempDir()
	req := &builder.Request{
		Bundles: []builder.BundleSpec{{{ID: 1}}},
		Updates: []builder.UpdateSpec{{Source: 1}},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	path := writeDoc(t, dir, "doc.json", doc)

	engine := newEngine(t, false)
	result, _, err := engine.Run(path, "1")
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	require.Equal(t, 2, result.Valid[0].BundleID)
	require.Equal(t, "1", result.Valid[0].Entity)
	require.Empty(t, result.Low)
	require.Empty(t, result.Invalid)
}

func tamperBundle(b *provmodel.Bundle, ns provmodel.Namespace) {
	b.Entity(provmodel.QualifiedName{Namespace: ns, Local: "tamper"})
}

func findBundle(doc *provmodel.Document, local string) *provmodel.Bundle {
	for _, b := range doc.Bundles {
		if b.Identifier.Local == local {
			return b
		}
	}
	return nil
}

func TestSearchNonStrictReportsInvalidDescendant(t *testing.T) {
	dir := t.TempDir()
	req := &builder.Request{
		Bundles: []builder.BundleSpec{{{ID: 1}}},
		Updates: []builder.UpdateSpec{{Source: 1}},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	b2 := findBundle(doc, "bundle2")
	require.NotNil(t, b2)
	tamperBundle(b2, b2.Identifier.Namespace)
	path := writeDoc(t, dir, "doc.json", doc)

	engine := newEngine(t, false)
	result, _, err := engine.Run(path, "1")
	require.NoError(t, err)

	require.Empty(t, result.Valid)
	require.Len(t, result.Invalid, 1)
	require.Equal(t, 2, result.Invalid[0].BundleID)
}

func TestSearchStrictModeFallsBackToValidAncestor(t *testing.T) {
	dir := t.TempDir()
	req := &builder.Request{
		Bundles: []builder.BundleSpec{{{ID: 1}}},
		Updates: []builder.UpdateSpec{{Source: 1}},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	b2 := findBundle(doc, "bundle2")
	require.NotNil(t, b2)
	tamperBundle(b2, b2.Identifier.Namespace)
	path := writeDoc(t, dir, "doc.json", doc)

	engine := newEngine(t, true)
	result, _, err := engine.Run(path, "1")
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	require.Equal(t, 1, result.Valid[0].BundleID)
	require.Empty(t, result.Invalid)
}

func TestSearchFollowsHasProvenanceAcrossDocuments(t *testing.T) {
	dir := t.TempDir()

	otherReq := &builder.Request{
		Bundles: []builder.BundleSpec{{}, {{ID: 1}}},
	}
	otherDoc, _, err := builder.Generate(config.Default(), otherReq)
	require.NoError(t, err)
	otherPath := writeDoc(t, dir, "other.json", otherDoc)

	entryReq := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1, HasProvenance: []string{otherPath + "/2"}}},
		},
	}
	entryDoc, _, err := builder.Generate(config.Default(), entryReq)
	require.NoError(t, err)
	entryPath := writeDoc(t, dir, "entry.json", entryDoc)

	engine := newEngine(t, false)
	result, _, err := engine.Run(entryPath, "1")
	require.NoError(t, err)

	require.Len(t, result.Valid, 2)
	paths := map[string]bool{}
	for _, h := range result.Valid {
		paths[h.DocPath] = true
		require.Equal(t, "1", h.Entity)
	}
	require.True(t, paths[entryPath])
	require.True(t, paths[otherPath])
}

func TestSearchSelfReferenceCycleTerminates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entry.json")

	req := &builder.Request{
		Bundles: []builder.BundleSpec{
			{{ID: 1, HasProvenance: []string{path + "/1"}}},
		},
	}
	doc, _, err := builder.Generate(config.Default(), req)
	require.NoError(t, err)
	writeDoc(t, dir, "entry.json", doc)

	engine := newEngine(t, false)
	result, _, err := engine.Run(path, "1")
	require.NoError(t, err)

	require.Len(t, result.Valid, 1)
	require.Empty(t, result.Low)
	require.Empty(t, result.Invalid)
}
