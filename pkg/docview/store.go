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

package docview

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru"

	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/pathref"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/token"
)

// defaultCacheSize bounds both the loaded-document cache and the per-bundle
// validity cache, so a pathological has_provenance fan-out during search
// cannot exhaust memory.
const defaultCacheSize = 512

// validityKey is the (doc_path, bundle_id) cache key validity results are
// memoized under.
type validityKey struct {
	docPath  string
	bundleID int
}

// Store is the cross-referenced document cache the search engine runs
// against: it loads a document at a has_provenance path (or reuses an
// already-loaded View), and memoizes validity per (doc_path, bundle_id)
// against pkg/token.Validator. Not safe for concurrent use.
type Store struct {
	Codec     provmodel.Codec
	Validator *token.Validator

	docs     *lru.Cache
	validity *lru.Cache
}

// NewStore returns a Store backed by bounded LRU caches.
func NewStore(codec provmodel.Codec, validator *token.Validator) (*Store, error) {
	docs, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("docview: %w", err)
	}
	validity, err := lru.New(defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("docview: %w", err)
	}
	return &Store{Codec: codec, Validator: validator, docs: docs, validity: validity}, nil
}

// Load resolves path (the grammar, via pkg/pathref), reads and
// decodes the document there, and returns its indexed View, reusing a
// cached View on repeat requests for the same resolved path. diags
// receives revision-mirroring warnings encountered while indexing.
func (s *Store) Load(path string, diags *diag.Collector) (*View, error) {
	resolved, err := pathref.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("docview: %w", err)
	}
	if cached, ok := s.docs.Get(resolved); ok {
		return cached.(*View), nil
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("docview: opening %s: %w", resolved, err)
	}
	doc, err := s.Codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("docview: decoding %s: %w", resolved, err)
	}
	view, err := New(resolved, doc, diags)
	if err != nil {
		return nil, err
	}
	s.docs.Add(resolved, view)
	return view, nil
}

// Valid reports whether bundle id in view validates against its token in
// view's meta bundle, memoized per (doc_path, bundle_id) in the Store's
// bounded LRU cache (an evicted entry is recomputed on its next request).
func (s *Store) Valid(view *View, id int, diags *diag.Collector) bool {
	key := validityKey{view.DocPath, id}
	if cached, ok := s.validity.Get(key); ok {
		return cached.(bool)
	}
	b, ok := view.Bundle(id)
	result := ok && s.Validator.ValidBundle(view.Meta, b, diags, view.DocPath)
	s.validity.Add(key, result)
	return result
}
