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

// Package builder implements the document builder: it validates a
// generation request, then constructs bundles, revisions,
// derivations, merges, and invalidations, delegating token emission to
// pkg/token.
package builder

import (
	"fmt"

	"github.com/provledger/provtoken/pkg/canonical"
)

// EntitySpec describes one entity to add to a bundle: its numeric id, the
// has_provenance references attached to it, and the ids of entities it was
// derived from, per the bundle-spec grammar.
type EntitySpec struct {
	ID             int
	HasProvenance  []string
	Derivations    []int
}

// Validate checks that an EntitySpec's identifier will not collide with
// the canonicalizer's framing bytes once stringified (it never will, since
// ids are integers, but has_provenance path segments are free-form and
// are checked here too since they end up as attribute values).
func (e EntitySpec) Validate() error {
	for _, hp := range e.HasProvenance {
		if err := canonical.CheckIdentifier(hp); err != nil {
			return fmt.Errorf("entity %d: %w", e.ID, err)
		}
	}
	return nil
}

// BundleSpec is the ordered list of entities that make up one content
// bundle: an entity or list of entities.
type BundleSpec []EntitySpec

// UpdateSpec describes one update to an existing bundle: a plain revision
// (Source only), a revision that also deletes and adds entities, or a
// merge (MergeInto set) that folds Source's surviving content into an
// already-existing bundle.
type UpdateSpec struct {
	Source      int
	MergeInto   *int // non-nil for the merge form (source_id, into_id)
	Deletions   []int
	NewEntities BundleSpec
}

// IsMerge reports whether this update is a merge into an existing bundle.
func (u UpdateSpec) IsMerge() bool { return u.MergeInto != nil }

// Request bundles every input a document generation needs: ordered bundle
// specs, ordered update specs, ids to invalidate after generation, and the
// starting bundle id counter.
type Request struct {
	Bundles            []BundleSpec
	Updates            []UpdateSpec
	InvalidateBundles  []int
	StartID            int // defaults to 1 if zero
}
