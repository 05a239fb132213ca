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

package builder

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/token"
)

// Generate builds a complete provenance document from req: it constructs
// every top-level bundle, applies every update (revision, fork, or merge) in order, then
// appends an invalidation entity to every bundle named in
// req.InvalidateBundles. The returned diagnostics carry non-fatal notices
// (e.g. a suppressed token emission); a non-nil error means generation
// could not proceed at all.
func Generate(cfg *config.Config, req *Request) (*provmodel.Document, []diag.Diagnostic, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	authority, err := token.NewAuthority(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("builder: %w", err)
	}

	ns := provmodel.Namespace{Prefix: cfg.Prefix, URI: cfg.URI}
	doc := &provmodel.Document{Namespaces: []provmodel.Namespace{ns}}
	meta := doc.AddBundle(provmodel.QualifiedName{Namespace: ns, Local: "meta"})

	startID := req.StartID
	if startID == 0 {
		startID = 1
	}

	c := &creator{
		ns:            ns,
		doc:           doc,
		meta:          meta,
		authority:     authority,
		info:          analyzeMergesForks(req.Updates),
		bundleCounter: startID - 1,
		bundles:       map[int]bundleEntry{},
	}
	diags := &diag.Collector{}

	for _, bs := range req.Bundles {
		b, _ := c.bundle(nil, false)
		if err := c.bundleWithEntities(bs, b, diags); err != nil {
			return nil, nil, err
		}
	}

	for _, u := range req.Updates {
		if err := c.applyUpdate(u, diags); err != nil {
			return nil, nil, err
		}
	}

	for _, id := range req.InvalidateBundles {
		entry, ok := c.bundles[id]
		if !ok {
			return nil, nil, fmt.Errorf("builder: cannot invalidate unknown bundle %d", id)
		}
		c.entity(entry.bundle, -1, nil)
	}

	return doc, diags.Items(), nil
}

// applyUpdate implements one step of the UpdateManager:
// create_updates (decide the revision target, a fresh bundle for a plain
// revision or the existing into-bundle for a merge) followed by
// update_bundle (copy surviving source records forward, then add the
// update's own new entities).
func (c *creator) applyUpdate(u UpdateSpec, diags *diag.Collector) error {
	source, ok := c.bundles[u.Source]
	if !ok {
		return fmt.Errorf("builder: update references unknown source bundle %d", u.Source)
	}

	var newBundle *provmodel.Bundle
	var newBase provmodel.QualifiedName
	if u.IsMerge() {
		target, ok := c.bundles[*u.MergeInto]
		if !ok {
			diags.Warn("", strconv.Itoa(u.Source), "merge of bundle %d into unknown bundle %d skipped", u.Source, *u.MergeInto)
			return nil
		}
		newBundle, newBase = target.bundle, target.base
		c.derCounter++
		c.meta.Derivation(c.qn(fmt.Sprintf("der-merge%d", c.derCounter)), newBase, source.base)
	} else {
		newBundle, newBase = c.bundle(&source.base, c.info.forkSourceIDs[u.Source])
	}
	_ = newBase // recorded via the base-lineage derivation inside c.bundle for the revision case

	newID, err := numericID(newBundle)
	if err != nil {
		return err
	}
	revID := c.qn(fmt.Sprintf("up-bundle%d-bundle%d", u.Source, newID))
	rev := c.meta.Revision(revID, newBundle.Identifier, source.bundle.Identifier)
	newBundle.AddRecord(rev)

	for _, r := range source.bundle.Records {
		if r.Kind == provmodel.RevisionKind {
			continue
		}
		if recordDeleted(r, u.Deletions) {
			continue
		}
		newBundle.AddRecord(r)
	}

	return c.bundleWithEntities(u.NewEntities, newBundle, diags)
}

// recordDeleted implements the asymmetric deletion rule: a
// record is dropped if its own identifier names a deleted id, or — for a
// derivation specifically — if the entity it generated was deleted (a
// derivation has no independent existence once what it produced is gone).
func recordDeleted(r *provmodel.Record, deletions []int) bool {
	for _, d := range deletions {
		ds := strconv.Itoa(d)
		if r.Identifier != nil && r.Identifier.Local == ds {
			return true
		}
		if r.Kind == provmodel.DerivationKind && r.Generated.Local == ds {
			return true
		}
	}
	return false
}

// Validate checks Request shape constraints Go's type system does not
// already enforce: has_provenance references must not use a reserved
// canonicalization byte, anywhere they occur. Errors are aggregated via
// go-multierror so a caller sees every problem in one pass rather than
// stopping at the first.
func (r *Request) Validate() error {
	var result *multierror.Error
	for _, bs := range r.Bundles {
		for _, es := range bs {
			if err := es.Validate(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	for i, u := range r.Updates {
		for _, es := range u.NewEntities {
			if err := es.Validate(); err != nil {
				result = multierror.Append(result, fmt.Errorf("update %d: %w", i, err))
			}
		}
	}
	return result.ErrorOrNil()
}
