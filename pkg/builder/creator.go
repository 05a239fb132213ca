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
	"strings"

	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/token"
)

// bundleEntry is what the creator remembers about a content bundle once
// built: the bundle itself and the base entity its specializationOf link
// in meta points at, so a later update can mint a revision from it.
type bundleEntry struct {
	bundle *provmodel.Bundle
	base   provmodel.QualifiedName
}

// creator owns the monotone bundle-id counter and knows how to mint
// bundles, entities, bases, and their
// meta-bundle bookkeeping (specializationOf, wasDerivedFrom lineage, and
// token emission via pkg/token).
type creator struct {
	ns            provmodel.Namespace
	doc           *provmodel.Document
	meta          *provmodel.Bundle
	authority     *token.Authority
	info          mergeForkInfo
	bundleCounter int
	baseCounter   int
	derCounter    int
	specCounter   int
	bundles       map[int]bundleEntry
}

func (c *creator) qn(local string) provmodel.QualifiedName {
	return provmodel.QualifiedName{Namespace: c.ns, Local: local}
}

// newBase mints a fresh base entity in the meta bundle: every content
// bundle's identity traces back to one of these.
func (c *creator) newBase() provmodel.QualifiedName {
	c.baseCounter++
	rec := c.meta.Entity(c.qn(fmt.Sprintf("base%d", c.baseCounter)))
	return *rec.Identifier
}

// bundle mints a new content bundle. oldBase, when non-nil, is the base of
// the bundle this one revises; a fresh base is minted instead of reusing it
// when oldBase is nil, forceNewSpec is set (the source forked), or this
// bundle's id is a declared merge target.
func (c *creator) bundle(oldBase *provmodel.QualifiedName, forceNewSpec bool) (*provmodel.Bundle, provmodel.QualifiedName) {
	c.bundleCounter++
	id := c.bundleCounter
	bundleQN := c.qn(fmt.Sprintf("bundle%d", id))
	b := c.doc.AddBundle(bundleQN)

	var base provmodel.QualifiedName
	if oldBase == nil || forceNewSpec || c.info.mergeTargetIDs[id] {
		base = c.newBase()
		if oldBase != nil {
			c.derCounter++
			c.meta.Derivation(c.qn(fmt.Sprintf("der-base%d", c.derCounter)), base, *oldBase)
		}
	} else {
		base = *oldBase
	}

	// The bundle viewed as an entity in the meta graph, the target of its
	// own specializationOf link. Deliberately shares the content bundle's
	// identifier — it is the same thing seen from two collections.
	c.meta.Entity(bundleQN)
	c.specCounter++
	c.meta.Specialization(c.qn(fmt.Sprintf("spec%d", c.specCounter)), bundleQN, base)

	c.bundles[id] = bundleEntry{bundle: b, base: base}
	return b, base
}

// entity appends one entity record to b, translating each has_provenance
// reference from its bundle-spec form ("<path>/<N>") to its stored
// attribute form ("<path>/bundle<N>"), per the path grammar.
func (c *creator) entity(b *provmodel.Bundle, id int, hasProvenance []string) *provmodel.Record {
	var attrs []provmodel.Attribute
	for _, hp := range hasProvenance {
		idx := strings.LastIndex(hp, "/")
		path, last := hp[:idx], hp[idx+1:]
		value := path + "/bundle" + last
		attrs = append(attrs, provmodel.Attribute{
			Name:  provmodel.StringValue("prov:has_provenance"),
			Value: provmodel.StringValue(value),
		})
	}
	return b.Entity(c.qn(strconv.Itoa(id)), attrs...)
}

// bundleWithEntities adds every entity (and its derivations) in spec to b,
// then finalizes b: emits its token unless a pending merge exclusion
// suppresses it (the exclude_tokens bookkeeping).
func (c *creator) bundleWithEntities(spec BundleSpec, b *provmodel.Bundle, diags *diag.Collector) error {
	for _, es := range spec {
		rec := c.entity(b, es.ID, es.HasProvenance)
		for _, used := range es.Derivations {
			derID := c.qn(fmt.Sprintf("der%d-%d", es.ID, used))
			b.Derivation(derID, *rec.Identifier, c.qn(strconv.Itoa(used)))
		}
	}
	return c.finalize(b, diags)
}

func (c *creator) finalize(b *provmodel.Bundle, diags *diag.Collector) error {
	id, err := numericID(b)
	if err != nil {
		return err
	}
	if c.info.consumeExclusion(id) {
		diags.Note("", b.Identifier.Local, "token emission suppressed pending merge")
		return nil
	}
	entity, err := c.authority.Emit(c.meta, b)
	if err != nil {
		return fmt.Errorf("builder: emitting token for %s: %w", b.Identifier, err)
	}
	if entity == nil {
		return nil
	}
	c.meta.AddRecord(entity)
	c.derCounter++
	c.meta.Derivation(
		c.qn(fmt.Sprintf("der-token%d", c.derCounter)),
		*entity.Identifier,
		b.Identifier,
		provmodel.Attribute{Name: provmodel.StringValue("prov:type"), Value: provmodel.StringValue(tokenTypeLabel)},
	)
	return nil
}

const tokenTypeLabel = "Token"

// numericID parses the "<N>" suffix of a "bundle<N>" identifier.
func numericID(b *provmodel.Bundle) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(b.Identifier.Local, "bundle"))
	if err != nil {
		return 0, fmt.Errorf("builder: bundle identifier %q is not of the form bundle<N>", b.Identifier.Local)
	}
	return n, nil
}
