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

// Package search implements a BFS-and-recursion hybrid that classifies,
// for a target entity reachable from an entry document, every bundle that
// holds it as valid, low-credibility (postponed or behind an invalid
// ancestor), or invalid.
package search

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/docview"
	"github.com/provledger/provtoken/pkg/pathref"
	"github.com/provledger/provtoken/pkg/provmodel"
)

// Hit is one (document, bundle, entity) classification in a Result.
type Hit struct {
	DocPath  string
	BundleID int
	Entity   string
}

// Result is the three-way classification the search API returns.
type Result struct {
	Valid   []Hit
	Low     []Hit
	Invalid []Hit
}

// Engine runs searches against a shared docview.Store. Not safe for
// concurrent use.
type Engine struct {
	Store  *docview.Store
	Strict bool
}

// NewEngine returns an Engine over store in the given strictness mode.
func NewEngine(store *docview.Store, strict bool) *Engine {
	return &Engine{Store: store, Strict: strict}
}

type searchKey struct {
	docPath  string
	bundleID int
	entity   string
}

type searchState struct {
	processed bool
	contains  bool
}

type queueItem struct {
	doc      *docview.View
	bundleID int
	entity   string
}

// session is the per-call mutable state: the three frontiers, the searched
// memo, and the three output lists.
type session struct {
	store  *docview.Store
	strict bool
	diags  *diag.Collector

	searched map[searchKey]searchState

	validQ, postponeQ, invalidQ []queueItem
	outValid, outLow, outInvalid []Hit
}

// Run implements the search(path, entity_local_part, strict).
func (e *Engine) Run(entryPath, entityLocal string) (Result, []diag.Diagnostic, error) {
	diags := &diag.Collector{}
	entry, err := e.Store.Load(entryPath, diags)
	if err != nil {
		return Result{}, diags.Items(), err
	}

	s := &session{
		store:    e.Store,
		strict:   e.Strict,
		diags:    diags,
		searched: map[searchKey]searchState{},
	}

	for _, rootID := range entry.Roots() {
		b, ok := entry.Bundle(rootID)
		if ok && containsEntity(b, entityLocal) {
			s.entityCheck(entry, rootID, entityLocal, true, false, nil, true)
		}
	}

	for len(s.validQ) > 0 {
		item := s.validQ[0]
		s.validQ = s.validQ[1:]
		s.searchTraverse(item.doc, item.bundleID, item.entity, true)
	}
	for _, item := range s.postponeQ {
		key := searchKey{item.doc.DocPath, item.bundleID, item.entity}
		if st, ok := s.searched[key]; ok && st.processed {
			continue
		}
		s.outLow = append(s.outLow, Hit{item.doc.DocPath, item.bundleID, item.entity})
		s.searched[key] = searchState{processed: true, contains: true}
	}
	for len(s.invalidQ) > 0 {
		item := s.invalidQ[0]
		s.invalidQ = s.invalidQ[1:]
		s.searchTraverse(item.doc, item.bundleID, item.entity, false)
	}

	result := Result{Valid: s.outValid, Low: s.outLow, Invalid: s.outInvalid}
	sortHits(result.Valid)
	sortHits(result.Low)
	sortHits(result.Invalid)
	return result, diags.Items(), nil
}

// entityCheck implements the entity_check. prev is the id of the
// bundle whose recursive "newer" scan reached B, or nil at the seed call.
func (s *session) entityCheck(doc *docview.View, bundleID int, entity string, stillValid, postpone bool, prev *int, initial bool) bool {
	key := searchKey{doc.DocPath, bundleID, entity}
	if st, ok := s.searched[key]; ok && st.processed {
		return st.contains
	}

	bValid := s.store.Valid(doc, bundleID, s.diags)
	found := false
	for _, newerID := range doc.Newer(bundleID) {
		childPostpone := postpone || (!bValid && prev != nil && !initial)
		id := bundleID
		if s.entityCheck(doc, newerID, entity, stillValid, childPostpone, &id, initial) {
			found = true
		}
	}
	if found {
		return true
	}

	b, ok := doc.Bundle(bundleID)
	if !ok || !containsEntity(b, entity) {
		s.searched[key] = searchState{processed: true, contains: false}
		return false
	}

	switch {
	case bValid && stillValid && !postpone:
		s.validQ = append(s.validQ, queueItem{doc, bundleID, entity})
		s.outValid = append(s.outValid, Hit{doc.DocPath, bundleID, entity})
	case bValid && stillValid && postpone:
		s.postponeQ = append(s.postponeQ, queueItem{doc, bundleID, entity})
	case bValid && !stillValid:
		s.invalidQ = append(s.invalidQ, queueItem{doc, bundleID, entity})
		s.outLow = append(s.outLow, Hit{doc.DocPath, bundleID, entity})
	case !bValid && s.strict:
		s.searched[key] = searchState{processed: true, contains: false}
		return false
	default: // !bValid && !strict
		s.invalidQ = append(s.invalidQ, queueItem{doc, bundleID, entity})
		s.outInvalid = append(s.outInvalid, Hit{doc.DocPath, bundleID, entity})
	}

	s.searched[key] = searchState{processed: true, contains: true}
	s.checkPrevValidity(doc, bundleID, entity)
	if newers := doc.Newer(bundleID); len(newers) > 0 {
		msg := "newer versions of bundle %d do not contain entity %s"
		if s.strict {
			msg = "newer versions of bundle %d do not contain entity %s or are invalid"
		}
		s.diags.Note(doc.DocPath, bundleLabel(bundleID), msg, bundleID, entity)
	}
	return true
}

// checkPrevValidity walks B's older versions, marking one processed once
// every one of its newer versions has been processed, and warns when an
// ancestor bundle is itself invalid.
func (s *session) checkPrevValidity(doc *docview.View, bundleID int, entity string) {
	for _, olderID := range doc.Older(bundleID) {
		allProcessed := true
		for _, newerID := range doc.Newer(olderID) {
			st, ok := s.searched[searchKey{doc.DocPath, newerID, entity}]
			if !ok || !st.processed {
				allProcessed = false
				break
			}
		}
		if !allProcessed {
			continue
		}
		key := searchKey{doc.DocPath, olderID, entity}
		if st, ok := s.searched[key]; ok && st.processed {
			continue
		}
		contains := false
		if b, ok := doc.Bundle(olderID); ok {
			contains = containsEntity(b, entity)
		}
		s.searched[key] = searchState{processed: true, contains: contains}
		if !s.store.Valid(doc, olderID, s.diags) {
			s.diags.Warn(doc.DocPath, bundleLabel(olderID), "origin of entity %s is not trustworthy: ancestor bundle %d is invalid", entity, olderID)
		}
		s.checkPrevValidity(doc, olderID, entity)
	}
}

// searchTraverse implements the search_traverse: it follows
// derivations within the bundle, then has_provenance references across
// documents.
func (s *session) searchTraverse(doc *docview.View, bundleID int, entity string, stillValid bool) {
	b, ok := doc.Bundle(bundleID)
	if !ok {
		return
	}

	for _, r := range b.GetRecords(provmodel.DerivationKind) {
		if r.Generated.Local == entity {
			s.entityCheck(doc, bundleID, r.Used.Local, stillValid, false, nil, false)
		}
	}

	for _, r := range b.GetRecords(provmodel.EntityKind) {
		if r.Identifier == nil || r.Identifier.Local != entity {
			continue
		}
		for _, v := range r.GetAttribute("prov:has_provenance") {
			s.followReference(doc, bundleID, entity, v.LocalPartOrString(), stillValid)
		}
	}
}

func (s *session) followReference(doc *docview.View, bundleID int, entity, raw string, stillValid bool) {
	ref, err := pathref.Split(raw)
	if err != nil {
		s.diags.Warn(doc.DocPath, bundleLabel(bundleID), "unreadable has_provenance reference %q: %v", raw, err)
		return
	}
	next, err := s.store.Load(ref.Path, s.diags)
	if err != nil {
		s.diags.Warn(doc.DocPath, bundleLabel(bundleID), "could not load has_provenance reference %s: %v", raw, err)
		return
	}
	if _, ok := next.Bundle(ref.BundleID); !ok {
		s.diags.Warn(doc.DocPath, bundleLabel(bundleID), "has_provenance reference %s names a missing bundle", raw)
		return
	}
	if !s.entityCheck(next, ref.BundleID, entity, stillValid, false, nil, false) {
		msg := "has_provenance reference %s does not contain entity %s"
		if s.strict {
			msg = "has_provenance reference %s does not contain entity %s or a valid bundle holding it"
		}
		s.diags.Note(doc.DocPath, bundleLabel(bundleID), msg, raw, entity)
	}
}

func containsEntity(b *provmodel.Bundle, entity string) bool {
	for _, r := range b.GetRecords(provmodel.EntityKind) {
		if r.Identifier != nil && r.Identifier.Local == entity {
			return true
		}
	}
	return false
}

func bundleLabel(id int) string { return fmt.Sprintf("bundle%d", id) }

// sortHits orders a result list by (doc_path, bundle_number,
// entity_local_part_number), the output contract.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.DocPath != b.DocPath {
			return a.DocPath < b.DocPath
		}
		if a.BundleID != b.BundleID {
			return a.BundleID < b.BundleID
		}
		return entityNumber(a.Entity) < entityNumber(b.Entity)
	})
}

func entityNumber(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
