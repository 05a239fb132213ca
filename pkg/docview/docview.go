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

// Package docview indexes a loaded document's bundles, reconstructs the
// older/newer revision graph from the meta-bundle with mirroring
// confirmation on each edge, and rejects a document whose revision graph
// has a cycle.
package docview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/provmodel"
)

// View is the indexed, acyclicity-checked form of one loaded document.
type View struct {
	DocPath string
	Doc     *provmodel.Document
	Meta    *provmodel.Bundle

	bundles map[int]*provmodel.Bundle
	older   map[int][]int
	newer   map[int][]int
}

// New indexes doc, confirms and links its revision graph, and rejects it if
// that graph has a cycle. diags, when non-nil, receives a warning for every
// wasRevisionOf record whose mirroring confirmation fails.
func New(docPath string, doc *provmodel.Document, diags *diag.Collector) (*View, error) {
	v := &View{
		DocPath: docPath,
		Doc:     doc,
		bundles: map[int]*provmodel.Bundle{},
		older:   map[int][]int{},
		newer:   map[int][]int{},
	}
	for _, b := range doc.Bundles {
		if b.Identifier.Local == "meta" {
			v.Meta = b
			continue
		}
		id, err := bundleNumber(b.Identifier.Local)
		if err != nil {
			continue
		}
		v.bundles[id] = b
	}
	if v.Meta == nil {
		return nil, fmt.Errorf("docview: %s has no meta bundle", docPath)
	}

	for _, rec := range v.Meta.GetRecords(provmodel.RevisionKind) {
		newID, errN := bundleNumber(rec.New.Local)
		oldID, errO := bundleNumber(rec.Old.Local)
		if errN != nil || errO != nil {
			continue
		}
		newer := v.bundles[newID]
		if newer == nil || !mirrored(newer, rec) {
			warn(diags, docPath, rec.Old.Local, "wasRevisionOf(%s, %s) is not mirrored inside the newer bundle; edge ignored", rec.New, rec.Old)
			continue
		}
		v.older[newID] = append(v.older[newID], oldID)
		v.newer[oldID] = append(v.newer[oldID], newID)
	}

	if err := v.checkAcyclic(); err != nil {
		return nil, err
	}
	return v, nil
}

// mirrored reports whether newer carries a RevisionKind record with the
// same identifier as rec, the confirmation required before an older/newer
// edge is trusted.
func mirrored(newer *provmodel.Bundle, rec *provmodel.Record) bool {
	if rec.Identifier == nil {
		return false
	}
	for _, r := range newer.GetRecords(provmodel.RevisionKind) {
		if r.Identifier != nil && *r.Identifier == *rec.Identifier {
			return true
		}
	}
	return false
}

// Bundle looks up a content bundle by numeric id.
func (v *View) Bundle(id int) (*provmodel.Bundle, bool) {
	b, ok := v.bundles[id]
	return b, ok
}

// Older returns the confirmed older-version ids of id.
func (v *View) Older(id int) []int { return v.older[id] }

// Newer returns the confirmed newer-version ids of id.
func (v *View) Newer(id int) []int { return v.newer[id] }

// Roots returns every content bundle with no confirmed older version, the
// seed set the entity_check initialization scans.
func (v *View) Roots() []int {
	var out []int
	for id := range v.bundles {
		if len(v.older[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

type color int

const (
	white color = iota
	gray
	black
)

// checkAcyclic runs a white/gray/black DFS over the newer-version edges;
// a gray revisit is a cycle, fatal per document.
func (v *View) checkAcyclic() error {
	colors := make(map[int]color, len(v.bundles))
	var visit func(id int) error
	visit = func(id int) error {
		switch colors[id] {
		case gray:
			return fmt.Errorf("docview: %s has a cycle in its revision graph at bundle %d", v.DocPath, id)
		case black:
			return nil
		}
		colors[id] = gray
		for _, n := range v.newer[id] {
			if err := visit(n); err != nil {
				return err
			}
		}
		colors[id] = black
		return nil
	}
	for id := range v.bundles {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

func warn(d *diag.Collector, docPath, bundleID, format string, args ...any) {
	if d == nil {
		return
	}
	d.Warn(docPath, bundleID, format, args...)
}

// bundleNumber parses the "<N>" suffix of a "bundle<N>" identifier local
// part.
func bundleNumber(local string) (int, error) {
	if !strings.HasPrefix(local, "bundle") {
		return 0, fmt.Errorf("docview: %q is not a bundle identifier", local)
	}
	return strconv.Atoi(strings.TrimPrefix(local, "bundle"))
}
