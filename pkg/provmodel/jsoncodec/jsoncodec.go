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

// Package jsoncodec is the one concrete provmodel.Codec this module ships:
// a dependency-free, round-trippable JSON encoding of a provenance
// document. Real PROV-JSON/XML/PROV-N serialization is an external
// collaborator; this codec exists so the builder, the document view, and
// the search engine are exercisable end to end without a third-party PROV
// library.
package jsoncodec

import (
	"encoding/json"
	"fmt"

	"github.com/provledger/provtoken/pkg/provmodel"
)

// Codec implements provmodel.Codec using encoding/json.
type Codec struct{}

// New returns a ready-to-use JSON codec.
func New() Codec { return Codec{} }

func (Codec) Name() string { return "json" }

type wireNamespace struct {
	Prefix string `json:"prefix"`
	URI    string `json:"uri"`
}

type wireQName struct {
	Prefix string `json:"prefix,omitempty"`
	Local  string `json:"local"`
}

type wireAttrValue struct {
	Kind string     `json:"kind"` // "string" | "qname" | "int"
	Str  string     `json:"str,omitempty"`
	QN   *wireQName `json:"qname,omitempty"`
	Int  string     `json:"int,omitempty"`
}

type wireAttribute struct {
	Name  wireAttrValue `json:"name"`
	Value wireAttrValue `json:"value"`
}

type wireRecord struct {
	Identifier *wireQName      `json:"id,omitempty"`
	Kind       string          `json:"kind"`
	Attributes []wireAttribute `json:"attributes,omitempty"`
	Generated  *wireQName      `json:"generated,omitempty"`
	Used       *wireQName      `json:"used,omitempty"`
	New        *wireQName      `json:"new,omitempty"`
	Old        *wireQName      `json:"old,omitempty"`
	Specific   *wireQName      `json:"specific,omitempty"`
	General    *wireQName      `json:"general,omitempty"`
}

type wireBundle struct {
	Identifier wireQName    `json:"id"`
	Records    []wireRecord `json:"records"`
}

type wireDocument struct {
	Namespaces []wireNamespace `json:"namespaces"`
	Bundles    []wireBundle    `json:"bundles"`
}

func toWireQName(namespaces map[string]provmodel.Namespace, q provmodel.QualifiedName) wireQName {
	return wireQName{Prefix: q.Namespace.Prefix, Local: q.Local}
}

func toWireQNamePtr(namespaces map[string]provmodel.Namespace, q *provmodel.QualifiedName) *wireQName {
	if q == nil {
		return nil
	}
	w := toWireQName(namespaces, *q)
	return &w
}

func toWireAttrValue(v provmodel.AttrValue) wireAttrValue {
	switch {
	case v.IsQualified():
		q := v.Qualified()
		return wireAttrValue{Kind: "qname", QN: &wireQName{Prefix: q.Namespace.Prefix, Local: q.Local}}
	case v.IsInt():
		return wireAttrValue{Kind: "int", Int: v.IntText()}
	default:
		return wireAttrValue{Kind: "string", Str: v.String()}
	}
}

func fromWireAttrValue(nsByPrefix map[string]provmodel.Namespace, w wireAttrValue) provmodel.AttrValue {
	switch w.Kind {
	case "qname":
		return provmodel.QualifiedValue(fromWireQName(nsByPrefix, *w.QN))
	case "int":
		return provmodel.IntValue(w.Int)
	default:
		return provmodel.StringValue(w.Str)
	}
}

func fromWireQName(nsByPrefix map[string]provmodel.Namespace, w wireQName) provmodel.QualifiedName {
	return provmodel.QualifiedName{Namespace: nsByPrefix[w.Prefix], Local: w.Local}
}

func recordKindName(k provmodel.RecordKind) string {
	switch k {
	case provmodel.EntityKind:
		return "entity"
	case provmodel.DerivationKind:
		return "derivation"
	case provmodel.RevisionKind:
		return "revision"
	case provmodel.SpecializationKind:
		return "specialization"
	default:
		return "entity"
	}
}

func recordKindFromName(n string) provmodel.RecordKind {
	switch n {
	case "derivation":
		return provmodel.DerivationKind
	case "revision":
		return provmodel.RevisionKind
	case "specialization":
		return provmodel.SpecializationKind
	default:
		return provmodel.EntityKind
	}
}

// Encode implements provmodel.Codec.
func (Codec) Encode(doc *provmodel.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("jsoncodec: nil document")
	}
	nsByPrefix := make(map[string]provmodel.Namespace, len(doc.Namespaces))
	wire := wireDocument{}
	for _, ns := range doc.Namespaces {
		nsByPrefix[ns.Prefix] = ns
		wire.Namespaces = append(wire.Namespaces, wireNamespace{Prefix: ns.Prefix, URI: ns.URI})
	}
	for _, b := range doc.Bundles {
		wb := wireBundle{Identifier: toWireQName(nsByPrefix, b.Identifier)}
		for _, r := range b.Records {
			wr := wireRecord{
				Identifier: toWireQNamePtr(nsByPrefix, r.Identifier),
				Kind:       recordKindName(r.Kind),
			}
			for _, a := range r.Attributes {
				wr.Attributes = append(wr.Attributes, wireAttribute{
					Name:  toWireAttrValue(a.Name),
					Value: toWireAttrValue(a.Value),
				})
			}
			switch r.Kind {
			case provmodel.DerivationKind:
				g, u := toWireQName(nsByPrefix, r.Generated), toWireQName(nsByPrefix, r.Used)
				wr.Generated, wr.Used = &g, &u
			case provmodel.RevisionKind:
				n, o := toWireQName(nsByPrefix, r.New), toWireQName(nsByPrefix, r.Old)
				wr.New, wr.Old = &n, &o
			case provmodel.SpecializationKind:
				s, g := toWireQName(nsByPrefix, r.Specific), toWireQName(nsByPrefix, r.General)
				wr.Specific, wr.General = &s, &g
			}
			wb.Records = append(wb.Records, wr)
		}
		wire.Bundles = append(wire.Bundles, wb)
	}
	return json.MarshalIndent(wire, "", "  ")
}

// Decode implements provmodel.Codec.
func (Codec) Decode(data []byte) (*provmodel.Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("jsoncodec: %w", err)
	}
	nsByPrefix := make(map[string]provmodel.Namespace, len(wire.Namespaces))
	doc := &provmodel.Document{}
	for _, wns := range wire.Namespaces {
		ns := provmodel.Namespace{Prefix: wns.Prefix, URI: wns.URI}
		nsByPrefix[wns.Prefix] = ns
		doc.Namespaces = append(doc.Namespaces, ns)
	}
	for _, wb := range wire.Bundles {
		b := &provmodel.Bundle{Identifier: fromWireQName(nsByPrefix, wb.Identifier)}
		for _, wr := range wb.Records {
			r := &provmodel.Record{Kind: recordKindFromName(wr.Kind)}
			if wr.Identifier != nil {
				q := fromWireQName(nsByPrefix, *wr.Identifier)
				r.Identifier = &q
			}
			for _, wa := range wr.Attributes {
				r.Attributes = append(r.Attributes, provmodel.Attribute{
					Name:  fromWireAttrValue(nsByPrefix, wa.Name),
					Value: fromWireAttrValue(nsByPrefix, wa.Value),
				})
			}
			if wr.Generated != nil {
				r.Generated = fromWireQName(nsByPrefix, *wr.Generated)
			}
			if wr.Used != nil {
				r.Used = fromWireQName(nsByPrefix, *wr.Used)
			}
			if wr.New != nil {
				r.New = fromWireQName(nsByPrefix, *wr.New)
			}
			if wr.Old != nil {
				r.Old = fromWireQName(nsByPrefix, *wr.Old)
			}
			if wr.Specific != nil {
				r.Specific = fromWireQName(nsByPrefix, *wr.Specific)
			}
			if wr.General != nil {
				r.General = fromWireQName(nsByPrefix, *wr.General)
			}
			b.Records = append(b.Records, r)
		}
		doc.Bundles = append(doc.Bundles, b)
	}
	return doc, nil
}
