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

// Package provmodel is the narrow adapter the rest of provtoken uses to
// reason about a provenance document. A real PROV implementation (entities,
// bundles, records, qualified names, namespaces) is treated as an external
// collaborator by design: no such library exists in the Go ecosystem this
// module was grounded on, so this package supplies the minimal concrete
// shape and leaves serialization to the Codec interface in codec.go.
package provmodel

import "fmt"

// Namespace is a prefix bound to a URI, the PROV notion of a namespace
// declaration on a document.
type Namespace struct {
	Prefix string
	URI    string
}

// QualifiedName is a namespace-prefixed identifier. Local is a record's
// "localpart".
type QualifiedName struct {
	Namespace Namespace
	Local     string
}

func (q QualifiedName) String() string {
	if q.Namespace.Prefix == "" {
		return q.Local
	}
	return fmt.Sprintf("%s:%s", q.Namespace.Prefix, q.Local)
}

// IsZero reports whether q is the zero QualifiedName.
func (q QualifiedName) IsZero() bool {
	return q.Local == "" && q.Namespace.Prefix == ""
}

// AttrValue is the sum type canonicalization and token decoding both care
// about: a plain string, a qualified name (canonicalized by its localpart),
// or an arbitrary-width integer (the shape every token field is stored as).
type AttrValue struct {
	str   string
	qn    *QualifiedName
	isInt bool
	i     *bigIntLike
}

// bigIntLike keeps provmodel free of a math/big import in its public
// surface while still letting pkg/token round-trip values wider than
// int64 (signatures and public keys routinely are).
type bigIntLike struct {
	text string // base-10 text form
}

// StringValue builds an AttrValue from a plain string.
func StringValue(s string) AttrValue { return AttrValue{str: s} }

// QualifiedValue builds an AttrValue from a qualified name.
func QualifiedValue(q QualifiedName) AttrValue { return AttrValue{qn: &q} }

// IntValue builds an AttrValue from the base-10 text of an arbitrary-width
// integer (see pkg/provcrypto for how signatures/keys become such text).
func IntValue(text string) AttrValue { return AttrValue{isInt: true, i: &bigIntLike{text: text}} }

// IsString reports whether the value is a plain string.
func (a AttrValue) IsString() bool { return a.qn == nil && !a.isInt }

// IsQualified reports whether the value is a qualified name.
func (a AttrValue) IsQualified() bool { return a.qn != nil }

// IsInt reports whether the value is an arbitrary-width integer.
func (a AttrValue) IsInt() bool { return a.isInt }

// String returns the string form of a plain-string value.
func (a AttrValue) String() string { return a.str }

// Qualified returns the qualified-name form; callers must check IsQualified.
func (a AttrValue) Qualified() QualifiedName { return *a.qn }

// IntText returns the base-10 text of an integer value; callers must check
// IsInt.
func (a AttrValue) IntText() string { return a.i.text }

// LocalPartOrString implements the canonicalizer's value_part rule: a
// qualified name canonicalizes to its localpart, a plain string
// canonicalizes to itself, anything else to its stringification.
func (a AttrValue) LocalPartOrString() string {
	switch {
	case a.IsQualified():
		return a.qn.Local
	case a.IsInt():
		return a.i.text
	default:
		return a.str
	}
}

// Attribute is a single (name, value) pair on a record.
type Attribute struct {
	Name  AttrValue
	Value AttrValue
}

// RecordKind distinguishes the record shapes provtoken constructs and reads.
type RecordKind int

const (
	EntityKind RecordKind = iota
	DerivationKind
	RevisionKind
	SpecializationKind
)

// Record is a single PROV statement: an entity, a derivation, a revision,
// or a specialization-of link. Only the fields relevant to its Kind are
// meaningful; the others are zero.
type Record struct {
	Identifier *QualifiedName
	Kind       RecordKind
	Attributes []Attribute

	// DerivationKind only.
	Generated QualifiedName
	Used      QualifiedName

	// RevisionKind only (wasRevisionOf(New, Old)).
	New QualifiedName
	Old QualifiedName

	// SpecializationKind only (specializationOf(Specific, General)).
	Specific QualifiedName
	General  QualifiedName
}

// GetAttribute returns every value stored under name, in the order
// attached, mirroring prov.model's ProvRecord.get_attribute.
func (r *Record) GetAttribute(name string) []AttrValue {
	var out []AttrValue
	for _, a := range r.Attributes {
		if a.Name.LocalPartOrString() == name {
			out = append(out, a.Value)
		}
	}
	return out
}

// HasAttribute reports whether the record carries attribute name with the
// given localpart-or-string value.
func (r *Record) HasAttribute(name, value string) bool {
	for _, v := range r.GetAttribute(name) {
		if v.LocalPartOrString() == value {
			return true
		}
	}
	return false
}

// Bundle is a named set of provenance records.
type Bundle struct {
	Identifier QualifiedName
	Records    []*Record
}

// GetRecords returns every record of the given kind, in insertion order.
func (b *Bundle) GetRecords(kind RecordKind) []*Record {
	var out []*Record
	for _, r := range b.Records {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// GetRecord finds the first record with the given identifier, or nil.
func (b *Bundle) GetRecord(id QualifiedName) *Record {
	for _, r := range b.Records {
		if r.Identifier != nil && *r.Identifier == id {
			return r
		}
	}
	return nil
}

// AddRecord appends a record, preserving insertion order (canonicalization
// re-sorts independently, so insertion order here only affects iteration
// elsewhere, e.g. BFS discovery order in pkg/search).
func (b *Bundle) AddRecord(r *Record) {
	b.Records = append(b.Records, r)
}

// Document is a collection of bundles sharing a namespace declaration.
type Document struct {
	Namespaces []Namespace
	Bundles    []*Bundle
}

// Bundle looks up a bundle by identifier.
func (d *Document) Bundle(id QualifiedName) *Bundle {
	for _, b := range d.Bundles {
		if b.Identifier == id {
			return b
		}
	}
	return nil
}

// AddBundle appends a new, empty bundle with the given identifier and
// returns it, mirroring prov.model.ProvDocument.bundle(identifier).
func (d *Document) AddBundle(id QualifiedName) *Bundle {
	b := &Bundle{Identifier: id}
	d.Bundles = append(d.Bundles, b)
	return b
}
