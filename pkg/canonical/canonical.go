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

// Package canonical implements a deterministic byte encoding of a bundle:
// stable under attribute reordering and record reordering, with framing
// bytes chosen outside the legal localpart alphabet so no identifier can
// forge a field boundary.
package canonical

import (
	"fmt"
	"sort"
	"strings"

	"github.com/provledger/provtoken/pkg/provmodel"
)

// Reserved are the framing bytes the canonical encoding relies on for
// field boundaries; identifiers must not contain them.
const Reserved = "%+~#"

// ErrReservedByte is returned when an identifier or attribute value
// contains one of the framing bytes. Rejecting these up front closes the
// collision surface a permissive canonicalizer would otherwise leave open:
// an identifier containing a framing byte could otherwise be crafted to
// forge a field boundary in the encoded output.
type ErrReservedByte struct {
	Value string
}

func (e ErrReservedByte) Error() string {
	return fmt.Sprintf("canonical: %q contains a reserved framing byte (one of %q)", e.Value, Reserved)
}

// CheckIdentifier validates that a localpart contains none of the
// reserved framing bytes.
func CheckIdentifier(localpart string) error {
	if strings.ContainsAny(localpart, Reserved) {
		return ErrReservedByte{Value: localpart}
	}
	return nil
}

// ErrNoIdentifier is returned when a record lacks an identifier: a record
// without one cannot be canonicalized, since its identifier is the first
// field the encoding writes.
var ErrNoIdentifier = fmt.Errorf("canonical: record has no identifier")

// Bytes computes C(B) for bundle b, encoded with the named encoding. Only
// "UTF-8" is supported; any other value is a configuration error.
func Bytes(b *provmodel.Bundle, encoding string) ([]byte, error) {
	if encoding != "" && encoding != "UTF-8" {
		return nil, fmt.Errorf("canonical: unsupported encoding %q", encoding)
	}
	if b == nil {
		return []byte{0x00}, nil
	}
	var sb strings.Builder
	sb.WriteString(b.Identifier.Local)
	sb.WriteByte('%')

	records := make([]*provmodel.Record, len(b.Records))
	copy(records, b.Records)
	for _, r := range records {
		if r.Identifier == nil {
			return nil, ErrNoIdentifier
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Identifier.Local < records[j].Identifier.Local
	})

	for _, r := range records {
		sb.WriteString(r.Identifier.Local)
		attrs := make([]provmodel.Attribute, len(r.Attributes))
		copy(attrs, r.Attributes)
		attrs = append(attrs, formalAttributes(r)...)
		sort.SliceStable(attrs, func(i, j int) bool {
			ni, nj := attrs[i].Name.LocalPartOrString(), attrs[j].Name.LocalPartOrString()
			if ni != nj {
				return ni < nj
			}
			return attrs[i].Value.LocalPartOrString() < attrs[j].Value.LocalPartOrString()
		})
		for _, a := range attrs {
			sb.WriteByte('+')
			sb.WriteString(a.Name.LocalPartOrString())
			sb.WriteByte('~')
			sb.WriteString(a.Value.LocalPartOrString())
		}
		sb.WriteByte('#')
	}
	return []byte(sb.String()), nil
}

// formalAttributes returns the formal attributes prov.model attaches to a
// record's struct fields (generatedEntity/usedEntity, specificEntity/
// generalEntity) so that derivation, revision, and specialization
// endpoints are covered by the canonical encoding, not just a record's
// free-form Attributes. wasRevisionOf is a wasDerivedFrom subtype, so it
// shares the generatedEntity/usedEntity names (new is generated, old is
// used).
func formalAttributes(r *provmodel.Record) []provmodel.Attribute {
	switch r.Kind {
	case provmodel.DerivationKind:
		return []provmodel.Attribute{
			{Name: provmodel.StringValue("prov:generatedEntity"), Value: provmodel.QualifiedValue(r.Generated)},
			{Name: provmodel.StringValue("prov:usedEntity"), Value: provmodel.QualifiedValue(r.Used)},
		}
	case provmodel.RevisionKind:
		return []provmodel.Attribute{
			{Name: provmodel.StringValue("prov:generatedEntity"), Value: provmodel.QualifiedValue(r.New)},
			{Name: provmodel.StringValue("prov:usedEntity"), Value: provmodel.QualifiedValue(r.Old)},
		}
	case provmodel.SpecializationKind:
		return []provmodel.Attribute{
			{Name: provmodel.StringValue("prov:specificEntity"), Value: provmodel.QualifiedValue(r.Specific)},
			{Name: provmodel.StringValue("prov:generalEntity"), Value: provmodel.QualifiedValue(r.General)},
		}
	default:
		return nil
	}
}
