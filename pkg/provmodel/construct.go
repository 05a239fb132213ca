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

package provmodel

// Entity appends a new entity record with the given identifier and
// attributes to bundle, mirroring prov.model.ProvBundle.entity.
func (b *Bundle) Entity(id QualifiedName, attrs ...Attribute) *Record {
	r := &Record{Identifier: &id, Kind: EntityKind, Attributes: attrs}
	b.AddRecord(r)
	return r
}

// Derivation appends a wasDerivedFrom(generated, used) record, optionally
// typed via a "prov:type" attribute, mirroring ProvBundle.derivation /
// ProvBundle.wasDerivedFrom.
func (b *Bundle) Derivation(id, generated, used QualifiedName, typeAttrs ...Attribute) *Record {
	r := &Record{
		Identifier: &id,
		Kind:       DerivationKind,
		Generated:  generated,
		Used:       used,
		Attributes: typeAttrs,
	}
	b.AddRecord(r)
	return r
}

// Revision appends a wasRevisionOf(newer, older) record, mirroring
// ProvBundle.wasRevisionOf. The "prov:type" = Revision attribute is
// implicit in Kind and does not need to be set explicitly.
func (b *Bundle) Revision(id, newer, older QualifiedName) *Record {
	r := &Record{Identifier: &id, Kind: RevisionKind, New: newer, Old: older}
	b.AddRecord(r)
	return r
}

// Specialization appends a specializationOf(specific, general) record,
// mirroring ProvBundle.specializationOf.
func (b *Bundle) Specialization(id, specific, general QualifiedName) *Record {
	r := &Record{Identifier: &id, Kind: SpecializationKind, Specific: specific, General: general}
	b.AddRecord(r)
	return r
}
