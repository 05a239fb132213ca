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

// Package token emits a cryptographic attestation of a bundle's canonical
// content into the document's meta-bundle, and later checks that
// attestation.
package token

import (
	"crypto"
	"fmt"
	"time"

	"github.com/provledger/provtoken/pkg/canonical"
	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/provcrypto"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/signaturealgo"
)

// Attribute names, prefixed with cfg.Prefix at use sites.
const (
	AttrHashFunc     = "hash_func"
	AttrHash         = "hash"
	AttrSignFunc     = "sign_func"
	AttrSign         = "sign"
	AttrTimestamp    = "timestamp"
	AttrSignTime     = "sign_time"
	AttrPublicKey    = "public_key"
	AttrEncoding     = "encoding"
	AttrExpireInDays = "expire_in_days"
)

const tokenTypeValue = "Token"

// Authority holds a generated keypair and config and knows how to emit
// tokens.
type Authority struct {
	Spec    signaturealgo.Spec
	KeyPair *provcrypto.KeyPair
	Cfg     *config.Config
	// Clock returns the current time; defaults to time.Now if nil. Exposed
	// so expiry is deterministically testable.
	Clock func() time.Time
}

// NewAuthority generates a fresh keypair for cfg.SignFunc and returns an
// Authority ready to sign bundles.
func NewAuthority(cfg *config.Config) (*Authority, error) {
	spec, err := signaturealgo.Parse(cfg.SignFunc)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	kp, err := provcrypto.Generate(spec)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	return &Authority{Spec: spec, KeyPair: kp, Cfg: cfg}, nil
}

func (a *Authority) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now().UTC()
}

func (a *Authority) attr(name string) string { return a.Cfg.Prefix + ":" + name }

// Emit computes and returns the token entity for bundle b. It does not
// attach the entity to meta or record the wasDerivedFrom link back to b —
// callers (pkg/builder) do that once they decide token emission is not
// suppressed, keeping the "caller then records wasDerivedFrom" split
// explicit at the call site.
//
// Emit returns (nil, nil) when b is nil or its id equals the meta-bundle's,
// since a meta-bundle never carries a token of itself.
func (a *Authority) Emit(meta, b *provmodel.Bundle) (*provmodel.Record, error) {
	if b == nil || b.Identifier == meta.Identifier {
		return nil, nil
	}
	hash, err := provcrypto.HashFunc(a.Cfg.HashFunc)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	timestamp := a.now().Format(time.RFC3339Nano)

	canon, err := canonical.Bytes(b, a.Cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("token: canonicalizing %s: %w", b.Identifier, err)
	}
	digest, err := provcrypto.Sum(a.Cfg.HashFunc, canon)
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}
	sig, err := a.KeyPair.Sign(hash, canon)
	if err != nil {
		return nil, fmt.Errorf("token: signing %s: %w", b.Identifier, err)
	}
	sigTime, err := a.KeyPair.Sign(hash, []byte(timestamp))
	if err != nil {
		return nil, fmt.Errorf("token: signing timestamp for %s: %w", b.Identifier, err)
	}
	pubKeyBytes, err := a.KeyPair.PublicKeyBytes()
	if err != nil {
		return nil, fmt.Errorf("token: %w", err)
	}

	endian := a.Cfg.Endian
	pubKeyText := provcrypto.EncodeInt(pubKeyBytes, endian)
	if a.Spec.Family == signaturealgo.RSA {
		// RSA public keys are a variable-length DER SPKI blob; see
		// provcrypto.DecodeIntVar for why they are always big-endian.
		pubKeyText = provcrypto.EncodeInt(pubKeyBytes, config.BigEndian)
	}

	id := provmodel.QualifiedName{Namespace: b.Identifier.Namespace, Local: b.Identifier.Local + "token"}
	entity := &provmodel.Record{
		Identifier: &id,
		Kind:       provmodel.EntityKind,
		Attributes: []provmodel.Attribute{
			attrStr(a.attr(AttrHashFunc), a.Cfg.HashFunc),
			attrInt(a.attr(AttrHash), provcrypto.EncodeInt(digest, endian)),
			attrStr(a.attr(AttrSignFunc), a.Spec.Raw),
			attrInt(a.attr(AttrSign), provcrypto.EncodeInt(sig, endian)),
			attrStr(a.attr(AttrTimestamp), timestamp),
			attrInt(a.attr(AttrSignTime), provcrypto.EncodeInt(sigTime, endian)),
			attrInt(a.attr(AttrPublicKey), pubKeyText),
			attrStr(a.attr(AttrEncoding), a.Cfg.Encoding),
			attrInt(a.attr(AttrExpireInDays), fmt.Sprintf("%d", a.Cfg.ExpireInDays)),
		},
	}
	return entity, nil
}

func attrStr(name, value string) provmodel.Attribute {
	return provmodel.Attribute{Name: provmodel.StringValue(name), Value: provmodel.StringValue(value)}
}

func attrInt(name, text string) provmodel.Attribute {
	return provmodel.Attribute{Name: provmodel.StringValue(name), Value: provmodel.IntValue(text)}
}

// Validator checks a bundle against its token, per the
// valid_bundle / Validate.
type Validator struct {
	Prefix string
	// Endian is the byte order token integers are decoded with; it must
	// match the order the Authority encoded them with.
	Endian config.Endian
	Clock  func() time.Time
}

// NewValidator returns a Validator using cfg's prefix and endianness.
func NewValidator(cfg *config.Config) *Validator {
	return &Validator{Prefix: cfg.Prefix, Endian: cfg.Endian}
}

func (v *Validator) now() time.Time {
	if v.Clock != nil {
		return v.Clock()
	}
	return time.Now().UTC()
}

func (v *Validator) attr(name string) string { return v.Prefix + ":" + name }

// ValidBundle locates bundle b's token in meta, validates its shape, and
// cryptographically checks it. d, when non-nil, receives a diagnostic for
// every failure reason.
func (v *Validator) ValidBundle(meta, b *provmodel.Bundle, d *diag.Collector, docPath string) bool {
	if meta == nil || b == nil {
		return false
	}
	var tokens []*provmodel.Record
	for _, rec := range meta.GetRecords(provmodel.DerivationKind) {
		if rec.HasAttribute("prov:type", tokenTypeValue) && rec.Used == b.Identifier {
			if tok := meta.GetRecord(rec.Generated); tok != nil {
				tokens = append(tokens, tok)
			}
		}
	}
	switch len(tokens) {
	case 0:
		warn(d, docPath, b, "token of %s does not occur in meta bundle; it is not valid", b.Identifier)
		return false
	case 1:
		return v.validateRecord(b, tokens[0], d, docPath)
	default:
		warn(d, docPath, b, "there is more than one token for %s; it is not valid", b.Identifier)
		return false
	}
}

func warn(d *diag.Collector, docPath string, b *provmodel.Bundle, format string, args ...any) {
	if d == nil {
		return
	}
	id := ""
	if b != nil {
		id = b.Identifier.Local
	}
	d.Warn(docPath, id, format, args...)
}

func (v *Validator) validateRecord(b *provmodel.Bundle, tok *provmodel.Record, d *diag.Collector, docPath string) bool {
	get := func(name string) (provmodel.AttrValue, bool) {
		vals := tok.GetAttribute(v.attr(name))
		if len(vals) == 0 {
			return provmodel.AttrValue{}, false
		}
		return vals[0], true
	}

	encodingV, ok1 := get(AttrEncoding)
	hashFuncV, ok2 := get(AttrHashFunc)
	hashV, ok3 := get(AttrHash)
	signFuncV, ok4 := get(AttrSignFunc)
	pubKeyV, ok5 := get(AttrPublicKey)
	signV, ok6 := get(AttrSign)
	timeV, ok7 := get(AttrTimestamp)
	signTimeV, ok8 := get(AttrSignTime)
	expireV, ok9 := get(AttrExpireInDays)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8 && ok9) {
		warn(d, docPath, b, "%s is not valid due to missing information within its token", b.Identifier)
		return false
	}

	encoding := encodingV.String()
	hashFunc := hashFuncV.String()
	signFunc := signFuncV.String()
	timestamp := timeV.String()

	spec, err := signaturealgo.Parse(signFunc)
	if err != nil {
		warn(d, docPath, b, "%s has an invalid sign_func in its token: %v", b.Identifier, err)
		return false
	}
	hash, err := provcrypto.HashFunc(hashFunc)
	if err != nil {
		warn(d, docPath, b, "%s has an invalid hash_func in its token: %v", b.Identifier, err)
		return false
	}
	hashBytes := hashByteWidth(hash)
	endian := v.Endian // process-wide, not stored in the token
	hashValue, err := provcrypto.DecodeInt(hashV.IntText(), hashBytes, endian)
	if err != nil {
		warn(d, docPath, b, "%s has a malformed hash in its token: %v", b.Identifier, err)
		return false
	}
	var pubKeyBytes []byte
	if spec.Family == signaturealgo.RSA {
		pubKeyBytes, err = provcrypto.DecodeIntVar(pubKeyV.IntText())
	} else {
		pubKeyBytes, err = provcrypto.DecodeInt(pubKeyV.IntText(), spec.ByteWidth(), endian)
	}
	if err != nil {
		warn(d, docPath, b, "%s has a malformed public key in its token: %v", b.Identifier, err)
		return false
	}
	pub, err := provcrypto.ImportPublicKey(spec, pubKeyBytes)
	if err != nil {
		warn(d, docPath, b, "invalid public key for %s: %v", b.Identifier, err)
		return false
	}
	sigBytes, err := provcrypto.DecodeInt(signV.IntText(), spec.ByteWidth(), endian)
	if err != nil {
		warn(d, docPath, b, "%s has a malformed signature in its token: %v", b.Identifier, err)
		return false
	}
	sigTimeBytes, err := provcrypto.DecodeInt(signTimeV.IntText(), spec.ByteWidth(), endian)
	if err != nil {
		warn(d, docPath, b, "%s has a malformed time signature in its token: %v", b.Identifier, err)
		return false
	}
	expireDays := parseIntAttr(expireV)

	canon, err := canonical.Bytes(b, encoding)
	if err != nil {
		warn(d, docPath, b, "%s could not be canonicalized: %v", b.Identifier, err)
		return false
	}
	recomputed, err := provcrypto.Sum(hashFunc, canon)
	if err != nil {
		warn(d, docPath, b, "%s: %v", b.Identifier, err)
		return false
	}
	if !bytesEqual(recomputed, hashValue) {
		warn(d, docPath, b, "%s is not valid due to mismatch of the bundle's hash", b.Identifier)
		return false
	}

	okSig, err := provcrypto.Verify(spec, pub, hash, canon, sigBytes)
	if err != nil || !okSig {
		warn(d, docPath, b, "%s is not valid due to an invalid signature", b.Identifier)
		return false
	}
	okTimeSig, err := provcrypto.Verify(spec, pub, hash, []byte(timestamp), sigTimeBytes)
	if err != nil || !okTimeSig {
		warn(d, docPath, b, "%s is not valid due to an invalid time signature", b.Identifier)
		return false
	}

	signedAt, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		warn(d, docPath, b, "%s has an unparseable timestamp in its token: %v", b.Identifier, err)
		return false
	}
	if signedAt.Add(time.Duration(expireDays) * 24 * time.Hour).Before(v.now()) {
		warn(d, docPath, b, "%s is not valid due to expiration of its signature", b.Identifier)
		return false
	}
	return true
}

func hashByteWidth(h crypto.Hash) int { return h.Size() }

func parseIntAttr(v provmodel.AttrValue) int {
	var n int
	_, _ = fmt.Sscanf(v.IntText(), "%d", &n)
	return n
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
