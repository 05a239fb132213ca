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

package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/config"
	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/provmodel"
	"github.com/provledger/provtoken/pkg/token"
)

func newFixture(t *testing.T, signFunc string) (*config.Config, *provmodel.Bundle, *provmodel.Bundle) {
	t.Helper()
	cfg := config.Default()
	cfg.SignFunc = signFunc
	ns := provmodel.Namespace{Prefix: cfg.Prefix, URI: cfg.URI}
	qn := func(local string) provmodel.QualifiedName { return provmodel.QualifiedName{Namespace: ns, Local: local} }

	meta := &provmodel.Bundle{Identifier: qn("meta")}
	b := &provmodel.Bundle{Identifier: qn("bundle1")}
	b.Entity(qn("1"))
	return cfg, meta, b
}

func attachToken(t *testing.T, a *token.Authority, meta, b *provmodel.Bundle) {
	t.Helper()
	entity, err := a.Emit(meta, b)
	require.NoError(t, err)
	require.NotNil(t, entity)
	meta.AddRecord(entity)
	meta.Derivation(
		provmodel.QualifiedName{Namespace: b.Identifier.Namespace, Local: "der-token1"},
		*entity.Identifier,
		b.Identifier,
		provmodel.Attribute{Name: provmodel.StringValue("prov:type"), Value: provmodel.StringValue("Token")},
	)
}

func TestRoundTripSignature(t *testing.T) {
	for _, signFunc := range []string{"NIST256", "RSA512"} {
		t.Run(signFunc, func(t *testing.T) {
			cfg, meta, b := newFixture(t, signFunc)
			at := fixedTime()
			a, err := token.NewAuthority(cfg)
			require.NoError(t, err)
			a.Clock = func() time.Time { return at }
			attachToken(t, a, meta, b)

			v := token.NewValidator(cfg)
			v.Clock = func() time.Time { return at.Add(time.Minute) }
			d := &diag.Collector{}
			require.True(t, v.ValidBundle(meta, b, d, "test"))

			b.Entity(provmodel.QualifiedName{Namespace: b.Identifier.Namespace, Local: "2"})
			require.False(t, v.ValidBundle(meta, b, d, "test"))
		})
	}
}

func TestRetargetedDerivationInvalidatesToken(t *testing.T) {
	cfg, meta, b := newFixture(t, "NIST256")
	ns := b.Identifier.Namespace
	b.Entity(provmodel.QualifiedName{Namespace: ns, Local: "2"})
	der := b.Derivation(
		provmodel.QualifiedName{Namespace: ns, Local: "der2-1"},
		provmodel.QualifiedName{Namespace: ns, Local: "2"},
		provmodel.QualifiedName{Namespace: ns, Local: "1"},
	)

	at := fixedTime()
	a, err := token.NewAuthority(cfg)
	require.NoError(t, err)
	a.Clock = func() time.Time { return at }
	attachToken(t, a, meta, b)

	v := token.NewValidator(cfg)
	v.Clock = func() time.Time { return at.Add(time.Minute) }
	d := &diag.Collector{}
	require.True(t, v.ValidBundle(meta, b, d, "test"))

	b.Entity(provmodel.QualifiedName{Namespace: ns, Local: "3"})
	der.Used = provmodel.QualifiedName{Namespace: ns, Local: "3"}
	require.False(t, v.ValidBundle(meta, b, d, "test"), "retargeting a derivation's used entity must invalidate the token")
}

func TestExpiry(t *testing.T) {
	cfg, meta, b := newFixture(t, "NIST256")
	cfg.ExpireInDays = 1
	at := fixedTime()
	a, err := token.NewAuthority(cfg)
	require.NoError(t, err)
	a.Clock = func() time.Time { return at }
	attachToken(t, a, meta, b)

	v := token.NewValidator(cfg)
	d := &diag.Collector{}

	v.Clock = func() time.Time { return at.Add(23 * time.Hour) }
	require.True(t, v.ValidBundle(meta, b, d, "test"))

	v.Clock = func() time.Time { return at.Add(25 * time.Hour) }
	require.False(t, v.ValidBundle(meta, b, d, "test"))
}

func fixedTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}
