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

package docview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/diag"
	"github.com/provledger/provtoken/pkg/docview"
	"github.com/provledger/provtoken/pkg/provmodel"
)

func qn(local string) provmodel.QualifiedName {
	return provmodel.QualifiedName{Namespace: provmodel.Namespace{Prefix: "ex", URI: "https://example/ns#"}, Local: local}
}

func TestRevisionMirroringDroppedWithoutConfirmation(t *testing.T) {
	meta := &provmodel.Bundle{Identifier: qn("meta")}
	meta.Revision(qn("up-bundle1-bundle2"), qn("bundle2"), qn("bundle1"))

	b1 := &provmodel.Bundle{Identifier: qn("bundle1")}
	b2 := &provmodel.Bundle{Identifier: qn("bundle2")} // no mirrored revision record inside

	doc := &provmodel.Document{Bundles: []*provmodel.Bundle{meta, b1, b2}}
	diags := &diag.Collector{}
	v, err := docview.New("doc.json", doc, diags)
	require.NoError(t, err)

	require.Empty(t, v.Newer(1))
	require.Empty(t, v.Older(2))
	require.NotEmpty(t, diags.Items())
}

func TestRevisionMirroringConfirmed(t *testing.T) {
	meta := &provmodel.Bundle{Identifier: qn("meta")}
	meta.Revision(qn("up-bundle1-bundle2"), qn("bundle2"), qn("bundle1"))

	b1 := &provmodel.Bundle{Identifier: qn("bundle1")}
	b2 := &provmodel.Bundle{Identifier: qn("bundle2")}
	b2.Revision(qn("up-bundle1-bundle2"), qn("bundle2"), qn("bundle1"))

	doc := &provmodel.Document{Bundles: []*provmodel.Bundle{meta, b1, b2}}
	v, err := docview.New("doc.json", doc, &diag.Collector{})
	require.NoError(t, err)

	require.Equal(t, []int{2}, v.Newer(1))
	require.Equal(t, []int{1}, v.Older(2))
	require.Equal(t, []int{1}, v.Roots())
}

func TestAcyclicityRejectsCycle(t *testing.T) {
	meta := &provmodel.Bundle{Identifier: qn("meta")}
	meta.Revision(qn("up-bundle1-bundle2"), qn("bundle2"), qn("bundle1"))
	meta.Revision(qn("up-bundle2-bundle1"), qn("bundle1"), qn("bundle2"))

	b1 := &provmodel.Bundle{Identifier: qn("bundle1")}
	b1.Revision(qn("up-bundle2-bundle1"), qn("bundle1"), qn("bundle2"))
	b2 := &provmodel.Bundle{Identifier: qn("bundle2")}
	b2.Revision(qn("up-bundle1-bundle2"), qn("bundle2"), qn("bundle1"))

	doc := &provmodel.Document{Bundles: []*provmodel.Bundle{meta, b1, b2}}
	_, err := docview.New("doc.json", doc, &diag.Collector{})
	require.Error(t, err)
}

func TestMissingMetaBundleFails(t *testing.T) {
	doc := &provmodel.Document{Bundles: []*provmodel.Bundle{{Identifier: qn("bundle1")}}}
	_, err := docview.New("doc.json", doc, &diag.Collector{})
	require.Error(t, err)
}
