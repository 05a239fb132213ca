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

package pathref_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/provledger/provtoken/pkg/pathref"
)

func TestSplit(t *testing.T) {
	ref, err := pathref.Split("@/x/y/bundle12")
	require.NoError(t, err)
	require.Equal(t, "@/x/y", ref.Path)
	require.Equal(t, 12, ref.BundleID)
}

func TestSplitRejectsMissingBundleSegment(t *testing.T) {
	_, err := pathref.Split("@/x/y")
	require.Error(t, err)
}

func TestSplitRejectsNonNumericBundle(t *testing.T) {
	_, err := pathref.Split("@/x/bundleXYZ")
	require.Error(t, err)
}

func TestJoinIsSplitInverse(t *testing.T) {
	joined := pathref.Join("@/x/y", 7)
	ref, err := pathref.Split(joined)
	require.NoError(t, err)
	require.Equal(t, "@/x/y", ref.Path)
	require.Equal(t, 7, ref.BundleID)
}

func TestResolveHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	resolved, err := pathref.Resolve("~/cases/a.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "cases/a.json"), resolved)
}

func TestResolveCwdCases(t *testing.T) {
	cwd, err := filepath.Abs(".")
	require.NoError(t, err)
	resolved, err := pathref.Resolve("@/a.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "Cases", "a.json"), resolved)
}

func TestResolveAbsoluteUnchanged(t *testing.T) {
	resolved, err := pathref.Resolve("/tmp/a.json")
	require.NoError(t, err)
	require.Equal(t, "/tmp/a.json", resolved)
}

func TestResolveEmptyFails(t *testing.T) {
	_, err := pathref.Resolve("")
	require.Error(t, err)
}
