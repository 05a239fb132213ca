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

// Package pathref implements the has_provenance path grammar:
// "<root><path-segments>/bundle<N>" where root is "~/", "@/", an absolute
// path, or a relative path. ~/X expands under the user's home directory
// (via github.com/mitchellh/go-homedir, a portable home-dir dependency);
// @/X expands under <cwd>/Cases/X.
package pathref

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// Ref is a resolved has_provenance reference: a filesystem path and the
// numeric bundle id within the document at that path.
type Ref struct {
	Path     string
	BundleID int
}

// Split parses a raw has_provenance attribute value of the form
// "<posix-path>/bundle<N>" into its (path, bundle-id) pair.
func Split(raw string) (Ref, error) {
	idx := strings.LastIndex(raw, "/")
	if idx < 0 {
		return Ref{}, fmt.Errorf("pathref: %q has no bundle segment", raw)
	}
	path, last := raw[:idx], raw[idx+1:]
	const bundlePrefix = "bundle"
	if !strings.HasPrefix(last, bundlePrefix) {
		return Ref{}, fmt.Errorf("pathref: %q does not end in bundle<N>", raw)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, bundlePrefix))
	if err != nil {
		return Ref{}, fmt.Errorf("pathref: %q has a non-numeric bundle id: %w", raw, err)
	}
	return Ref{Path: path, BundleID: n}, nil
}

// Resolve expands the root sigil of a POSIX path: "~/X" under the user's
// home directory, "@/X" under "<cwd>/Cases/X", and absolute/relative paths
// unchanged.
func Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("pathref: empty path")
	}
	root, rest, hasRest := strings.Cut(path, "/")
	switch root {
	case "~":
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("pathref: resolving home directory: %w", err)
		}
		if !hasRest {
			return home, nil
		}
		return filepath.Join(home, rest), nil
	case "@":
		cwd, err := filepath.Abs(".")
		if err != nil {
			return "", fmt.Errorf("pathref: resolving working directory: %w", err)
		}
		if !hasRest {
			return filepath.Join(cwd, "Cases"), nil
		}
		return filepath.Join(cwd, "Cases", rest), nil
	default:
		return path, nil
	}
}

// Join reconstructs the bundle<N> suffix, the inverse of Split, producing
// the stored has_provenance attribute value form.
func Join(path string, bundleID int) string {
	return fmt.Sprintf("%s/bundle%d", path, bundleID)
}
