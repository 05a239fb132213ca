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

// Package diag collects structured diagnostics for conditions that earlier
// tooling in this space only printed: several warnings do not change a
// caller's return value, so they are collected here and returned alongside
// the three result lists instead of being lost to stdout.
package diag

import "fmt"

// Severity classifies a diagnostic.
type Severity int

const (
	// Warning is a non-fatal condition encountered during search or load
	// (a missing revision confirmation, an unreadable cross-reference, a
	// cycle in a referenced document).
	Warning Severity = iota
	// Notice is informational (e.g. "newer versions do not contain E").
	Notice
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "notice"
}

// Diagnostic is one structured warning or notice.
type Diagnostic struct {
	Severity Severity
	Message  string
	// DocPath, when non-empty, identifies the document the diagnostic
	// pertains to.
	DocPath string
	// BundleID, when non-empty, identifies the bundle the diagnostic
	// pertains to (its localpart).
	BundleID string
}

// Collector accumulates diagnostics in emission order.
type Collector struct {
	items []Diagnostic
}

// Warn records a warning-level diagnostic.
func (c *Collector) Warn(docPath, bundleID, format string, args ...any) {
	c.add(Warning, docPath, bundleID, format, args...)
}

// Note records a notice-level diagnostic.
func (c *Collector) Note(docPath, bundleID, format string, args ...any) {
	c.add(Notice, docPath, bundleID, format, args...)
}

func (c *Collector) add(sev Severity, docPath, bundleID, format string, args ...any) {
	c.items = append(c.items, Diagnostic{
		Severity: sev,
		Message:  sprintf(format, args...),
		DocPath:  docPath,
		BundleID: bundleID,
	})
}

// Items returns the accumulated diagnostics.
func (c *Collector) Items() []Diagnostic { return c.items }

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
