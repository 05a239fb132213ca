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

package builder

// mergeForkInfo is a single-pass analysis of a request's updates: which
// bundle ids will be merge targets (and so
// need a fresh base minted the moment they are constructed, and their
// finalization token suppressed until the merge has actually happened),
// and which source ids are forked (referenced by more than one update, so
// every revision made from them, the first included, needs a fresh base too).
type mergeForkInfo struct {
	// mergeTargetIDs are "into" ids of every merge update — a fresh base
	// is minted for a bundle with one of these ids the moment it is
	// constructed, wherever that happens.
	mergeTargetIDs map[int]bool
	// excludeTokens is a multiset: one entry per merge update naming that
	// into id. The next bundle_with_entities finalization of that id
	// consumes one entry and skips token emission, whichever happens
	// first — the bundle's own initial construction or the merge's
	// re-finalization — so exactly one, the later one, ends up tokened.
	excludeTokens map[int]int
	// forkSourceIDs are source ids that appear as the source of more than
	// one update.
	forkSourceIDs map[int]bool
}

func analyzeMergesForks(updates []UpdateSpec) mergeForkInfo {
	info := mergeForkInfo{
		mergeTargetIDs: map[int]bool{},
		excludeTokens:  map[int]int{},
		forkSourceIDs:  map[int]bool{},
	}
	seenSources := map[int]bool{}
	for _, u := range updates {
		if u.IsMerge() {
			info.mergeTargetIDs[*u.MergeInto] = true
			info.excludeTokens[*u.MergeInto]++
		}
		if seenSources[u.Source] {
			info.forkSourceIDs[u.Source] = true
		} else {
			seenSources[u.Source] = true
		}
	}
	return info
}

// consumeExclusion reports whether id has a pending token suppression and,
// if so, consumes one entry from the multiset.
func (m *mergeForkInfo) consumeExclusion(id int) bool {
	if m.excludeTokens[id] <= 0 {
		return false
	}
	m.excludeTokens[id]--
	return true
}
