package merge

import (
	"sort"

	"github.com/samber/lo"

	"github.com/minios-linux/lokaudit/audit"
	"github.com/minios-linux/lokaudit/catalog"
)

// CompleteSet returns language → reference key count for every document
// that is fully complete against ref. The reference language is skipped.
func CompleteSet(ref *audit.Reference, docs map[string]*catalog.Tree) map[string]int {
	return audit.Run(ref, docs, audit.RunOptions{}).Complete()
}

// Comparison is the branch comparison document.
type Comparison struct {
	// ReadyToPromote are complete on the in-progress branch only.
	ReadyToPromote []string `json:"ready_to_promote"`
	// CompleteOnBoth are complete on both branches.
	CompleteOnBoth []string `json:"complete_on_both"`
	// CompleteOnStableOnly are complete on stable but not in progress.
	// This normally indicates a regression.
	CompleteOnStableOnly []string `json:"complete_on_stable_only"`

	StableComplete     map[string]int `json:"-"`
	InProgressComplete map[string]int `json:"-"`
}

// Compare computes the set differences between two complete sets.
func Compare(stable, inProgress map[string]int) Comparison {
	a := sortedKeys(stable)
	b := sortedKeys(inProgress)
	stableOnly, ready := lo.Difference(a, b)

	return Comparison{
		ReadyToPromote:       nonNil(ready),
		CompleteOnBoth:       nonNil(lo.Intersect(a, b)),
		CompleteOnStableOnly: nonNil(stableOnly),
		StableComplete:       stable,
		InProgressComplete:   inProgress,
	}
}

// HasAnomaly reports whether any language regressed on the in-progress
// branch.
func (c Comparison) HasAnomaly() bool {
	return len(c.CompleteOnStableOnly) > 0
}

func sortedKeys(m map[string]int) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	sort.Strings(s)
	return s
}
