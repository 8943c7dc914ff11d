package metrics

import "planhat-usage-sync/pkg/utils"

// AliasSets groups org ids that belong to one logical billing entity.
// When a company's id appears in any set, usage is aggregated across the
// whole set rather than the single id. The sets are loaded from
// configuration and immutable once built.
type AliasSets struct {
	sets [][]string
	// index maps normalized id to the position of its set
	index map[string]int
}

func NewAliasSets(sets [][]string) *AliasSets {
	a := &AliasSets{index: make(map[string]int)}
	for _, set := range sets {
		if len(set) == 0 {
			continue
		}
		ids := make([]string, len(set))
		copy(ids, set)
		pos := len(a.sets)
		a.sets = append(a.sets, ids)
		for _, id := range ids {
			a.index[utils.NormalizeID(id)] = pos
		}
	}
	return a
}

// Resolve returns the full alias set containing orgID, or the singleton
// when the id belongs to no set. Lookup is case- and whitespace-insensitive.
func (a *AliasSets) Resolve(orgID string) []string {
	if pos, ok := a.index[utils.NormalizeID(orgID)]; ok {
		set := make([]string, len(a.sets[pos]))
		copy(set, a.sets[pos])
		return set
	}
	return []string{orgID}
}

// IsAliased reports whether the id belongs to a multi-id set.
func (a *AliasSets) IsAliased(orgID string) bool {
	_, ok := a.index[utils.NormalizeID(orgID)]
	return ok
}
