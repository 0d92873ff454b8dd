package grouping

import (
	"strings"
	"unicode/utf8"

	"catalog-service/internal/models"
)

// PrefixMerge takes the first remaining variant as a seed whose full name is
// the group's common name. A later variant joins when its word-level common
// prefix with the common name is at least MinPrefix characters long and
// strictly shorter than the seed's name; the common name then shrinks to that
// prefix. Passes repeat until no remaining variant joins.
//
// A variant whose name starts with the whole seed name does not join that
// seed while the common name is still the seed name.
//
// Master names are unique within one call: a group whose final name matches
// an earlier group is folded into it, since masters are stored keyed by name.
type PrefixMerge struct {
	MinPrefix int
}

func (g *PrefixMerge) Strategy() Strategy { return StrategyPrefixMerge }

type prefixGroup struct {
	name        string
	prefixWords int
	members     []models.Variant
}

func (g *PrefixMerge) Group(variants []models.Variant) []models.MasterProduct {
	remaining := make([]models.Variant, len(variants))
	copy(remaining, variants)

	var groups []*prefixGroup
	byName := make(map[string]*prefixGroup)

	for len(remaining) > 0 {
		seed := remaining[0]
		common := strings.TrimSpace(seed.Name)
		seedLen := utf8.RuneCountInString(common)
		members := []models.Variant{seed}
		remaining = remaining[1:]

		for joined := true; joined; {
			joined = false
			next := make([]models.Variant, 0, len(remaining))
			for _, candidate := range remaining {
				prefix := commonWordPrefix(common, candidate.Name)
				n := utf8.RuneCountInString(prefix)
				if n >= g.MinPrefix && n < seedLen {
					members = append(members, candidate)
					common = prefix
					joined = true
					continue
				}
				next = append(next, candidate)
			}
			remaining = next
		}

		prefixWords := wordCount(common)
		if len(members) == 1 {
			prefixWords = 0
		}

		if existing, ok := byName[common]; ok {
			existing.members = append(existing.members, members...)
			existing.prefixWords = wordCount(common)
			continue
		}
		group := &prefixGroup{name: common, prefixWords: prefixWords, members: members}
		byName[common] = group
		groups = append(groups, group)
	}

	masters := make([]models.MasterProduct, 0, len(groups))
	for _, group := range groups {
		masters = append(masters, buildMaster(group.name, group.prefixWords, group.members))
	}
	return masters
}

// commonWordPrefix is the longest run of identical leading words, joined by single spaces
func commonWordPrefix(a, b string) string {
	wa, wb := words(a), words(b)
	n := 0
	for n < len(wa) && n < len(wb) && wa[n] == wb[n] {
		n++
	}
	return strings.TrimSpace(strings.Join(wa[:n], " "))
}
