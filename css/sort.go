package css

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strings"

	"cssfmt/common"
)

// Sorter reorders declarations of a single block. Implementations must not
// modify input slice.
type Sorter interface {
	Sort(decls []string) []string
}

type identitySorter struct{}

func (identitySorter) Sort(decls []string) []string {
	return decls
}

// alphabeticalSorter orders declarations lexically by their full text.
type alphabeticalSorter struct{}

func (alphabeticalSorter) Sort(decls []string) []string {
	sorted := slices.Clone(decls)
	slices.SortStableFunc(sorted, strings.Compare)
	return sorted
}

// GroupSorter orders declarations by property classification against table
// of property groups.
type GroupSorter struct {
	groups []PropertyGroup
}

// NewGroupSorter returns sorter using provided table.
func NewGroupSorter(groups []PropertyGroup) *GroupSorter {
	return &GroupSorter{groups: groups}
}

// MatchResult is classification outcome for a single property.
type MatchResult struct {
	Group       int
	Index       int
	Specificity int
}

// Matched returns true if property belongs to some group.
func (m MatchResult) Matched() bool {
	return m.Specificity > matchNone
}

// Classify finds the best matching pattern for property name. Name is
// normalized first: vendor prefix dropped and lower-cased. The most specific
// match wins, ties go to the earliest pattern in the table. Unclassified
// properties are placed after everything else.
func (s *GroupSorter) Classify(property string) MatchResult {
	property = normalizeProperty(property)

	best := MatchResult{Group: len(s.groups), Index: math.MaxInt}
	for gi, g := range s.groups {
		for pi, p := range g.Patterns {
			spec := p.match(property)
			if spec == matchNone || spec <= best.Specificity {
				continue
			}
			best = MatchResult{Group: gi, Index: pi, Specificity: spec}
		}
	}
	return best
}

// Sort implements Sorter. Sort is stable: declarations with the same
// classification keep their source order.
func (s *GroupSorter) Sort(decls []string) []string {
	if len(decls) == 0 {
		return decls
	}

	type keyed struct {
		decl  string
		pos   int
		match MatchResult
	}
	items := make([]keyed, 0, len(decls))
	for i, d := range decls {
		items = append(items, keyed{decl: d, pos: i, match: s.Classify(PropertyName(d))})
	}
	slices.SortFunc(items, func(a, b keyed) int {
		return cmp.Or(
			cmp.Compare(a.match.Group, b.match.Group),
			cmp.Compare(a.match.Index, b.match.Index),
			cmp.Compare(a.pos, b.pos),
		)
	})

	sorted := make([]string, 0, len(items))
	for _, it := range items {
		sorted = append(sorted, it.decl)
	}
	return sorted
}

var vendorPrefix = regexp.MustCompile(`(?i)^-(webkit|moz|ms|o)-`)

// PropertyName returns property part of the declaration: text before first
// colon, trimmed. Case and vendor prefix are preserved.
func PropertyName(decl string) string {
	name, _, _ := strings.Cut(decl, ":")
	return trim(name)
}

func normalizeProperty(name string) string {
	return strings.ToLower(vendorPrefix.ReplaceAllString(trim(name), ""))
}

// SorterFor returns sorter for preset. Custom preset uses provided groups and
// keeps source order when there are none.
func SorterFor(preset common.SortPreset, custom []PropertyGroup) Sorter {
	switch preset {
	case common.SortPresetConcentric:
		return NewGroupSorter(ConcentricGroups)
	case common.SortPresetCategory:
		return NewGroupSorter(CategoryGroups)
	case common.SortPresetAlphabetical:
		return alphabeticalSorter{}
	case common.SortPresetCustom:
		if len(custom) > 0 {
			return NewGroupSorter(custom)
		}
	}
	return identitySorter{}
}
