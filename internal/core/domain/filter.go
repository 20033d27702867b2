package domain

import "strings"

// NameFilter restricts which leaf assets are harvested. It is parsed
// from a comma-separated term list; every term must match the asset
// name as a case-insensitive substring.
type NameFilter struct {
	terms []string
}

// ParseNameFilter builds a filter from a comma-separated term list.
// Blank terms are discarded, so "" and ", ," both yield a filter that
// matches everything.
func ParseNameFilter(s string) NameFilter {
	var terms []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, strings.ToLower(t))
		}
	}
	return NameFilter{terms: terms}
}

// Matches reports whether every filter term appears in name.
func (f NameFilter) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, t := range f.terms {
		if !strings.Contains(lower, t) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the filter has no terms.
func (f NameFilter) IsEmpty() bool {
	return len(f.terms) == 0
}

// Canonical returns a normalised form of the filter suitable for
// hashing into a run identifier: lowercased terms joined by commas.
func (f NameFilter) Canonical() string {
	return strings.Join(f.terms, ",")
}

// ContainerExclusion skips containers whose name matches a configured
// substring, checked before any fetch of the container's contents.
type ContainerExclusion struct {
	substrings []string
}

// NewContainerExclusion builds an exclusion policy from substrings.
// Blank entries are discarded.
func NewContainerExclusion(substrings ...string) ContainerExclusion {
	var subs []string
	for _, s := range substrings {
		s = strings.TrimSpace(s)
		if s != "" {
			subs = append(subs, strings.ToLower(s))
		}
	}
	return ContainerExclusion{substrings: subs}
}

// Excludes reports whether a container with the given name should be
// skipped, case-insensitively.
func (e ContainerExclusion) Excludes(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range e.substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
