package core

import (
	"fmt"
	"sort"
)

// Reasons recorded for unresolved rows.
const (
	ReasonNotFound = "no matching record"
	ReasonNoKey    = "no key supplied"
)

// UnresolvedRow describes one reference of a row that could not be resolved.
type UnresolvedRow struct {
	File   string
	Line   int
	Field  string // CSV header (or column) the key came from
	Domain Domain
	Key    string
	Reason string
}

func (u UnresolvedRow) String() string {
	key := u.Key
	if key == "" {
		key = "(empty)"
	}
	return fmt.Sprintf("%s:%d %s %s %q: %s", u.File, u.Line, u.Field, u.Domain, key, u.Reason)
}

// Report lists the unresolved references of a batch in row order.
type Report []UnresolvedRow

// Rows returns the number of distinct source lines in the report.
func (r Report) Rows() int {
	lines := make(map[string]struct{}, len(r))
	for _, u := range r {
		lines[fmt.Sprintf("%s:%d", u.File, u.Line)] = struct{}{}
	}
	return len(lines)
}

// Keys returns the distinct unresolved keys, sorted.
func (r Report) Keys() []string {
	seen := make(map[string]struct{}, len(r))
	var keys []string
	for _, u := range r {
		if _, ok := seen[u.Key]; ok {
			continue
		}
		seen[u.Key] = struct{}{}
		keys = append(keys, u.Key)
	}
	sort.Strings(keys)
	return keys
}

// CountByDomain returns the number of unresolved references per domain.
func (r Report) CountByDomain() map[Domain]int {
	counts := make(map[Domain]int)
	for _, u := range r {
		counts[u.Domain]++
	}
	return counts
}
