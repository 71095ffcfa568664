package usecase

import (
	"sort"
	"strings"

	"github.com/xavierca1/hecms/internal/entity"
)

// Criteria filters leads. Empty fields match everything; set fields
// combine with AND.
type Criteria struct {
	Search      string
	Stage       string
	Temperature string
	Program     string
}

func CriteriaFromSnapshot(q entity.QuerySnapshot) Criteria {
	return Criteria{
		Search:      q.Search,
		Stage:       q.Stage,
		Temperature: q.Temperature,
		Program:     q.Program,
	}
}

// FilterLeads returns the leads matching c, in input order. Search is a
// case-insensitive substring match over the concatenated contact fields.
func FilterLeads(leads []entity.Lead, c Criteria) []entity.Lead {
	q := strings.ToLower(c.Search)
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if q != "" && !strings.Contains(searchText(l), q) {
			continue
		}
		if c.Stage != "" && string(l.Stage) != c.Stage {
			continue
		}
		if c.Temperature != "" && string(l.Temperature) != c.Temperature {
			continue
		}
		if c.Program != "" && l.Program != c.Program {
			continue
		}
		out = append(out, l)
	}
	return out
}

func searchText(l entity.Lead) string {
	return strings.ToLower(l.FirstName + l.LastName + l.Email + l.Phone + l.Address + l.Program)
}

// SortLeads returns a sorted copy. Values compare as lowercased strings and
// equal values keep their input order. An empty key means DefaultSort; an
// unknown key compares every lead equal.
func SortLeads(leads []entity.Lead, spec entity.SortSpec) []entity.Lead {
	if spec.Key == "" {
		spec = entity.DefaultSort
	}
	if spec.Dir == "" {
		spec.Dir = entity.SortAsc
	}

	keys := make([]string, len(leads))
	for i, l := range leads {
		v, _ := l.Value(spec.Key)
		keys[i] = strings.ToLower(v)
	}

	idx := make([]int, len(leads))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if spec.Dir == entity.SortDesc {
			return keys[idx[a]] > keys[idx[b]]
		}
		return keys[idx[a]] < keys[idx[b]]
	})

	out := make([]entity.Lead, len(leads))
	for i, j := range idx {
		out[i] = leads[j]
	}
	return out
}

// QueryLeads filters then sorts.
func QueryLeads(leads []entity.Lead, c Criteria, spec entity.SortSpec) []entity.Lead {
	return SortLeads(FilterLeads(leads, c), spec)
}
