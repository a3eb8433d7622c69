package author

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// PageSize is the fixed page size for the author collection endpoint.
const PageSize = 20

// Query is a parsed set of author filter parameters, applied eagerly over a
// store-returned row slice. Parsing follows the same permissive policy as
// the book resolver: unknown parameters are ignored, unparsable values skip
// their filter.
type Query struct {
	search         string
	nameStartsWith string

	descending bool
	page       int

	applied map[string]string
}

// ParseQuery builds a Query from raw URL query parameters.
// Supported: search (ci contains on name), name_starts_with (ci prefix),
// ordering (name or -name), page.
func ParseQuery(values url.Values) Query {
	q := Query{page: 1, applied: map[string]string{}}

	if raw := strings.TrimSpace(values.Get("search")); raw != "" {
		q.search = raw
		q.applied["search"] = raw
	}
	if raw := strings.TrimSpace(values.Get("name_starts_with")); raw != "" {
		q.nameStartsWith = raw
		q.applied["name_starts_with"] = raw
	}

	if raw := values.Get("ordering"); raw != "" {
		if strings.TrimPrefix(raw, "-") == "name" {
			q.descending = strings.HasPrefix(raw, "-")
		}
	}

	if raw := values.Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p >= 1 {
			q.page = p
		}
	}

	return q
}

// FiltersApplied reports the filters that were actually applied.
func (q Query) FiltersApplied() map[string]string {
	return q.applied
}

// Apply filters, orders and paginates the author row set. Returns the
// requested page and the total count after filtering; an out-of-range page
// yields an empty page.
func (q Query) Apply(authors []Author) ([]Author, int) {
	filtered := make([]Author, 0, len(authors))
	for _, a := range authors {
		if q.matches(a) {
			filtered = append(filtered, a)
		}
	}

	q.order(filtered)

	total := len(filtered)
	start := (q.page - 1) * PageSize
	if start >= total {
		return []Author{}, total
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

func (q Query) matches(a Author) bool {
	if q.search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(q.search)) {
		return false
	}
	if q.nameStartsWith != "" && !strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(q.nameStartsWith)) {
		return false
	}
	return true
}

// order sorts by name (ascending unless ordering=-name), ranking exact and
// prefix search matches above plain contains when names tie, then id for
// determinism.
func (q Query) order(authors []Author) {
	sort.SliceStable(authors, func(i, j int) bool {
		a, b := authors[i], authors[j]

		if a.Name != b.Name {
			if q.descending {
				return a.Name > b.Name
			}
			return a.Name < b.Name
		}

		if q.search != "" {
			ra, rb := q.searchRank(a), q.searchRank(b)
			if ra != rb {
				return ra < rb
			}
		}

		return a.ID.String() < b.ID.String()
	})
}

func (q Query) searchRank(a Author) int {
	switch {
	case strings.EqualFold(a.Name, q.search):
		return 0
	case strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(q.search)):
		return 1
	default:
		return 2
	}
}
