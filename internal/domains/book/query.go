package book

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PageSize is the fixed page size for collection endpoints.
const PageSize = 20

// Ordering fields accepted by the `ordering` parameter, with or without a
// leading "-" for descending.
var allowedOrderings = map[string]bool{
	"title":            true,
	"publication_year": true,
	"author_name":      true,
}

// Query is a parsed, validated set of book filter parameters. It is applied
// eagerly over a store-returned row slice, so ordering and pagination are
// deterministic and independent of evaluation timing.
//
// Parsing is deliberately permissive: unknown parameter names are ignored and
// a value that fails to parse as its expected type skips that filter rather
// than aborting the request.
type Query struct {
	authorID        *uuid.UUID
	publicationYear *int
	yearAfter       *int
	yearBefore      *int
	title           string
	titleExact      string
	titleStartsWith string
	authorName      string
	search          string

	ordering   string
	descending bool
	page       int

	applied map[string]string
}

// ParseQuery builds a Query from raw URL query parameters.
func ParseQuery(values url.Values) Query {
	q := Query{page: 1, applied: map[string]string{}}

	if raw := values.Get("author"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			q.authorID = &id
			q.applied["author"] = raw
		}
	}
	q.publicationYear = parseIntParam(values, "publication_year", q.applied)
	q.yearAfter = parseIntParam(values, "year_after", q.applied)
	q.yearBefore = parseIntParam(values, "year_before", q.applied)

	q.title = stringParam(values, "title", q.applied)
	q.titleExact = stringParam(values, "title_exact", q.applied)
	q.titleStartsWith = stringParam(values, "title_starts_with", q.applied)
	q.authorName = stringParam(values, "author_name", q.applied)
	q.search = stringParam(values, "search", q.applied)

	if raw := values.Get("ordering"); raw != "" {
		field := strings.TrimPrefix(raw, "-")
		if allowedOrderings[field] {
			q.ordering = field
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

func parseIntParam(values url.Values, name string, applied map[string]string) *int {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Documented permissive policy: unparsable filter values are skipped.
		return nil
	}
	applied[name] = raw
	return &n
}

func stringParam(values url.Values, name string, applied map[string]string) string {
	raw := strings.TrimSpace(values.Get(name))
	if raw != "" {
		applied[name] = raw
	}
	return raw
}

// FiltersApplied reports the filters that were actually applied, for the
// list endpoint's filters_applied field.
func (q Query) FiltersApplied() map[string]string {
	return q.applied
}

// Apply filters, orders and paginates the given row set. authorNames maps
// author id to name for the author_name and search filters. Returns the
// requested page and the total count after filtering; an out-of-range page
// yields an empty page, not an error.
func (q Query) Apply(books []Book, authorNames map[uuid.UUID]string) ([]Book, int) {
	filtered := make([]Book, 0, len(books))
	for _, b := range books {
		if q.matches(b, authorNames) {
			filtered = append(filtered, b)
		}
	}

	q.order(filtered, authorNames)

	total := len(filtered)
	start := (q.page - 1) * PageSize
	if start >= total {
		return []Book{}, total
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

// matches composes filter kinds with AND; the search filter ORs across title
// and author name.
func (q Query) matches(b Book, authorNames map[uuid.UUID]string) bool {
	if q.authorID != nil && b.AuthorID != *q.authorID {
		return false
	}
	if q.publicationYear != nil && b.PublicationYear != *q.publicationYear {
		return false
	}
	if q.yearAfter != nil && b.PublicationYear <= *q.yearAfter {
		return false
	}
	if q.yearBefore != nil && b.PublicationYear >= *q.yearBefore {
		return false
	}
	if q.title != "" && !containsFold(b.Title, q.title) {
		return false
	}
	if q.titleExact != "" && !strings.EqualFold(b.Title, q.titleExact) {
		return false
	}
	if q.titleStartsWith != "" && !hasPrefixFold(b.Title, q.titleStartsWith) {
		return false
	}
	if q.authorName != "" && !containsFold(authorNames[b.AuthorID], q.authorName) {
		return false
	}
	if q.search != "" {
		if !containsFold(b.Title, q.search) && !containsFold(authorNames[b.AuthorID], q.search) {
			return false
		}
	}
	return true
}

// order sorts the filtered rows. Primary key is the requested ordering field
// (title ascending when unspecified). Rows that tie on the primary key are
// ranked by search match quality (exact, then prefix, then plain contains)
// and finally by title then id, keeping the result stable and deterministic.
func (q Query) order(books []Book, authorNames map[uuid.UUID]string) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]

		if c := q.comparePrimary(a, b, authorNames); c != 0 {
			if q.descending {
				return c > 0
			}
			return c < 0
		}

		if q.search != "" {
			ra, rb := q.searchRank(a, authorNames), q.searchRank(b, authorNames)
			if ra != rb {
				return ra < rb
			}
		}

		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID.String() < b.ID.String()
	})
}

func (q Query) comparePrimary(a, b Book, authorNames map[uuid.UUID]string) int {
	switch q.ordering {
	case "publication_year":
		return a.PublicationYear - b.PublicationYear
	case "author_name":
		return strings.Compare(authorNames[a.AuthorID], authorNames[b.AuthorID])
	default:
		// Tie-break rule: unspecified ordering means title ascending.
		return strings.Compare(a.Title, b.Title)
	}
}

// searchRank scores how well a row matches the search term: 0 exact,
// 1 prefix, 2 plain contains.
func (q Query) searchRank(b Book, authorNames map[uuid.UUID]string) int {
	name := authorNames[b.AuthorID]
	switch {
	case strings.EqualFold(b.Title, q.search) || strings.EqualFold(name, q.search):
		return 0
	case hasPrefixFold(b.Title, q.search) || hasPrefixFold(name, q.search):
		return 1
	default:
		return 2
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
