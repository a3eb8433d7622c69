package book

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// TopAuthorCount limits the most_prolific_authors ranking.
const TopAuthorCount = 5

// Statistics is the aggregate computed over the full current book collection,
// ignoring any page/filter context. It is recomputed fresh on every request.
type Statistics struct {
	TotalBooks   int `json:"total_books"`
	TotalAuthors int `json:"total_authors"`
	// BooksPerDecade groups by floor(publication_year/10)*10 labelled as
	// "1990s"; decades with zero books are omitted.
	BooksPerDecade      map[string]int   `json:"books_per_decade"`
	MostProlificAuthors []ProlificAuthor `json:"most_prolific_authors"`
}

type ProlificAuthor struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Name      string    `json:"name"`
	BookCount int       `json:"book_count"`
}

// Aggregate computes the statistics from the full book collection and the
// full author collection. total_authors is the count of author rows in the
// store, independent of whether they have books. Pure function, no side
// effects.
func Aggregate(books []Book, authors []AuthorRef) *Statistics {
	stats := &Statistics{
		TotalBooks:     len(books),
		TotalAuthors:   len(authors),
		BooksPerDecade: make(map[string]int),
	}

	counts := make(map[uuid.UUID]int)
	for _, b := range books {
		decade := (b.PublicationYear / 10) * 10
		stats.BooksPerDecade[fmt.Sprintf("%ds", decade)]++
		counts[b.AuthorID]++
	}

	// Authors with zero books never appear in the ranking.
	ranked := make([]ProlificAuthor, 0, len(counts))
	for _, a := range authors {
		if n := counts[a.ID]; n > 0 {
			ranked = append(ranked, ProlificAuthor{AuthorID: a.ID, Name: a.Name, BookCount: n})
		}
	}

	// Descending book count, ties by ascending name.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].BookCount != ranked[j].BookCount {
			return ranked[i].BookCount > ranked[j].BookCount
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > TopAuthorCount {
		ranked = ranked[:TopAuthorCount]
	}
	stats.MostProlificAuthors = ranked

	return stats
}
