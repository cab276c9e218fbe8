package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"DevInsights/internal/domain"
	apperrors "DevInsights/internal/errors"
)

const (
	// SearchReadySelector marks a rendered search results page.
	SearchReadySelector = `[data-testid="results-list"]`

	searchTitleSelector = `[data-testid="results-list"] .search-title`
)

// SearchHits extracts every result title as a SearchHit in page order.
// Entries lacking a username or link are skipped; an unparseable link is an extraction failure.
func SearchHits(doc *goquery.Document, base *url.URL) ([]domain.SearchHit, error) {
	var (
		hits   []domain.SearchHit
		failed error
	)

	doc.Find(searchTitleSelector).EachWithBreak(func(i int, title *goquery.Selection) bool {
		link := title.Find("a").First()
		if link.Length() == 0 {
			return true
		}

		username := strings.TrimSpace(link.Text())
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if username == "" || !ok || href == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			failed = apperrors.NewExtractionError(fmt.Sprintf("invalid profile link in result %d", i+1), err)
			return false
		}
		profileURL := ref.String()
		if base != nil {
			profileURL = base.ResolveReference(ref).String()
		}

		hits = append(hits, domain.SearchHit{Username: username, ProfileURL: profileURL})
		return true
	})

	if failed != nil {
		return nil, failed
	}
	return hits, nil
}
