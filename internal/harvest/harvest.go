// Package harvest drives a browser session across GitHub pages and turns them into domain records.
package harvest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DevInsights/internal/ports"
)

// Timeouts bound the two browser suspension points of every page visit.
type Timeouts struct {
	Navigation time.Duration
	Selector   time.Duration
}

// DefaultTimeouts are 30s for page loads and 10s for ready selectors.
func DefaultTimeouts() Timeouts {
	return Timeouts{Navigation: 30 * time.Second, Selector: 10 * time.Second}
}

func (t Timeouts) orDefault() Timeouts {
	def := DefaultTimeouts()
	if t.Navigation <= 0 {
		t.Navigation = def.Navigation
	}
	if t.Selector <= 0 {
		t.Selector = def.Selector
	}
	return t
}

// loadDocument reads the rendered page and parses it for extraction.
func loadDocument(ctx context.Context, session ports.BrowserSession) (*goquery.Document, error) {
	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func parseBase(raw string) *url.URL {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return parsed
}
