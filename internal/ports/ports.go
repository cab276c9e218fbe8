package ports

import (
	"context"
	"time"

	"DevInsights/internal/domain"
)

// BrowserLauncher starts a fresh headless browser session.
type BrowserLauncher interface {
	Launch(ctx context.Context) (BrowserSession, error)
}

// BrowserSession is a single browser tab reused sequentially by one harvest operation.
// Close must be called on every exit path.
type BrowserSession interface {
	// Navigate loads url and waits for network quiescence, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitFor waits until selector matches an element, bounded by timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// HTML returns the rendered document markup.
	HTML(ctx context.Context) (string, error)
	// Location returns the current page URL after redirects.
	Location(ctx context.Context) (string, error)
	Close() error
}

// Throttle is consulted before an outbound call to enforce a minimum delay.
type Throttle interface {
	Wait(ctx context.Context) error
}

// GenerateRequest carries a single free-text prompt and its generation settings.
type GenerateRequest struct {
	Prompt           string
	ResponseMIMEType string
	Temperature      float32
}

// TextGenerator calls a hosted language model and returns the first candidate's text.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// UserSearcher harvests search results for a term.
type UserSearcher interface {
	Harvest(ctx context.Context, searchTerm string, maxPages int) ([]domain.SearchHit, error)
}

// ProfileScraper resolves profile URLs to full profile records, one per URL.
type ProfileScraper interface {
	ScrapeAll(ctx context.Context, urls []string) ([]domain.Profile, error)
}

// ProfileAnalyzer annotates profiles with model-generated insights.
type ProfileAnalyzer interface {
	AnalyzeAll(ctx context.Context, profiles []domain.Profile) []domain.Profile
}

// Scheduler controls when recurring collection runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
