package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"DevInsights/internal/domain"
	apperrors "DevInsights/internal/errors"
	"DevInsights/internal/extract"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
	"DevInsights/internal/throttle"
)

// SearchHarvester walks GitHub user-search result pages sequentially.
type SearchHarvester struct {
	launcher        ports.BrowserLauncher
	baseURL         string
	defaultMaxPages int
	timeouts        Timeouts
	throttle        ports.Throttle
	logger          *slog.Logger
}

var _ ports.UserSearcher = (*SearchHarvester)(nil)

// SearchOptions configures a SearchHarvester.
type SearchOptions struct {
	BaseURL         string
	DefaultMaxPages int
	Timeouts        Timeouts
	// Throttle runs before every page load; nil means no delay.
	Throttle ports.Throttle
	Logger   *slog.Logger
}

// NewSearchHarvester wires a browser launcher; BaseURL defaults to https://github.com.
func NewSearchHarvester(launcher ports.BrowserLauncher, opts SearchOptions) *SearchHarvester {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = "https://github.com"
	}
	maxPages := opts.DefaultMaxPages
	if maxPages < 1 {
		maxPages = 3
	}
	return &SearchHarvester{
		launcher:        launcher,
		baseURL:         base,
		defaultMaxPages: maxPages,
		timeouts:        opts.Timeouts.orDefault(),
		throttle:        throttle.OrNone(opts.Throttle),
		logger:          logging.OrDiscard(opts.Logger),
	}
}

// Harvest collects users for searchTerm from result pages 1..maxPages.
// Any page failure aborts the whole harvest; an empty accumulation is a no-results error.
// The browser session is closed on every exit path.
func (h *SearchHarvester) Harvest(ctx context.Context, searchTerm string, maxPages int) ([]domain.SearchHit, error) {
	if maxPages < 1 {
		maxPages = h.defaultMaxPages
	}

	session, err := h.launcher.Launch(ctx)
	if err != nil {
		return nil, apperrors.NewInitializationError("failed to initialize browser", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			h.logger.Warn("close browser", "error", cerr)
		}
	}()

	hits := make([]domain.SearchHit, 0)
	seen := map[string]struct{}{}

	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		if err := h.throttle.Wait(ctx); err != nil {
			return nil, apperrors.NewPageLoadError(fmt.Sprintf("interrupted before search page %d", pageNum), err)
		}

		pageHits, err := h.harvestPage(ctx, session, searchTerm, pageNum)
		if err != nil {
			return nil, err
		}

		added := 0
		for _, hit := range pageHits {
			if _, ok := seen[hit.ProfileURL]; ok {
				continue
			}
			seen[hit.ProfileURL] = struct{}{}
			hits = append(hits, hit)
			added++
		}
		h.logger.Info("search page harvested", "page", pageNum, "found", len(pageHits), "new", added)
	}

	h.logger.Info("search harvest done", "term", searchTerm, "pages", maxPages, "users", len(hits))

	if len(hits) == 0 {
		return nil, apperrors.NewNoResultsError(searchTerm)
	}
	return hits, nil
}

func (h *SearchHarvester) harvestPage(ctx context.Context, session ports.BrowserSession, searchTerm string, pageNum int) ([]domain.SearchHit, error) {
	pageURL, err := BuildSearchURL(h.baseURL, searchTerm, pageNum)
	if err != nil {
		return nil, apperrors.NewInternalError("build search url", err)
	}

	h.logger.Debug("load search page", "page", pageNum, "url", pageURL)

	if err := session.Navigate(ctx, pageURL, h.timeouts.Navigation); err != nil {
		return nil, apperrors.NewPageLoadError(fmt.Sprintf("failed to scrape GitHub on page %d", pageNum), err)
	}
	if err := session.WaitFor(ctx, extract.SearchReadySelector, h.timeouts.Selector); err != nil {
		return nil, apperrors.NewPageLoadError(fmt.Sprintf("failed to scrape GitHub on page %d", pageNum), err)
	}

	doc, err := loadDocument(ctx, session)
	if err != nil {
		return nil, apperrors.NewExtractionError(fmt.Sprintf("failed to read search page %d", pageNum), err)
	}

	return extract.SearchHits(doc, parseBase(pageURL))
}

// BuildSearchURL returns the user-search URL for term and a 1-based page number.
func BuildSearchURL(base, term string, pageNum int) (string, error) {
	parsed, err := url.Parse(strings.TrimSuffix(base, "/") + "/search")
	if err != nil {
		return "", fmt.Errorf("invalid search base url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("q", term)
	query.Set("type", "users")
	query.Set("p", strconv.Itoa(pageNum))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
