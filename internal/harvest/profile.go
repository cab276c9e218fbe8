package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DevInsights/internal/domain"
	apperrors "DevInsights/internal/errors"
	"DevInsights/internal/extract"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
	"DevInsights/internal/throttle"
)

// ProfileHarvester visits profile pages one after another and extracts a Profile from each.
type ProfileHarvester struct {
	launcher ports.BrowserLauncher
	timeouts Timeouts
	throttle ports.Throttle
	now      func() time.Time
	logger   *slog.Logger
}

var _ ports.ProfileScraper = (*ProfileHarvester)(nil)

// ProfileOptions configures a ProfileHarvester.
type ProfileOptions struct {
	Timeouts Timeouts
	// Throttle runs between consecutive profile visits; nil means no delay.
	Throttle ports.Throttle
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewProfileHarvester wires a browser launcher with per-visit throttling.
func NewProfileHarvester(launcher ports.BrowserLauncher, opts ProfileOptions) *ProfileHarvester {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ProfileHarvester{
		launcher: launcher,
		timeouts: opts.Timeouts.orDefault(),
		throttle: throttle.OrNone(opts.Throttle),
		now:      now,
		logger:   logging.OrDiscard(opts.Logger),
	}
}

// ScrapeOne scrapes a single profile in its own browser session. It never fails:
// every problem, including a browser launch failure, becomes a degenerate record.
func (h *ProfileHarvester) ScrapeOne(ctx context.Context, profileURL string) domain.Profile {
	session, err := h.launcher.Launch(ctx)
	if err != nil {
		h.logger.Error("launch browser", "url", profileURL, "error", err)
		return domain.DegenerateProfile(profileURL, fmt.Errorf("failed to initialize browser: %w", err), h.now())
	}
	defer h.closeSession(session)

	return h.scrape(ctx, session, profileURL)
}

// ScrapeAll scrapes urls in order over one browser session and returns exactly one record per URL.
// Only a browser launch failure is returned as an error.
func (h *ProfileHarvester) ScrapeAll(ctx context.Context, urls []string) ([]domain.Profile, error) {
	profiles := make([]domain.Profile, 0, len(urls))
	if len(urls) == 0 {
		return profiles, nil
	}

	session, err := h.launcher.Launch(ctx)
	if err != nil {
		return nil, apperrors.NewInitializationError("failed to initialize browser", err)
	}
	defer h.closeSession(session)

	for i, profileURL := range urls {
		if i > 0 {
			if err := h.throttle.Wait(ctx); err != nil {
				h.logger.Warn("profile throttle interrupted", "error", err)
			}
		}

		h.logger.Info("processing profile", "index", i+1, "total", len(urls), "url", profileURL)
		profiles = append(profiles, h.scrape(ctx, session, profileURL))
	}

	return profiles, nil
}

func (h *ProfileHarvester) scrape(ctx context.Context, session ports.BrowserSession, profileURL string) domain.Profile {
	profile, err := h.scrapeProfile(ctx, session, profileURL)
	if err != nil {
		h.logger.Error("scrape profile", "url", profileURL, "error", err)
		return domain.DegenerateProfile(profileURL, err, h.now())
	}

	h.logger.Info("profile scraped", "user", profile.Name())
	return profile
}

func (h *ProfileHarvester) scrapeProfile(ctx context.Context, session ports.BrowserSession, profileURL string) (domain.Profile, error) {
	if profileURL == "" {
		return domain.Profile{}, errors.New("empty profile url")
	}

	if err := session.Navigate(ctx, profileURL, h.timeouts.Navigation); err != nil {
		return domain.Profile{}, fmt.Errorf("load profile page: %w", err)
	}
	if err := session.WaitFor(ctx, extract.ProfileReadySelector, h.timeouts.Selector); err != nil {
		return domain.Profile{}, fmt.Errorf("profile page not ready: %w", err)
	}

	pageURL, err := session.Location(ctx)
	if err != nil || pageURL == "" {
		pageURL = profileURL
	}

	doc, err := loadDocument(ctx, session)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read profile page: %w", err)
	}

	profile := extract.ProfileFromDocument(doc, pageURL)
	profile.ScrapedAt = h.now().UTC()
	return profile, nil
}

func (h *ProfileHarvester) closeSession(session ports.BrowserSession) {
	if err := session.Close(); err != nil {
		h.logger.Warn("close browser", "error", err)
	}
}
