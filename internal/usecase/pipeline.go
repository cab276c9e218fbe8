package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"DevInsights/internal/domain"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Searcher    ports.UserSearcher
	Scraper     ports.ProfileScraper
	Analyzer    ports.ProfileAnalyzer
	DefaultTerm string
	Logger      *slog.Logger
}

// Query selects what a single run collects. Pages <= 0 uses the searcher's default.
type Query struct {
	SearchTerm string
	Pages      int
}

// Pipeline implements the search, scrape and analyze workflow.
type Pipeline struct {
	searcher    ports.UserSearcher
	scraper     ports.ProfileScraper
	analyzer    ports.ProfileAnalyzer
	defaultTerm string
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	term := strings.TrimSpace(deps.DefaultTerm)
	if term == "" {
		term = "Javascript Developer"
	}
	return &Pipeline{
		searcher:    deps.Searcher,
		scraper:     deps.Scraper,
		analyzer:    deps.Analyzer,
		defaultTerm: term,
		logger:      logging.OrDiscard(deps.Logger),
	}
}

// DefaultTerm is the search term used when a query leaves it empty.
func (p *Pipeline) DefaultTerm() string {
	return p.defaultTerm
}

// CollectUserInsights runs the full workflow for searchTerm with the default page count.
func (p *Pipeline) CollectUserInsights(ctx context.Context, searchTerm string) ([]domain.Profile, error) {
	return p.Run(ctx, Query{SearchTerm: searchTerm})
}

// Run harvests search hits, scrapes every profile and annotates them with model analysis.
// Harvest failures are returned unchanged; per-profile failures are recorded on the profiles.
func (p *Pipeline) Run(ctx context.Context, q Query) ([]domain.Profile, error) {
	term := strings.TrimSpace(q.SearchTerm)
	if term == "" {
		term = p.defaultTerm
	}

	logger := p.logger.With("run_id", uuid.NewString(), "term", term)
	logger.Info("collect started", "pages", q.Pages)

	hits, err := p.searcher.Harvest(ctx, term, q.Pages)
	if err != nil {
		logger.Error("search harvest failed", "error", err)
		return nil, err
	}

	urls := make([]string, 0, len(hits))
	for _, hit := range hits {
		urls = append(urls, hit.ProfileURL)
	}
	logger.Info("search harvest complete", "users", len(urls))

	profiles, err := p.scraper.ScrapeAll(ctx, urls)
	if err != nil {
		logger.Error("profile harvest failed", "error", err)
		return nil, err
	}

	failed := 0
	for _, profile := range profiles {
		if profile.Failed() {
			failed++
		}
	}
	logger.Info("profile harvest complete", "profiles", len(profiles), "failed", failed)

	if p.analyzer != nil {
		profiles = p.analyzer.AnalyzeAll(ctx, profiles)
	}

	logger.Info("collect finished", "profiles", len(profiles))
	return profiles, nil
}
