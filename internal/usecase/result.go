package usecase

import (
	"time"

	"DevInsights/internal/domain"
)

// Result is the outcome of one collection run.
type Result struct {
	Profiles []domain.Profile
	Total    int
	Analyzed int
	Failed   int
	Elapsed  time.Duration
}

// Summarize counts analyzed and failed profiles.
func Summarize(profiles []domain.Profile, elapsed time.Duration) *Result {
	res := &Result{Profiles: profiles, Total: len(profiles), Elapsed: elapsed}
	for _, p := range profiles {
		switch {
		case p.Failed():
			res.Failed++
		case p.AIAnalysis != nil:
			res.Analyzed++
		}
	}
	return res
}
