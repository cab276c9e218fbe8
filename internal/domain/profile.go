package domain

import "time"

// SearchHit is a single user entry harvested from a search results page.
type SearchHit struct {
	Username   string `json:"username"`
	ProfileURL string `json:"profileUrl"`
}

// Profile is the canonical record produced for every harvested developer.
type Profile struct {
	Username              *string        `json:"username"`
	DisplayName           *string        `json:"displayName"`
	Bio                   *string        `json:"bio"`
	Location              *string        `json:"location"`
	Company               *string        `json:"company"`
	Website               *string        `json:"website"`
	Email                 *string        `json:"email"`
	ProfileURL            string         `json:"profileUrl"`
	Avatar                *string        `json:"avatar"`
	Followers             int            `json:"followers"`
	Following             int            `json:"following"`
	PublicRepos           int            `json:"publicRepos"`
	ContributionsThisYear int            `json:"contributionsThisYear"`
	CreatedAt             *time.Time     `json:"createdAt"`
	PinnedRepos           []PinnedRepo   `json:"pinnedRepos"`
	Organizations         []Organization `json:"organizations"`
	ScrapedAt             time.Time      `json:"scrapedAt"`
	AIAnalysis            AnalysisResult `json:"aiAnalysis"`
	Error                 *string        `json:"error"`
}

// PinnedRepo is a repository pinned on a profile page, in page order.
type PinnedRepo struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
}

// Organization is an organization badge shown on a profile page.
type Organization struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Avatar string `json:"avatar"`
}

// AnalysisResult is the free-form JSON object returned by the language model.
// Expected keys are skills, techStack, notableContributions and overallSummary.
type AnalysisResult map[string]any

// DegenerateProfile builds the minimal record returned when a profile could not be scraped.
func DegenerateProfile(profileURL string, err error, at time.Time) Profile {
	msg := "unknown scrape failure"
	if err != nil {
		msg = err.Error()
	}
	return Profile{
		ProfileURL: profileURL,
		ScrapedAt:  at.UTC(),
		Error:      &msg,
	}
}

// Failed reports whether a stage recorded an error on the profile.
func (p Profile) Failed() bool {
	return p.Error != nil
}

// WithError returns a copy of the profile marked as failed with msg; the analysis is dropped.
func (p Profile) WithError(msg string) Profile {
	p.AIAnalysis = nil
	p.Error = &msg
	return p
}

// Name returns the best identifier for logs: username, else profile URL.
func (p Profile) Name() string {
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return p.ProfileURL
}
