package harvest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "DevInsights/internal/errors"
)

const testBase = "https://github.test"

func searchPage(users ...string) string {
	html := `<html><body><div data-testid="results-list">`
	for _, u := range users {
		html += fmt.Sprintf(`<div><div class="search-title"><a href="/%s">%s</a></div></div>`, u, u)
	}
	return html + `</div></body></html>`
}

func searchURL(t *testing.T, term string, page int) string {
	t.Helper()

	u, err := BuildSearchURL(testBase, term, page)
	require.NoError(t, err)
	return u
}

func TestBuildSearchURL(t *testing.T) {
	t.Parallel()

	u, err := BuildSearchURL("https://github.com/", "rust developer", 2)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/search?p=2&q=rust+developer&type=users", u)
}

func TestHarvestCollectsPagesInOrder(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(map[string]string{
		searchURL(t, "rust developer", 1): searchPage("ferris", "crab"),
		searchURL(t, "rust developer", 2): searchPage("oxide", "ferris"),
	})
	th := &countingThrottle{}
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase, Throttle: th})

	hits, err := h.Harvest(context.Background(), "rust developer", 2)
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, "ferris", hits[0].Username)
	assert.Equal(t, testBase+"/ferris", hits[0].ProfileURL)
	assert.Equal(t, "crab", hits[1].Username)
	assert.Equal(t, "oxide", hits[2].Username)

	assert.Equal(t, 2, th.calls)
	require.Len(t, launcher.sessions, 1)
	assert.Len(t, launcher.sessions[0].visited, 2)
	assert.True(t, launcher.allClosed())
}

func TestHarvestUsesDefaultPages(t *testing.T) {
	t.Parallel()

	pages := map[string]string{}
	for p := 1; p <= 3; p++ {
		pages[searchURL(t, "go", p)] = searchPage(fmt.Sprintf("gopher%d", p))
	}
	launcher := newFakeLauncher(pages)
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase})

	hits, err := h.Harvest(context.Background(), "go", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
	assert.Len(t, launcher.sessions[0].visited, 3)
}

func TestHarvestPageFailureAbortsEverything(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(map[string]string{
		searchURL(t, "go", 1): searchPage("gopher"),
	})
	launcher.navErrors[searchURL(t, "go", 2)] = errors.New("net::ERR_TIMED_OUT")
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase})

	hits, err := h.Harvest(context.Background(), "go", 3)
	require.Error(t, err)
	assert.Nil(t, hits)
	assert.True(t, apperrors.Is(err, apperrors.KindPageLoad))
	assert.Contains(t, err.Error(), "page 2")
	assert.Len(t, launcher.sessions[0].visited, 2)
	assert.True(t, launcher.allClosed())
}

func TestHarvestMissingResultsListIsPageLoadError(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(map[string]string{})
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase})

	_, err := h.Harvest(context.Background(), "go", 1)
	assert.True(t, apperrors.Is(err, apperrors.KindPageLoad))
	assert.True(t, launcher.allClosed())
}

func TestHarvestNoResults(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(map[string]string{
		searchURL(t, "zzqx", 1): searchPage(),
	})
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase})

	_, err := h.Harvest(context.Background(), "zzqx", 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNoResults, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "zzqx")
	assert.True(t, launcher.allClosed())
}

func TestHarvestLaunchFailure(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(nil)
	launcher.launchErr = errors.New("chrome not found")
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase})

	_, err := h.Harvest(context.Background(), "go", 1)
	assert.True(t, apperrors.Is(err, apperrors.KindInitialization))
	assert.ErrorContains(t, err, "chrome not found")
}

func TestHarvestStopsWhenThrottleInterrupted(t *testing.T) {
	t.Parallel()

	launcher := newFakeLauncher(map[string]string{})
	th := &countingThrottle{err: context.Canceled}
	h := NewSearchHarvester(launcher, SearchOptions{BaseURL: testBase, Throttle: th})

	_, err := h.Harvest(context.Background(), "go", 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, launcher.sessions[0].visited)
	assert.True(t, launcher.allClosed())
}
