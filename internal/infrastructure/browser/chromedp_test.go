package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DevInsights/internal/config"
)

func TestIdleTrackerIgnoresOtherLoaders(t *testing.T) {
	t.Parallel()

	tracker := newIdleTracker()
	tracker.observe(&page.EventLifecycleEvent{FrameID: "main", LoaderID: "old", Name: networkIdleEvent})
	tracker.observe(&page.EventLifecycleEvent{FrameID: "child", LoaderID: "new", Name: networkIdleEvent})
	tracker.observe(&page.EventLifecycleEvent{FrameID: "main", LoaderID: "new", Name: "load"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tracker.wait(ctx, "main", "new"), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- tracker.wait(context.Background(), "main", "new") }()
	tracker.observe(&page.EventLifecycleEvent{FrameID: "main", LoaderID: "new", Name: networkIdleEvent})

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("idle event for the new loader was not observed")
	}
}

func TestIdleTrackerEventBeforeWait(t *testing.T) {
	t.Parallel()

	tracker := newIdleTracker()
	tracker.observe(&page.EventLifecycleEvent{FrameID: "main", LoaderID: "l1", Name: networkIdleEvent})
	assert.NoError(t, tracker.wait(context.Background(), "main", "l1"))
}

func TestViewportDefaults(t *testing.T) {
	t.Parallel()

	l := NewLauncher(config.BrowserConfig{}, nil)
	w, h := l.viewport()
	assert.Equal(t, int64(1366), w)
	assert.Equal(t, int64(768), h)

	l = NewLauncher(config.BrowserConfig{ViewportWidth: 800, ViewportHeight: 600}, nil)
	w, h = l.viewport()
	assert.Equal(t, int64(800), w)
	assert.Equal(t, int64(600), h)
}

func TestAllocatorOptionsIncludeOverrides(t *testing.T) {
	t.Parallel()

	base := len(NewLauncher(config.BrowserConfig{}, nil).allocatorOptions())
	full := len(NewLauncher(config.BrowserConfig{UserAgent: "ua", ExecPath: "/usr/bin/chromium"}, nil).allocatorOptions())
	assert.Equal(t, base+2, full)
}

// Runs against a real Chrome; enable with DEVINSIGHTS_BROWSER_TESTS=1.
func TestSessionAgainstLocalPage(t *testing.T) {
	if os.Getenv("DEVINSIGHTS_BROWSER_TESTS") != "1" {
		t.Skip("set DEVINSIGHTS_BROWSER_TESTS=1 to drive a real Chrome")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div data-testid="results-list"><div class="search-title"><a href="/ada">ada</a></div></div></body></html>`))
	}))
	defer server.Close()

	cfg := config.Default().Browser
	cfg.ExecPath = os.Getenv("CHROME_PATH")

	session, err := NewLauncher(cfg, nil).Launch(context.Background())
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, server.URL+"/search", 30*time.Second))
	require.NoError(t, session.WaitFor(ctx, `[data-testid="results-list"]`, 10*time.Second))

	html, err := session.HTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, `href="/ada"`)

	location, err := session.Location(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/search", location)

	assert.NoError(t, session.Close())
	assert.NoError(t, session.Close())
}
