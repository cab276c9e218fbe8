package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"DevInsights/internal/config"
	"DevInsights/internal/logging"
	"DevInsights/internal/ports"
)

// networkIdleEvent fires once no more than two connections remain open for 500ms.
const networkIdleEvent = "networkAlmostIdle"

// Launcher starts headless Chrome processes through chromedp.
type Launcher struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

var _ ports.BrowserLauncher = (*Launcher)(nil)

// NewLauncher wires browser settings; every Launch spawns a new process.
func NewLauncher(cfg config.BrowserConfig, logger *slog.Logger) *Launcher {
	return &Launcher{cfg: cfg, logger: logging.OrDiscard(logger)}
}

// Launch starts a sandbox-less headless Chrome with the configured user agent and viewport.
// The process outlives ctx; callers release it with Session.Close.
func (l *Launcher) Launch(ctx context.Context) (ports.BrowserSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), l.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	session := &Session{
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		logger:      l.logger,
	}

	// The first Run allocates the browser and must use the tab context itself;
	// a derived deadline would tear the process down when it expires.
	if err := chromedp.Run(tabCtx); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	width, height := l.viewport()
	setupCtx, cancel := session.runContext(ctx, l.cfg.NavigationTimeout)
	defer cancel()

	if err := chromedp.Run(setupCtx,
		chromedp.EmulateViewport(width, height),
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate("about:blank"),
	); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("configure tab: %w", err)
	}

	l.logger.Debug("browser launched", "headless", l.cfg.Headless, "viewport", fmt.Sprintf("%dx%d", width, height))
	return session, nil
}

func (l *Launcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	width, height := l.viewport()
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(width, height),
	)
	if l.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.cfg.UserAgent))
	}
	if l.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.cfg.ExecPath))
	}
	return opts
}

func (l *Launcher) viewport() (int64, int64) {
	width, height := int64(l.cfg.ViewportWidth), int64(l.cfg.ViewportHeight)
	if width <= 0 || height <= 0 {
		return 1366, 768
	}
	return width, height
}

// Session is one Chrome tab driven sequentially.
type Session struct {
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	logger      *slog.Logger
	closeOnce   sync.Once
}

var _ ports.BrowserSession = (*Session)(nil)

// Navigate loads url and waits until the network is almost idle for the new document.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	runCtx, cancel := s.runContext(ctx, timeout)
	defer cancel()

	tracker := newIdleTracker()
	chromedp.ListenTarget(runCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok {
			tracker.observe(e)
		}
	})

	var (
		frameID  cdp.FrameID
		loaderID cdp.LoaderID
	)
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var (
			errorText string
			err       error
		)
		frameID, loaderID, errorText, _, err = page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	if err := tracker.wait(runCtx, frameID, loaderID); err != nil {
		return fmt.Errorf("navigate %s: waiting for network idle: %w", url, err)
	}
	return nil
}

// idleTracker records network-idle lifecycle events per frame and loader so a late event
// from a previous document cannot satisfy the wait for a new one.
type idleTracker struct {
	mu     sync.Mutex
	seen   map[idleKey]struct{}
	notify chan struct{}
}

type idleKey struct {
	frame  cdp.FrameID
	loader cdp.LoaderID
}

func newIdleTracker() *idleTracker {
	return &idleTracker{seen: map[idleKey]struct{}{}, notify: make(chan struct{}, 1)}
}

func (t *idleTracker) observe(e *page.EventLifecycleEvent) {
	if e.Name != networkIdleEvent {
		return
	}

	t.mu.Lock()
	t.seen[idleKey{frame: e.FrameID, loader: e.LoaderID}] = struct{}{}
	t.mu.Unlock()

	select {
	case t.notify <- struct{}{}:
	default:
	}
}

func (t *idleTracker) reached(frame cdp.FrameID, loader cdp.LoaderID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[idleKey{frame: frame, loader: loader}]
	return ok
}

// wait blocks until the frame reports network idle for loader or ctx ends.
func (t *idleTracker) wait(ctx context.Context, frame cdp.FrameID, loader cdp.LoaderID) error {
	for !t.reached(frame, loader) {
		select {
		case <-t.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// WaitFor blocks until selector matches an element in the document.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := s.runContext(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

// HTML returns the outer markup of the rendered document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.runContext(ctx, 0)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

// Location returns window.location.href of the tab.
func (s *Session) Location(ctx context.Context) (string, error) {
	runCtx, cancel := s.runContext(ctx, 0)
	defer cancel()

	var location string
	if err := chromedp.Run(runCtx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return location, nil
}

// Close shuts the browser down and kills the process. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = chromedp.Cancel(s.ctx)
		s.tabCancel()
		s.allocCancel()
		s.logger.Debug("browser closed")
	})
	return err
}

// runContext derives a context from the tab that also ends when the caller's ctx ends.
// A zero timeout means no extra deadline.
func (s *Session) runContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(s.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(s.ctx)
	}

	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
