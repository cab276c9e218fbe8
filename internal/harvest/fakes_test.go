package harvest

import (
	"context"
	"errors"
	"sync"
	"time"

	"DevInsights/internal/ports"
)

type fakeLauncher struct {
	mu        sync.Mutex
	pages     map[string]string
	navErrors map[string]error
	waitErr   map[string]error
	launchErr error
	sessions  []*fakeSession
}

func newFakeLauncher(pages map[string]string) *fakeLauncher {
	return &fakeLauncher{
		pages:     pages,
		navErrors: map[string]error{},
		waitErr:   map[string]error{},
	}
}

func (l *fakeLauncher) Launch(context.Context) (ports.BrowserSession, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.launchErr != nil {
		return nil, l.launchErr
	}
	s := &fakeSession{launcher: l}
	l.sessions = append(l.sessions, s)
	return s, nil
}

func (l *fakeLauncher) allClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.sessions {
		if s.closed != 1 {
			return false
		}
	}
	return true
}

type fakeSession struct {
	launcher *fakeLauncher
	current  string
	visited  []string
	closed   int
}

func (s *fakeSession) Navigate(_ context.Context, url string, _ time.Duration) error {
	s.visited = append(s.visited, url)
	if err := s.launcher.navErrors[url]; err != nil {
		return err
	}
	s.current = url
	return nil
}

func (s *fakeSession) WaitFor(_ context.Context, _ string, _ time.Duration) error {
	if err := s.launcher.waitErr[s.current]; err != nil {
		return err
	}
	if _, ok := s.launcher.pages[s.current]; !ok {
		return errors.New("waiting for selector: context deadline exceeded")
	}
	return nil
}

func (s *fakeSession) HTML(context.Context) (string, error) {
	html, ok := s.launcher.pages[s.current]
	if !ok {
		return "", errors.New("no document")
	}
	return html, nil
}

func (s *fakeSession) Location(context.Context) (string, error) {
	return s.current, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type countingThrottle struct {
	calls int
	err   error
}

func (c *countingThrottle) Wait(context.Context) error {
	c.calls++
	return c.err
}
