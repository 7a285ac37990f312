package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Navigate loads a URL on the session's page, waiting for DOMContentLoaded
// bounded by the session timeout.
func (s *Session) Navigate(url string) error {
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(s.timeoutMs),
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// URL returns the page's current URL, or "unknown" if the page is gone.
func (s *Session) URL() string {
	if s.Page == nil {
		return "unknown"
	}
	return s.Page.URL()
}

// TimeoutMs exposes the per-operation bound for callers that log it.
func (s *Session) TimeoutMs() float64 { return s.timeoutMs }

// Close releases the page, context and browser of this session.
func (s *Session) Close() {
	if s.Page != nil {
		_ = s.Page.Close()
	}
	if s.Context != nil {
		_ = s.Context.Close()
	}
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
}
