package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// refSelector addresses the live node tagged during the last snapshot.
func refSelector(refID int) string {
	return fmt.Sprintf("[data-ref-id='ref-%d']", refID)
}

// Click clicks the element addressed by refID.
//
// The first attempt relies on Playwright's built-in actionability waiting,
// bounded by the session timeout. If the element sits outside the viewport,
// the smart-scroll ladder runs (center the element, then page top, then
// page bottom) and the click is retried, with a force click as the last
// resort. Any failure comes back as an *ActionError value.
func (s *Session) Click(refID int) error {
	locator := s.Page.Locator(refSelector(refID))

	err := locator.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(s.timeoutMs)})
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "outside of the viewport") {
		s.ensureVisible(locator)
		err = locator.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(s.timeoutMs)})
		if err == nil {
			return nil
		}
		err = locator.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(s.timeoutMs),
			Force:   playwright.Bool(true),
		})
		if err == nil {
			return nil
		}
	}

	return &ActionError{Kind: classify(err), Op: "click", RefID: refID, Err: err}
}

// TypeText clears the element addressed by refID, fills it with text, and
// submits by pressing Enter. Each step is bounded by the session timeout.
func (s *Session) TypeText(refID int, text string) error {
	locator := s.Page.Locator(refSelector(refID))
	opts := playwright.LocatorFillOptions{Timeout: playwright.Float(s.timeoutMs)}

	if err := locator.Fill("", opts); err != nil {
		return &ActionError{Kind: classify(err), Op: "type_text", RefID: refID, Err: fmt.Errorf("clearing field: %w", err)}
	}
	if err := locator.Fill(text, opts); err != nil {
		return &ActionError{Kind: classify(err), Op: "type_text", RefID: refID, Err: fmt.Errorf("filling field: %w", err)}
	}
	if err := locator.Press("Enter", playwright.LocatorPressOptions{Timeout: playwright.Float(s.timeoutMs)}); err != nil {
		return &ActionError{Kind: classify(err), Op: "type_text", RefID: refID, Err: fmt.Errorf("submitting with Enter: %w", err)}
	}
	return nil
}

// ensureVisible tries to bring the element into the viewport. Playwright
// scrolls on its own for most cases, but elements under sticky headers or
// revealed only at the page extremes need help. Strategies run in order:
// center the element, scroll to the top, scroll to the bottom. Scroll
// failures are swallowed; the retried click decides the final outcome.
func (s *Session) ensureVisible(locator playwright.Locator) {
	strategies := []func(){
		func() { _, _ = locator.Evaluate(centerElementJS, nil) },
		func() { _, _ = s.Page.Evaluate(scrollTopScript) },
		func() { _, _ = s.Page.Evaluate(scrollBottomScript) },
	}

	for _, scroll := range strategies {
		if s.inViewport(locator) {
			return
		}
		scroll()
		// Give the layout a moment to settle after scrolling.
		time.Sleep(100 * time.Millisecond)
	}
}

// inViewport checks whether the element's bounding box fits the viewport.
func (s *Session) inViewport(locator playwright.Locator) bool {
	box, err := locator.BoundingBox()
	if err != nil || box == nil {
		return false
	}

	raw, err := s.Page.Evaluate(viewportScript)
	if err != nil {
		return false
	}
	vp, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	width, okW := asFloat(vp["width"])
	height, okH := asFloat(vp["height"])
	if !okW || !okH {
		return false
	}

	return box.Y >= 0 && box.Y+box.Height <= height &&
		box.X >= 0 && box.X+box.Width <= width
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
