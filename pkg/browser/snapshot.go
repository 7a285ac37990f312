package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Snapshot captures the simplified accessibility view of the current page.
//
// It waits (bounded) for DOMContentLoaded, evaluates the snapshot script,
// filters the returned records to the session's allowed roles, and
// substitutes a placeholder for empty names. Tagging happens in the script:
// every observed node carries a data-ref-id attribute afterwards, which is
// what Click and TypeText resolve against.
//
// If the page is mid-navigation or evaluation throws, an error is returned
// rather than a partial snapshot; the caller decides whether to retry or
// surface it.
func (s *Session) Snapshot() (*Snapshot, error) {
	// Best effort: a page that never settles should not block observation.
	_ = s.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(s.timeoutMs),
	})

	raw, err := s.Page.Evaluate(snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("snapshot evaluation failed: %w", err)
	}

	elements, walkErr, err := parseSnapshotPayload(raw)
	if err != nil {
		return nil, err
	}
	if walkErr != "" {
		return nil, fmt.Errorf("snapshot script reported failure: %s", walkErr)
	}

	return &Snapshot{
		URL:      s.URL(),
		Elements: s.filterElements(elements),
	}, nil
}

// filterElements keeps only records whose role the session acts on and
// fills in a placeholder name where the page offered none.
func (s *Session) filterElements(elements []Element) []Element {
	filtered := make([]Element, 0, len(elements))
	for _, el := range elements {
		if !s.allowedRoles[el.Role] {
			continue
		}
		if el.Name == "" {
			el.Name = unnamedElement
		}
		filtered = append(filtered, el)
	}
	return filtered
}

// parseSnapshotPayload decodes the evaluate result into element records.
// The script returns {snapshot: [...], errorCount: n, error?: "..."}; an
// error field means the walk itself failed and no usable snapshot exists.
func parseSnapshotPayload(raw any) ([]Element, string, error) {
	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("unexpected snapshot payload type %T", raw)
	}

	walkErr, _ := payload["error"].(string)

	rawList, ok := payload["snapshot"].([]any)
	if !ok {
		return nil, walkErr, fmt.Errorf("snapshot payload missing element list")
	}

	elements := make([]Element, 0, len(rawList))
	for _, item := range rawList {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		refID, ok := asInt(record["ref_id"])
		if !ok {
			continue
		}
		role, _ := record["role"].(string)
		name, _ := record["name"].(string)
		elements = append(elements, Element{Role: role, Name: name, RefID: refID})
	}
	return elements, walkErr, nil
}

// asInt accepts the numeric types the evaluate bridge may produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
