package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session owns one browser page and all operations against it. A session is
// used by exactly one agent run; pages are never shared across sessions.
type Session struct {
	// ID uniquely identifies this session in logs.
	ID string

	// Browser is the Playwright browser instance.
	Browser playwright.Browser

	// Context is the isolated browser context.
	Context playwright.BrowserContext

	// Page is the single page this session acts on.
	Page playwright.Page

	// Headless indicates whether the browser runs without a window.
	Headless bool

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	timeoutMs    float64
	allowedRoles map[string]bool
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Viewport sets the initial viewport size.
	Viewport *Viewport

	// TimeoutMs bounds every page operation, in milliseconds.
	TimeoutMs float64

	// AllowedRoles filters snapshot elements; empty means the defaults.
	AllowedRoles []string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Element is one record of a page snapshot: an interactive node with its
// semantic role, accessible name, and the numeric reference id assigned at
// capture time. A RefID is only valid against the snapshot that produced it
// and the immediately following action.
type Element struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	RefID int    `json:"ref_id"`
}

// Snapshot is the simplified accessibility view of a page at one instant.
// It is immutable once produced; any mutating action supersedes it.
type Snapshot struct {
	URL      string    `json:"url"`
	Elements []Element `json:"elements"`
}

const (
	// DefaultTimeoutMs bounds every browser operation. Unresolvable waits
	// must not hang the agent loop.
	DefaultTimeoutMs = 5000.0

	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	// unnamedElement substitutes for an empty accessible name so the model
	// always has something to reason about.
	unnamedElement = "Unnamed Element"
)

// defaultAllowedRoles are the roles the action executor supports.
var defaultAllowedRoles = []string{"button", "link", "textbox", "searchbox", "combobox"}
