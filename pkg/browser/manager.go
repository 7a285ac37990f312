package browser

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// launchArgs soften automation fingerprinting and size the window up front.
var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-features=IsolateOrigins",
	"--disable-site-isolation-trials",
	"--start-maximized",
}

// Manager owns the Playwright driver and the sessions created from it.
// One CLI run opens exactly one session, but the map keeps independent
// concurrent sessions possible for embedding hosts; pages are never shared.
type Manager struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	sessions    map[string]*Session
	initialized bool
}

// NewManager creates an uninitialized session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Initialize installs (if needed) and starts the Playwright driver. Must be
// called before NewSession. Failure here is a startup error for the caller.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Driver output would interleave with agent output on the console.
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// NewSession launches a Chromium browser, creates an isolated context and a
// single page, and returns the session owning them.
func (m *Manager) NewSession(opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, fmt.Errorf("browser manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.TimeoutMs == 0 {
		opts.TimeoutMs = DefaultTimeoutMs
	}
	roles := opts.AllowedRoles
	if len(roles) == 0 {
		roles = defaultAllowedRoles
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
	}
	browser, err := m.playwright.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.TimeoutMs)

	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	session := &Session{
		ID:           uuid.New().String(),
		Browser:      browser,
		Context:      context,
		Page:         page,
		Headless:     opts.Headless,
		CreatedAt:    time.Now(),
		timeoutMs:    opts.TimeoutMs,
		allowedRoles: allowed,
	}
	m.sessions[session.ID] = session
	return session, nil
}

// CloseSession closes a session's page, context and browser.
func (m *Manager) CloseSession(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("session %q not found", id)
	}

	_ = session.Page.Close()
	_ = session.Context.Close()
	_ = session.Browser.Close()
	delete(m.sessions, id)
	return nil
}

// Shutdown closes all sessions and stops the Playwright driver.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		_ = session.Page.Close()
		_ = session.Context.Close()
		_ = session.Browser.Close()
		delete(m.sessions, id)
	}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}
	return nil
}
