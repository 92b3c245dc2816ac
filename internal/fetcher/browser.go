package fetcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"jobsift/internal/config"
	"jobsift/internal/logging"
	"jobsift/pkg/models"
	"jobsift/pkg/utils"
)

// BrowserFetcher renders JS-heavy pages with a headless Chromium instance.
// The browser is launched lazily on first use and shared across fetches.
type BrowserFetcher struct {
	config  *config.Config
	browser *rod.Browser
	mu      sync.Mutex
	logger  logging.Logger
}

// NewBrowserFetcher creates a new browser fetcher instance
func NewBrowserFetcher(cfg *config.Config) *BrowserFetcher {
	return &BrowserFetcher{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Fetch navigates to the URL in a stealth page and returns the rendered HTML
func (bf *BrowserFetcher) Fetch(ctx context.Context, url string, options *models.FetchOptions) (*models.Page, error) {
	browser, err := bf.getBrowser()
	if err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("failed to start browser: %v", err))
	}

	page, err := bf.createPage(browser, options)
	if err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("failed to create page: %v", err))
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("failed to navigate to %s: %v", url, err))
	}

	if err := page.WaitLoad(); err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("page load failed for %s: %v", url, err))
	}

	// Give client-side rendering a moment to settle
	time.Sleep(500 * time.Millisecond)

	html, err := page.HTML()
	if err != nil {
		return nil, utils.NewFetchError(fmt.Sprintf("failed to read rendered HTML for %s: %v", url, err))
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &models.Page{
		URL:        url,
		FinalURL:   finalURL,
		HTML:       html,
		StatusCode: 200,
		Engine:     "browser",
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// getBrowser returns the shared browser, launching it on first use
func (bf *BrowserFetcher) getBrowser() (*rod.Browser, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser != nil {
		return bf.browser, nil
	}

	l := launcher.New().
		Headless(bf.config.Fetcher.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if chromePath := systemChromePath(); chromePath != "" {
		l = l.Bin(chromePath)
		bf.logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": chromePath,
		})
	}

	if bf.config.Fetcher.UserAgent != "" {
		l = l.Set("user-agent", bf.config.Fetcher.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	bf.logger.Info("Headless browser started")
	bf.browser = browser
	return browser, nil
}

// createPage creates a stealth page with viewport and user agent configured
func (bf *BrowserFetcher) createPage(browser *rod.Browser, options *models.FetchOptions) (*rod.Page, error) {
	var page *rod.Page
	var err error

	if bf.config.Fetcher.StealthMode {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		bf.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	userAgent := bf.config.Fetcher.UserAgent
	if options != nil && options.UserAgent != "" {
		userAgent = options.UserAgent
	}
	if userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: userAgent,
		}); err != nil {
			bf.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return page, nil
}

// systemChromePath finds an installed Chrome/Chromium binary so rod does not
// download its own
func systemChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Cleanup closes the shared browser
func (bf *BrowserFetcher) Cleanup() {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser != nil {
		if err := bf.browser.Close(); err != nil {
			bf.logger.Warn("Failed to close browser", map[string]interface{}{
				"error": err.Error(),
			})
		}
		bf.browser = nil
	}
}

// IsHealthy reports whether the browser is connected (or not yet started,
// which is healthy because launch is lazy)
func (bf *BrowserFetcher) IsHealthy() bool {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser == nil {
		return true
	}
	return bf.browser.GetContext() != nil
}
