package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/yojanadost/yojanadost/internal/model"
	"github.com/yojanadost/yojanadost/internal/util"
)

const (
	checkMaxRetries = 3
	checkUserAgent  = "YojanaDost/0.1 (+link checker)"
)

// checkWaitFunc waits out the backoff between retries, returning early when
// the context ends (injectable for tests)
var checkWaitFunc = util.Sleep

// LinkResult is the outcome of checking one scheme's official link
type LinkResult struct {
	Scheme      string `json:"scheme"`
	URL         string `json:"url"`
	StatusCode  int    `json:"status_code,omitempty"`
	Reachable   bool   `json:"reachable"`
	Dead        bool   `json:"dead"`
	Official    bool   `json:"official"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Skipped     bool   `json:"skipped,omitempty"` // Disallowed by robots.txt, not requested
	Error       string `json:"error,omitempty"`
}

// Broken reports whether a user following the link would not reach the scheme page
func (r LinkResult) Broken() bool {
	if r.Skipped {
		return false
	}
	return r.Dead || !r.Reachable
}

// Checker validates scheme links concurrently
type Checker struct {
	httpClient *http.Client
	maxWorkers int
	domains    *DomainClassifier
	robots     *robotsPolicy // nil unless RespectRobots was called
}

// NewChecker creates a new link checker
func NewChecker(timeout time.Duration, maxWorkers int, officialDomains []string, httpProxy, httpsProxy string) *Checker {
	if maxWorkers <= 0 {
		maxWorkers = 20
	}

	return &Checker{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		domains:    NewDomainClassifier(officialDomains),
	}
}

// RespectRobots makes the checker skip links that the host's robots.txt
// disallows for this user agent
func (c *Checker) RespectRobots() *Checker {
	c.robots = newRobotsPolicy(c.httpClient, checkUserAgent)
	return c
}

// Check validates the link of every scheme. Results keep catalog order.
func (c *Checker) Check(ctx context.Context, schemes []model.Scheme) []LinkResult {
	results := make([]LinkResult, len(schemes))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, c.maxWorkers)

	for i, s := range schemes {
		wg.Add(1)
		go func(idx int, scheme model.Scheme) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = LinkResult{
					Scheme: scheme.Name,
					URL:    scheme.URL,
					Error:  "context cancelled",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkWithRetry(ctx, scheme)
		}(i, s)
	}

	wg.Wait()
	return results
}

func (c *Checker) checkSingle(ctx context.Context, scheme model.Scheme) LinkResult {
	result := LinkResult{
		Scheme:   scheme.Name,
		URL:      scheme.URL,
		Official: c.domains.IsOfficial(scheme.URL),
	}

	if !isHTTPURL(scheme.URL) {
		result.Error = "missing or non-http link"
		result.Dead = true
		return result
	}

	if c.robots != nil && !c.robots.allowed(ctx, scheme.URL) {
		result.Skipped = true
		result.Error = "disallowed by robots.txt"
		return result
	}

	resp, err := c.do(ctx, http.MethodHead, scheme.URL)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		// Some portals reject HEAD outright
		_ = resp.Body.Close()
		resp, err = c.do(ctx, http.MethodGet, scheme.URL)
	}
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Dead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Reachable = true
	} else if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != scheme.URL {
		result.RedirectURL = final
	}

	return result
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", checkUserAgent)
	return c.httpClient.Do(req)
}

// checkWithRetry retries transient failures with exponential backoff
func (c *Checker) checkWithRetry(ctx context.Context, scheme model.Scheme) LinkResult {
	var result LinkResult
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		result = c.checkSingle(ctx, scheme)
		if !isRetryable(result) || ctx.Err() != nil {
			return result
		}
		if attempt < checkMaxRetries-1 {
			if err := checkWaitFunc(ctx, time.Duration(1<<uint(attempt))*time.Second); err != nil {
				return result
			}
		}
	}
	return result
}

func isRetryable(result LinkResult) bool {
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.Error != "" && !result.Skipped {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}

func isHTTPURL(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
