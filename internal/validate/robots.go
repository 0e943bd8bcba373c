package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsPolicy answers whether the checker may request a URL, caching one
// robots.txt per host. An unreadable robots.txt allows everything.
type robotsPolicy struct {
	httpClient *http.Client
	userAgent  string
	agent      string

	mu    sync.RWMutex
	hosts map[string]*robotstxt.RobotsData
}

func newRobotsPolicy(client *http.Client, userAgent string) *robotsPolicy {
	return &robotsPolicy{
		httpClient: client,
		userAgent:  userAgent,
		agent:      productToken(userAgent),
		hosts:      make(map[string]*robotstxt.RobotsData),
	}
}

func (p *robotsPolicy) allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}

	data := p.lookup(ctx, u)
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, p.agent)
}

func (p *robotsPolicy) lookup(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := strings.ToLower(u.Host)

	p.mu.RLock()
	data, ok := p.hosts[host]
	p.mu.RUnlock()
	if ok {
		return data
	}

	data, err := p.fetch(ctx, fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host))
	if err != nil {
		data, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
	}

	p.mu.Lock()
	p.hosts[host] = data
	p.mu.Unlock()
	return data
}

func (p *robotsPolicy) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// productToken reduces "Name/1.0 (+info)" to "Name" for robots.txt group matching
func productToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
