package settings

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dycw/hooksmith/internal/config"
	"github.com/dycw/hooksmith/internal/format"
	"github.com/dycw/hooksmith/internal/project"
)

// Client fetches template files from the remote base URL. Responses are
// memoized for the life of the process and cached on disk between runs,
// keyed by the full URL. When the network is unavailable a stale disk
// cache is used instead of failing.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	CacheTTL   time.Duration

	mu   sync.Mutex
	memo map[string]string
}

// NewClient builds a Client from the repository config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL:  cfg.TemplateBaseURL,
		CacheTTL: time.Duration(cfg.TemplateCacheHours) * time.Hour,
	}
}

// Fetch returns the content of the template at the repo-relative path
// name, e.g. ".flake8" or ".github/workflows/push.yml".
func (c *Client) Fetch(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text, ok := c.memo[name]; ok {
		return text, nil
	}

	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + name
	cachePath := c.cachePath(url)

	if cachePath != "" {
		if fi, err := os.Stat(cachePath); err == nil && time.Since(fi.ModTime()) < c.CacheTTL {
			if data, err := os.ReadFile(cachePath); err == nil {
				c.remember(name, string(data))
				return string(data), nil
			}
		}
	}

	text, fetchErr := c.get(url)
	if fetchErr != nil {
		if cachePath != "" {
			if data, err := os.ReadFile(cachePath); err == nil {
				format.Warnf("using cached copy of %s: %v", name, fetchErr)
				c.remember(name, string(data))
				return string(data), nil
			}
		}
		return "", fetchErr
	}

	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err == nil {
			os.WriteFile(cachePath, []byte(text), 0644)
		}
	}
	c.remember(name, text)
	return text, nil
}

func (c *Client) get(url string) (string, error) {
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

func (c *Client) cachePath(url string) string {
	cacheDir, err := project.CacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cacheDir, "templates", fmt.Sprintf("%x", sha1.Sum([]byte(url))))
}

func (c *Client) remember(name, text string) {
	if c.memo == nil {
		c.memo = make(map[string]string)
	}
	c.memo[name] = text
}
