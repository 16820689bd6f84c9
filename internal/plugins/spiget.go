// Package plugins talks to the Spiget plugin marketplace. Listings are
// proxied to the dashboard verbatim; downloads feed the panel file upload.
package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.spiget.org/v2"

// maxJarBytes caps a plugin download; anything bigger is rejected rather
// than buffered.
const maxJarBytes = 100 << 20

type Client struct {
	base string
	http *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{base: baseURL, http: &http.Client{Timeout: timeout}}
}

// Resource is the subset of a Spiget resource the installer needs.
type Resource struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("spiget %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spiget %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("spiget %s: status %d", path, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(out); err != nil {
		return fmt.Errorf("spiget %s: decode: %w", path, err)
	}
	return nil
}

// List returns the most-downloaded resources, passed through untouched.
func (c *Client) List(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/resources?size=100&sort=-downloads", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Search returns resources matching query, passed through untouched.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "/search/resources/" + url.PathEscape(query) + "?size=100&sort=-downloads"
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Resource fetches one resource's metadata.
func (c *Client) Resource(ctx context.Context, pluginID int) (Resource, error) {
	var r Resource
	if err := c.getJSON(ctx, fmt.Sprintf("/resources/%d", pluginID), &r); err != nil {
		return Resource{}, err
	}
	if r.Name == "" {
		return Resource{}, fmt.Errorf("spiget resource %d: empty name", pluginID)
	}
	return r, nil
}

// Download fetches the plugin jar.
func (c *Client) Download(ctx context.Context, pluginID int) ([]byte, error) {
	path := fmt.Sprintf("/resources/%d/download", pluginID)
	resp, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxJarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("spiget %s: read: %w", path, err)
	}
	if len(data) > maxJarBytes {
		return nil, fmt.Errorf("spiget %s: jar exceeds %d bytes", path, maxJarBytes)
	}
	return data, nil
}
