// SPDX-License-Identifier: Apache-2.0

// Package github talks to the GitHub releases API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/Work-Fort/Loadstar/pkg/config"
)

// Release is a GitHub release.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Client handles GitHub API requests.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a client using the configured token.
func NewClient() *Client {
	return &Client{
		token:   config.GetGitHubToken(),
		baseURL: config.GitHubAPI,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// GetLatestRelease fetches the latest published release of owner/repo.
func (c *Client) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	var release Release
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)
	if err := c.getJSON(ctx, url, &release); err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	return &release, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.DoRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// DoRequest executes req with the token attached, if any.
func (c *Client) DoRequest(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	return c.http.Do(req)
}

// StripVersionPrefix removes a leading 'v'.
func StripVersionPrefix(v string) string {
	return strings.TrimPrefix(v, "v")
}

// UpdateInfo compares the running build with the latest release.
type UpdateInfo struct {
	Current   string
	Latest    string
	URL       string
	Available bool
}

// CheckForUpdate compares current with the newest release of the project.
// Development builds ("dev" or unparseable versions) never report an update.
func (c *Client) CheckForUpdate(ctx context.Context, current string) (*UpdateInfo, error) {
	owner, repo, _ := strings.Cut(config.GitHubRepo, "/")
	latest, err := c.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	info := &UpdateInfo{
		Current: current,
		Latest:  StripVersionPrefix(latest.TagName),
		URL:     latest.HTMLURL,
	}
	cur, err := version.NewVersion(StripVersionPrefix(current))
	if err != nil {
		return info, nil
	}
	lv, err := version.NewVersion(info.Latest)
	if err != nil {
		return nil, fmt.Errorf("invalid release tag %q: %w", latest.TagName, err)
	}
	info.Available = lv.GreaterThan(cur)
	return info, nil
}
