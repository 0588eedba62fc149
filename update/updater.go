// Package update checks GitHub releases for newer timetable builds.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// Release describes a GitHub release with the download URL for the current platform.
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

// githubRelease is the subset of the GitHub releases API response we use.
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Checker looks up the latest release of a repository.
type Checker struct {
	CurrentVersion string
	RepoOwner      string
	RepoName       string
	BaseURL        string // GitHub API root
	HTTPClient     *http.Client
}

// New returns a Checker for the GoCodeAlone/timetable repository.
func New(currentVersion string) *Checker {
	return &Checker{
		CurrentVersion: currentVersion,
		RepoOwner:      "GoCodeAlone",
		RepoName:       "timetable",
		BaseURL:        "https://api.github.com",
		HTTPClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Latest queries the releases API for the latest release.
// Returns nil, nil when already on the latest version or on a dev build.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	if c.CurrentVersion == "dev" {
		return nil, nil
	}
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		strings.TrimRight(c.BaseURL, "/"), c.RepoOwner, c.RepoName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", fmt.Sprintf("timetable/%s", c.CurrentVersion))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned %d", resp.StatusCode)
	}

	var rel githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	current := strings.TrimPrefix(c.CurrentVersion, "v")
	if latest == current {
		return nil, nil
	}

	return &Release{
		Version: rel.TagName,
		URL:     platformAssetURL(rel.Assets, runtime.GOOS, runtime.GOARCH),
	}, nil
}

// platformAssetURL finds the download URL matching goos and goarch. Empty
// when the release has no build for the platform.
func platformAssetURL(assets []githubAsset, goos, goarch string) string {
	if goarch == "amd64" {
		goarch = "x86_64"
	}
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		if strings.Contains(name, goos) && strings.Contains(name, goarch) {
			return a.BrowserDownloadURL
		}
	}
	return ""
}
