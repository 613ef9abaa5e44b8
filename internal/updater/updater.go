// Package updater checks GitHub Releases for a newer indicator-tide.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/indicator-tide/indicator-tide/internal/buildinfo"
)

// DefaultReleasesURL is the latest-release endpoint of the project.
const DefaultReleasesURL = "https://api.github.com/repos/indicator-tide/indicator-tide/releases/latest"

// Release is the part of a GitHub release the checker reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Result of an update check.
type Result struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker queries a releases endpoint.
type Checker struct {
	URL            string
	Client         *http.Client
	CurrentVersion string
}

// NewChecker returns a checker for this build.
func NewChecker() *Checker {
	return &Checker{
		URL:            DefaultReleasesURL,
		Client:         http.DefaultClient,
		CurrentVersion: buildinfo.Version,
	}
}

// Check fetches the latest release and compares it with the current version.
// A development build is always considered older.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "indicator-tide/"+c.CurrentVersion)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	result := &Result{CurrentVersion: c.CurrentVersion}
	if resp.StatusCode == http.StatusNotFound {
		// No releases yet
		return result, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	result.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	result.ReleaseURL = release.HTMLURL

	latest, err := ParseSemver(result.LatestVersion)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", result.LatestVersion, err)
	}
	current, err := ParseSemver(c.CurrentVersion)
	if err != nil {
		result.Available = true
		return result, nil
	}
	result.Available = current.LessThan(latest)
	return result, nil
}
