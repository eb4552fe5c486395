package rubygems

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/gemstar/pkg/cache"
	"github.com/matzehuels/gemstar/pkg/errors"
	"github.com/matzehuels/gemstar/pkg/integrations"
	"github.com/matzehuels/gemstar/pkg/integrations/github"
)

const (
	defaultBaseURL = "https://rubygems.org/api/v1"
	defaultSiteURL = "https://rubygems.org"
)

// GemInfo holds metadata for a Ruby gem from RubyGems.
//
// Zero values: All string fields are empty.
// This struct is safe for concurrent reads after construction.
type GemInfo struct {
	Name          string // Gem name as published (e.g., "rails")
	Version       string // Latest version (e.g., "7.1.2")
	SourceCodeURI string // Source code repository URL (may be empty)
	HomepageURI   string // Homepage URL (may be empty)
	ChangelogURI  string // Declared changelog URL (may be empty)
	Description   string // Gem description/info (may be empty)
}

// Metadata is what the update pipeline needs to know about a gem. Every
// field is empty when the registry lookup failed.
type Metadata struct {
	RepoURI      string // Canonical https://github.com/<owner>/<repo>, or empty
	HomepageURI  string // Declared homepage (may be empty)
	SourceURI    string // Declared source code URL (may be empty)
	ChangelogURI string // Declared changelog URL (may be empty)
	Description  string
}

// Client provides access to the RubyGems package registry API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	siteURL string
}

// NewClient creates a RubyGems client on top of the shared HTTP client.
func NewClient(client *integrations.Client) *Client {
	return &Client{
		Client:  client,
		baseURL: defaultBaseURL,
		siteURL: defaultSiteURL,
	}
}

// WithBaseURL points the client at an alternative API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// FetchGem retrieves metadata for a Ruby gem from RubyGems. The raw API
// response is cached under [cache.RubyGemsKey].
//
// Returns:
//   - GemInfo populated with metadata on success
//   - [integrations.ErrNotFound] if the gem doesn't exist or the registry
//     could not be reached
//   - An INVALID_PACKAGE error, without a request, if the name is not a
//     valid gem name
//   - Other errors for JSON decoding failures
func (c *Client) FetchGem(ctx context.Context, gem string) (*GemInfo, error) {
	gem = strings.TrimSpace(gem)
	if err := errors.ValidateGemName(gem); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/gems/%s.json", c.baseURL, integrations.PathEscape(gem))

	data, ok := c.Cached(ctx, cache.RubyGemsKey(gem), func(ctx context.Context) ([]byte, error) {
		return c.GetBytes(ctx, url)
	})
	if !ok {
		return nil, fmt.Errorf("%w: gem %s", integrations.ErrNotFound, gem)
	}

	var resp gemResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode gem %s: %w", gem, err)
	}
	return &GemInfo{
		Name:          resp.Name,
		Version:       resp.Version,
		SourceCodeURI: resp.SourceCodeURI,
		HomepageURI:   resp.HomepageURI,
		ChangelogURI:  resp.ChangelogURI,
		Description:   resp.Info,
	}, nil
}

// Resolve looks gem up and derives its repository URL. It never fails: an
// unknown gem or unreachable registry yields empty Metadata.
func (c *Client) Resolve(ctx context.Context, gem string) Metadata {
	info, err := c.FetchGem(ctx, gem)
	if err != nil {
		return Metadata{}
	}
	return Metadata{
		RepoURI:      RepoURI(info),
		HomepageURI:  info.HomepageURI,
		SourceURI:    info.SourceCodeURI,
		ChangelogURI: info.ChangelogURI,
		Description:  info.Description,
	}
}

// RepoURI picks the GitHub repository of a gem. The declared source code
// URL wins over the homepage; the changelog URL is the last resort.
func RepoURI(info *GemInfo) string {
	if info == nil {
		return ""
	}
	for _, raw := range []string{info.SourceCodeURI, info.HomepageURI, info.ChangelogURI} {
		if url, ok := github.RepoURL(raw); ok {
			return url
		}
	}
	return ""
}

// PackagePage returns the registry's web page for gem.
func (c *Client) PackagePage(gem string) string {
	return PackagePage(c.siteURL, gem)
}

// PackagePage returns the web page for gem under siteURL.
func PackagePage(siteURL, gem string) string {
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	return siteURL + "/gems/" + integrations.PathEscape(gem)
}

type gemResponse struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Info          string `json:"info"`
	SourceCodeURI string `json:"source_code_uri"`
	HomepageURI   string `json:"homepage_uri"`
	ChangelogURI  string `json:"changelog_uri"`
}
