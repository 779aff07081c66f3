// Package github implements the ContentSource port by reading feed files from
// a GitHub repository with the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/iatsite/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContentSource = (*Source)(nil)

// Source reads content feeds from a directory of a GitHub repository at a
// fixed ref (branch, tag or SHA).
type Source struct {
	gh    *gh.Client
	owner string
	repo  string
	ref   string
	dir   string
}

// NewSource creates a GitHub content source with the following transport stack:
//  1. httpcache (ETag-based conditional request caching, so periodic content
//     refreshes of unchanged files do not count against the rate limit)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// repoFullName is "owner/repo"; dir is the directory holding the feed files.
func NewSource(repoFullName, ref, dir, token string) (*Source, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Source{gh: client, owner: owner, repo: repo, ref: ref, dir: cleanDir(dir)}, nil
}

// NewSourceWithHTTPClient creates a Source with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewSourceWithHTTPClient(httpClient *http.Client, baseURL, repoFullName, ref, dir string) (*Source, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Source{gh: client, owner: owner, repo: repo, ref: ref, dir: cleanDir(dir)}, nil
}

// ReadFeed fetches and decodes the named feed file from the repository.
func (s *Source) ReadFeed(ctx context.Context, name string) ([]byte, error) {
	filePath := name
	if s.dir != "" {
		filePath = path.Join(s.dir, name)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: s.ref}
	file, dirContents, resp, err := s.gh.Repositories.GetContents(ctx, s.owner, s.repo, filePath, opts)
	logRateLimit(resp, filePath)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s/%s@%s:%s: %w", s.owner, s.repo, s.ref, filePath, driven.ErrFeedNotFound)
		}
		return nil, fmt.Errorf("get contents %s/%s@%s:%s: %w", s.owner, s.repo, s.ref, filePath, err)
	}
	if file == nil || dirContents != nil {
		return nil, fmt.Errorf("%s/%s:%s is a directory: %w", s.owner, s.repo, filePath, driven.ErrFeedNotFound)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode contents of %s: %w", filePath, err)
	}
	return []byte(content), nil
}

// Describe returns the source origin for logs.
func (s *Source) Describe() string {
	return fmt.Sprintf("github:%s/%s@%s/%s", s.owner, s.repo, s.ref, s.dir)
}

func logRateLimit(resp *gh.Response, filePath string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"path", filePath,
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

func cleanDir(dir string) string {
	return strings.Trim(dir, "/")
}
