package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Fetcher retrieves repository data from the remote host. The engine only
// depends on this interface so tests can substitute an offline fake.
type Fetcher interface {
	// ResolveDefaultBranch returns the repository's default branch name.
	ResolveDefaultBranch(ctx context.Context, src *SourceRef) (string, error)
	// ResolveCommit resolves a ref (branch, tag, or the DefaultRef
	// sentinel) to a full commit SHA.
	ResolveCommit(ctx context.Context, src *SourceRef, ref string) (string, error)
	// DownloadArchive downloads the zipball of the given ref.
	DownloadArchive(ctx context.Context, src *SourceRef, ref string) ([]byte, error)
	// FetchFile fetches one file's raw content at a path and ref.
	FetchFile(ctx context.Context, src *SourceRef, path, ref string) ([]byte, error)
}

const archiveSizeLimit = 256 << 20 // decompressed zipballs are checked elsewhere

// GitHubFetcher talks to the GitHub REST API.
type GitHubFetcher struct {
	client  *http.Client
	token   string
	apiBase string
	maxBody int64
}

// NewGitHubFetcher creates a fetcher with the token resolved once from the
// environment. A missing token is not an error; it only restricts access
// to public repositories.
func NewGitHubFetcher() *GitHubFetcher {
	return &GitHubFetcher{
		client:  &http.Client{Timeout: 120 * time.Second},
		token:   ResolveToken(),
		apiBase: "https://api.github.com",
		maxBody: archiveSizeLimit,
	}
}

// NewGitHubFetcherWithBase creates a fetcher against a custom API base URL.
// Useful for testing.
func NewGitHubFetcherWithBase(base, token string) *GitHubFetcher {
	return &GitHubFetcher{
		client:  &http.Client{Timeout: 120 * time.Second},
		token:   token,
		apiBase: strings.TrimSuffix(base, "/"),
		maxBody: archiveSizeLimit,
	}
}

// repoURL builds an API URL under this fetcher's base.
func (f *GitHubFetcher) repoURL(src *SourceRef, suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", f.apiBase, src.Owner, src.Name, suffix)
}

// ResolveToken looks up a GitHub token: the GITHUB_TOKEN environment
// variable first, then the gh CLI's stored credentials. Returns "" when
// neither is available.
func ResolveToken() string {
	if tok := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); tok != "" {
		return tok
	}
	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ResolveDefaultBranch fetches repository metadata and returns its default
// branch.
func (f *GitHubFetcher) ResolveDefaultBranch(ctx context.Context, src *SourceRef) (string, error) {
	body, err := f.get(ctx, f.repoURL(src, ""), "application/vnd.github+json")
	if err != nil {
		return "", err
	}

	var meta struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return "", fmt.Errorf("parsing repository metadata for %s: %w", src.Slug(), err)
	}
	if meta.DefaultBranch == "" {
		return "", fmt.Errorf("repository %s reports no default branch", src.Slug())
	}
	return meta.DefaultBranch, nil
}

// ResolveCommit resolves a ref to a full commit SHA using the commits
// endpoint with the SHA media type, which returns the bare SHA as the body.
func (f *GitHubFetcher) ResolveCommit(ctx context.Context, src *SourceRef, ref string) (string, error) {
	body, err := f.get(ctx, f.repoURL(src, "/commits/"+url.PathEscape(ref)), "application/vnd.github.sha")
	if err != nil {
		return "", err
	}
	sha := strings.TrimSpace(string(body))
	if sha == "" {
		return "", fmt.Errorf("empty commit for %s@%s", src.Slug(), ref)
	}
	return sha, nil
}

// DownloadArchive downloads the zipball of the given ref. The API answers
// with a redirect to the archive host, which the HTTP client follows.
func (f *GitHubFetcher) DownloadArchive(ctx context.Context, src *SourceRef, ref string) ([]byte, error) {
	return f.get(ctx, f.repoURL(src, "/zipball/"+url.PathEscape(ref)), "application/vnd.github+json")
}

// FetchFile fetches one file's raw content via the contents endpoint.
func (f *GitHubFetcher) FetchFile(ctx context.Context, src *SourceRef, path, ref string) ([]byte, error) {
	u := f.repoURL(src, "/contents/"+escapePath(path))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return f.get(ctx, u, "application/vnd.github.raw")
}

// get performs an authenticated GET and classifies failures into the
// FetchError taxonomy.
func (f *GitHubFetcher) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newNetworkFetchError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPFetchError(url, resp.StatusCode, f.token != "")
	}

	// Read one byte past the cap so an at-limit response is distinguishable
	// from an oversized one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, newNetworkFetchError(url, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("response from %s exceeds the %d MB download limit", url, f.maxBody>>20)
	}
	return body, nil
}
