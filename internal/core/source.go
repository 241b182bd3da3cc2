package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultRef is the sentinel ref meaning "whatever the remote considers
// latest". Actual branch resolution is deferred to the Fetcher.
const DefaultRef = "HEAD"

// ownerRepoPattern matches a single owner or repo segment.
var ownerRepoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// SourceRef is a parsed reference to a remote repository. Immutable once
// parsed. Raw retains the original input verbatim so the reference can be
// reconstructed losslessly from persisted state.
type SourceRef struct {
	Owner string
	Name  string
	Ref   string // empty when no ref was given
	Raw   string
}

// ParseSource parses a source string into a SourceRef.
//
// Supported formats:
//   - "owner/repo"
//   - "owner/repo@ref"
//   - "https://github.com/owner/repo[@ref]"
//   - "git@github.com:owner/repo[.git]"
func ParseSource(input string) (*SourceRef, error) {
	raw := input
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, &InvalidSourceError{Input: raw, Reason: "empty source"}
	}

	// SSH git URL: git@github.com:owner/repo.git
	if strings.HasPrefix(s, "git@") {
		parts := strings.SplitN(strings.TrimPrefix(s, "git@"), ":", 2)
		if len(parts) != 2 {
			return nil, &InvalidSourceError{Input: raw, Reason: "malformed SSH URL"}
		}
		s = strings.TrimSuffix(parts[1], ".git")
		return parseOwnerRepo(s, raw)
	}

	// HTTPS URL: strip scheme, host, and .git suffix.
	if strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		u, err := url.Parse(s)
		if err != nil {
			return nil, &InvalidSourceError{Input: raw, Reason: "malformed URL"}
		}
		s = strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
		return parseOwnerRepo(s, raw)
	}

	return parseOwnerRepo(s, raw)
}

// parseOwnerRepo handles the owner/repo[@ref] core form.
func parseOwnerRepo(s, raw string) (*SourceRef, error) {
	var ref string
	if idx := strings.LastIndex(s, "@"); idx >= 0 {
		ref = s[idx+1:]
		s = s[:idx]
		if ref == "" {
			return nil, &InvalidSourceError{Input: raw, Reason: "empty ref after @"}
		}
	}

	segments := strings.Split(s, "/")
	if len(segments) != 2 {
		return nil, &InvalidSourceError{Input: raw, Reason: "expected owner/repo"}
	}
	owner, name := segments[0], segments[1]
	if owner == "" || name == "" {
		return nil, &InvalidSourceError{Input: raw, Reason: "empty owner or repo"}
	}
	if !ownerRepoPattern.MatchString(owner) || !ownerRepoPattern.MatchString(name) {
		return nil, &InvalidSourceError{Input: raw, Reason: "owner/repo contains invalid characters"}
	}

	return &SourceRef{Owner: owner, Name: name, Ref: ref, Raw: raw}, nil
}

// String returns the original input the reference was parsed from.
func (s *SourceRef) String() string { return s.Raw }

// RefOrDefault returns the explicit ref, or the DefaultRef sentinel.
func (s *SourceRef) RefOrDefault() string {
	if s.Ref == "" {
		return DefaultRef
	}
	return s.Ref
}

// Slug returns the owner/name pair joined with "/".
func (s *SourceRef) Slug() string {
	return s.Owner + "/" + s.Name
}

// DirName returns the collision-free cache directory name used for direct
// (non-marketplace) installs: "owner--repo".
func (s *SourceRef) DirName() string {
	return s.Owner + "--" + s.Name
}

// RepoURL returns the API URL for repository metadata.
func (s *SourceRef) RepoURL() string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s", s.Owner, s.Name)
}

// ArchiveURL returns the API URL for the zipball of the given ref.
func (s *SourceRef) ArchiveURL(ref string) string {
	return fmt.Sprintf("%s/zipball/%s", s.RepoURL(), url.PathEscape(ref))
}

// CommitURL returns the API URL resolving a ref to a commit.
func (s *SourceRef) CommitURL(ref string) string {
	return fmt.Sprintf("%s/commits/%s", s.RepoURL(), url.PathEscape(ref))
}

// ContentsURL returns the API URL for a file at a path and ref.
func (s *SourceRef) ContentsURL(path, ref string) string {
	u := fmt.Sprintf("%s/contents/%s", s.RepoURL(), escapePath(path))
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	return u
}

// WebURL returns the human-facing repository page.
func (s *SourceRef) WebURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", s.Owner, s.Name)
}

// escapePath escapes each path segment but keeps the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
