package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registry and manifest failures. Callers match them
// with errors.Is after unwrapping whatever context was added.
var (
	// ErrDuplicateName is returned when registering a marketplace under a
	// name that is already taken.
	ErrDuplicateName = errors.New("name already registered")
	// ErrInvalidName is returned when a marketplace name violates the
	// character or length constraints.
	ErrInvalidName = errors.New("invalid name")
	// ErrManifestMissing is returned when a cached plugin has no manifest
	// file. Callers degrade to an empty component set.
	ErrManifestMissing = errors.New("plugin manifest not found")
	// ErrNotFound is returned when a plugin, marketplace, or record cannot
	// be located by name.
	ErrNotFound = errors.New("not found")
)

// InvalidSourceError is returned when a source string cannot be parsed.
type InvalidSourceError struct {
	Input  string
	Reason string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid source %q: %s", e.Input, e.Reason)
}

// AmbiguousError is returned when a bare plugin name matches entries in
// more than one registered marketplace. The engine never picks one; the
// caller must retry with an explicit name@registry form.
type AmbiguousError struct {
	Name       string
	Registries []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("plugin %q found in multiple marketplaces (%s); use %s@<marketplace>",
		e.Name, strings.Join(e.Registries, ", "), e.Name)
}

// ManifestInvalidError is returned when a manifest file exists but cannot
// be parsed. Distinct from ErrManifestMissing so callers can report the
// parse failure while still degrading gracefully.
type ManifestInvalidError struct {
	Path string
	Err  error
}

func (e *ManifestInvalidError) Error() string {
	return fmt.Sprintf("invalid plugin manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestInvalidError) Unwrap() error { return e.Err }

// StateCorruptedError is returned when the persisted plugin state file
// exists but cannot be parsed. It is surfaced loudly and never silently
// reset; the user decides whether to repair or remove the file.
type StateCorruptedError struct {
	Path string
	Err  error
}

func (e *StateCorruptedError) Error() string {
	return fmt.Sprintf("plugin state file %s is corrupted: %v (fix or remove the file manually)", e.Path, e.Err)
}

func (e *StateCorruptedError) Unwrap() error { return e.Err }

// FetchErrorKind classifies why a remote fetch failed.
type FetchErrorKind int

const (
	// FetchErrUnknown is an unclassified fetch failure.
	FetchErrUnknown FetchErrorKind = iota
	// FetchErrNetwork means the host could not be reached (DNS, connectivity).
	FetchErrNetwork
	// FetchErrNotFound means the repository, file, or ref does not exist or
	// the token has no access to it.
	FetchErrNotFound
	// FetchErrAuth means the request was rejected for missing or invalid
	// credentials.
	FetchErrAuth
	// FetchErrRateLimited means the API rate limit was exhausted.
	FetchErrRateLimited
)

// String returns a human-readable label for the error kind.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrNetwork:
		return "Network Error"
	case FetchErrNotFound:
		return "Not Found"
	case FetchErrAuth:
		return "Authentication Required"
	case FetchErrRateLimited:
		return "Rate Limited"
	default:
		return "Unknown Error"
	}
}

// FetchError is a structured error returned when a remote fetch fails.
// It wraps the HTTP outcome with classification and actionable hints.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int // HTTP status, 0 for transport failures
	Err    error
	Hints  []string
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch failed (%s): %s returned HTTP %d", e.Kind, e.URL, e.Status)
	}
	return fmt.Sprintf("fetch failed (%s): %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError checks whether an error is a *FetchError and returns it.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// classifyStatus maps an HTTP status to a FetchErrorKind. GitHub returns
// 404 for private repositories the token cannot see, so NotFound hints
// mention access as well.
func classifyStatus(status int, hasToken bool) FetchErrorKind {
	switch {
	case status == 401:
		return FetchErrAuth
	case status == 403 || status == 429:
		if hasToken {
			return FetchErrRateLimited
		}
		return FetchErrAuth
	case status == 404:
		return FetchErrNotFound
	default:
		return FetchErrUnknown
	}
}

// newHTTPFetchError builds a classified FetchError for a non-2xx response.
func newHTTPFetchError(url string, status int, hasToken bool) *FetchError {
	kind := classifyStatus(status, hasToken)
	return &FetchError{
		Kind:   kind,
		URL:    url,
		Status: status,
		Hints:  hintsForFetch(kind, hasToken),
	}
}

// newNetworkFetchError builds a FetchError for a transport failure.
func newNetworkFetchError(url string, err error) *FetchError {
	return &FetchError{
		Kind:  FetchErrNetwork,
		URL:   url,
		Err:   err,
		Hints: hintsForFetch(FetchErrNetwork, false),
	}
}

// hintsForFetch returns actionable suggestions based on the error kind.
func hintsForFetch(kind FetchErrorKind, hasToken bool) []string {
	switch kind {
	case FetchErrAuth:
		return []string{
			"Set a GitHub token: export GITHUB_TOKEN=<token>",
			"Or authenticate the gh CLI: gh auth login",
		}
	case FetchErrNotFound:
		hints := []string{
			"Verify the owner/repo spelling and the ref name",
			"Private repositories require a token with repo access",
		}
		if !hasToken {
			hints = append(hints, "No token is configured; only public repositories are reachable")
		}
		return hints
	case FetchErrRateLimited:
		return []string{
			"The GitHub API rate limit is exhausted; wait and retry",
		}
	case FetchErrNetwork:
		return []string{
			"Check your internet connection",
			"If behind a proxy, ensure HTTPS_PROXY is set",
		}
	default:
		return nil
	}
}
