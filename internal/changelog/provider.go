package changelog

import (
	"errors"
	"strings"
)

// ErrInvalidProviderConfiguration is returned when a provider needs a server
// URL that was not given.
var ErrInvalidProviderConfiguration = errors.New("invalid provider configuration: gitlab requires a server url")

// ProviderKind selects how contributor names are linked.
type ProviderKind string

const (
	ProviderDefault ProviderKind = "default"
	ProviderGitHub  ProviderKind = "github"
	ProviderGitLab  ProviderKind = "gitlab"
)

const githubProfileURL = "https://github.com/"

// LinkProvider formats a contributor for release notes. The zero value
// renders plain names.
type LinkProvider struct {
	Kind ProviderKind
	// ServerURL is the GitLab instance base URL.
	ServerURL string
}

// NewLinkProvider builds a provider from its name. Names are matched
// case-insensitively and anything unknown falls back to plain names.
func NewLinkProvider(name, serverURL string) (LinkProvider, error) {
	switch ProviderKind(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderGitHub:
		return LinkProvider{Kind: ProviderGitHub}, nil
	case ProviderGitLab:
		if strings.TrimSpace(serverURL) == "" {
			return LinkProvider{}, ErrInvalidProviderConfiguration
		}
		return LinkProvider{Kind: ProviderGitLab, ServerURL: serverURL}, nil
	default:
		return LinkProvider{Kind: ProviderDefault}, nil
	}
}

// Link returns the markdown used for a contributor. The email is accepted
// for providers that resolve accounts by address; none of the built-in
// kinds use it.
func (p LinkProvider) Link(name, email string) string {
	switch p.Kind {
	case ProviderGitHub:
		return "[" + name + "](" + githubProfileURL + escapeSpaces(name) + ")"
	case ProviderGitLab:
		url := strings.TrimRight(p.ServerURL, "/") + "/" + name
		return "[" + name + "](" + escapeSpaces(url) + ")"
	default:
		return name
	}
}

func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}
