// Package provenance works out where a generated skill came from: the
// upstream repository URL, the branch it tracks and the commit it was built
// from. Every lookup is best effort. A failing source only means "try the
// next one", and the final fallbacks are fixed sentinels.
package provenance

import (
	"context"

	"github.com/pkg/errors"
)

// Provider answers version-control questions about a working tree. Each
// method reports false when the answer is unavailable for any reason.
type Provider interface {
	// RemoteURL returns the fetch URL of the named remote.
	RemoteURL(ctx context.Context, remote string) (string, bool)
	// DefaultRef returns the branch origin/HEAD points at.
	DefaultRef(ctx context.Context) (string, bool)
	// CurrentBranch returns the checked-out branch; false when detached.
	CurrentBranch(ctx context.Context) (string, bool)
	// CurrentCommit returns the full hash of HEAD.
	CurrentCommit(ctx context.Context) (string, bool)
}

// Backend names accepted by New.
const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
	BackendNone  = "none"
)

// New returns the provider for backend rooted at dir.
func New(backend, dir string) (Provider, error) {
	switch backend {
	case BackendGit, "":
		return NewGitCLI(dir), nil
	case BackendGoGit:
		return NewGoGit(dir), nil
	case BackendNone:
		return None{}, nil
	default:
		return nil, errors.Errorf("unknown provenance backend %q (expected %s, %s or %s)",
			backend, BackendGit, BackendGoGit, BackendNone)
	}
}

// None is a provider with no version-control context.
type None struct{}

// RemoteURL implements Provider.
func (None) RemoteURL(context.Context, string) (string, bool) { return "", false }

// DefaultRef implements Provider.
func (None) DefaultRef(context.Context) (string, bool) { return "", false }

// CurrentBranch implements Provider.
func (None) CurrentBranch(context.Context) (string, bool) { return "", false }

// CurrentCommit implements Provider.
func (None) CurrentCommit(context.Context) (string, bool) { return "", false }
