package provenance

import (
	"context"

	"github.com/jingkaihe/skillport/pkg/logger"
)

// Sentinels used when no source yields a value.
const (
	LocalRepo     = "local-repo"
	DefaultBranch = "main"
	NoCommit      = "local-repo"
)

// Remotes are tried in this order for the repository identity.
var Remotes = []string{"origin", "upstream"}

// Info is the provenance recorded in the manifest.
type Info struct {
	Repo   string
	Ref    string
	Commit string
}

// Resolve runs every fallback chain. packageFile may be empty to skip the
// descriptor lookup. Resolve never fails.
func Resolve(ctx context.Context, p Provider, packageFile string) Info {
	return Info{
		Repo:   ResolveRepo(ctx, p, packageFile),
		Ref:    ResolveRef(ctx, p),
		Commit: ResolveCommit(ctx, p),
	}
}

// ResolveRepo returns the first recognised repository URL from the remotes
// and then the package descriptor, or LocalRepo.
func ResolveRepo(ctx context.Context, p Provider, packageFile string) string {
	for _, remote := range Remotes {
		raw, ok := p.RemoteURL(ctx, remote)
		if !ok {
			continue
		}
		if url := NormalizeRepoURL(raw); url != "" {
			return url
		}
		logger.G(ctx).WithField("remote", remote).WithField("url", raw).Debug("remote url not recognised")
	}

	if packageFile != "" {
		raw, err := PackageRepoURL(packageFile)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("package descriptor lookup failed")
		} else if url := NormalizeRepoURL(raw); url != "" {
			return url
		}
	}

	return LocalRepo
}

// ResolveRef returns origin's default branch, then the current branch, then
// DefaultBranch.
func ResolveRef(ctx context.Context, p Provider) string {
	if ref, ok := p.DefaultRef(ctx); ok {
		return ref
	}
	if branch, ok := p.CurrentBranch(ctx); ok {
		return branch
	}
	return DefaultBranch
}

// ResolveCommit returns HEAD's hash or NoCommit.
func ResolveCommit(ctx context.Context, p Provider) string {
	if commit, ok := p.CurrentCommit(ctx); ok {
		return commit
	}
	return NoCommit
}
