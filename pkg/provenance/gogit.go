package provenance

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/jingkaihe/skillport/pkg/logger"
)

// GoGit answers provenance questions in-process with go-git, so no git
// binary is needed.
type GoGit struct {
	dir string
}

// NewGoGit creates a GoGit provider for dir. dir may be any path inside the
// working tree.
func NewGoGit(dir string) *GoGit {
	return &GoGit{dir: dir}
}

func (g *GoGit) open(ctx context.Context) (*gogit.Repository, bool) {
	repo, err := gogit.PlainOpenWithOptions(g.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.G(ctx).WithError(err).WithField("dir", g.dir).Debug("not a git repository")
		return nil, false
	}
	return repo, true
}

// RemoteURL implements Provider.
func (g *GoGit) RemoteURL(ctx context.Context, remote string) (string, bool) {
	repo, ok := g.open(ctx)
	if !ok {
		return "", false
	}

	r, err := repo.Remote(remote)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("remote", remote).Debug("remote lookup failed")
		return "", false
	}

	urls := r.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", false
	}
	return urls[0], true
}

// DefaultRef implements Provider.
func (g *GoGit) DefaultRef(ctx context.Context) (string, bool) {
	repo, ok := g.open(ctx)
	if !ok {
		return "", false
	}

	ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName("origin"), false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return "", false
	}
	return branchFromRemoteHead(ref.Target().Short())
}

// CurrentBranch implements Provider.
func (g *GoGit) CurrentBranch(ctx context.Context) (string, bool) {
	repo, ok := g.open(ctx)
	if !ok {
		return "", false
	}

	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return "", false
	}
	return head.Name().Short(), true
}

// CurrentCommit implements Provider.
func (g *GoGit) CurrentCommit(ctx context.Context) (string, bool) {
	repo, ok := g.open(ctx)
	if !ok {
		return "", false
	}

	head, err := repo.Head()
	if err != nil {
		logger.G(ctx).WithError(err).Debug("HEAD lookup failed")
		return "", false
	}
	return head.Hash().String(), true
}
