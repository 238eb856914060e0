package provenance

import (
	"context"
	"os/exec"
	"strings"

	"github.com/jingkaihe/skillport/pkg/logger"
)

// GitCLI answers provenance questions by running the git binary in dir.
type GitCLI struct {
	dir string
	bin string
}

// NewGitCLI creates a GitCLI provider for dir.
func NewGitCLI(dir string) *GitCLI {
	return &GitCLI{dir: dir, bin: "git"}
}

func (g *GitCLI) run(ctx context.Context, args ...string) (string, bool) {
	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Dir = g.dir

	output, err := cmd.Output()
	if err != nil {
		logger.G(ctx).WithError(err).WithField("args", strings.Join(args, " ")).Debug("git lookup failed")
		return "", false
	}

	out := strings.TrimSpace(string(output))
	return out, out != ""
}

// RemoteURL implements Provider.
func (g *GitCLI) RemoteURL(ctx context.Context, remote string) (string, bool) {
	return g.run(ctx, "remote", "get-url", remote)
}

// DefaultRef implements Provider.
func (g *GitCLI) DefaultRef(ctx context.Context) (string, bool) {
	head, ok := g.run(ctx, "symbolic-ref", "-q", "--short", "refs/remotes/origin/HEAD")
	if !ok {
		return "", false
	}
	return branchFromRemoteHead(head)
}

// CurrentBranch implements Provider.
func (g *GitCLI) CurrentBranch(ctx context.Context) (string, bool) {
	branch, ok := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if !ok || branch == "HEAD" {
		return "", false
	}
	return branch, true
}

// CurrentCommit implements Provider.
func (g *GitCLI) CurrentCommit(ctx context.Context) (string, bool) {
	return g.run(ctx, "rev-parse", "HEAD")
}

// branchFromRemoteHead keeps the last path element of the origin/HEAD
// target, so "origin/main" and "origin/release/1.x" become "main" and "1.x".
func branchFromRemoteHead(short string) (string, bool) {
	branch := short[strings.LastIndex(short, "/")+1:]
	if branch == "" || branch == "HEAD" {
		return "", false
	}
	return branch, true
}
