package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/rewrite"
	"github.com/jingkaihe/skillport/pkg/walk"
	"github.com/pkg/errors"
)

// Copier materializes source trees under a skill root.
type Copier struct {
	root      string
	skillRoot string
	rewriter  *rewrite.Rewriter
	textExts  map[string]struct{}
}

// CopierOption configures a Copier.
type CopierOption func(*Copier)

// WithTextExtensions replaces the set of rewritable extensions. Extensions
// are compared case-insensitively and must include the leading dot.
func WithTextExtensions(exts ...string) CopierOption {
	return func(c *Copier) {
		c.textExts = make(map[string]struct{}, len(exts))
		for _, ext := range exts {
			c.textExts[strings.ToLower(ext)] = struct{}{}
		}
	}
}

// NewCopier creates a Copier reading from root and writing under skillRoot.
func NewCopier(root, skillRoot string, rw *rewrite.Rewriter, opts ...CopierOption) *Copier {
	c := &Copier{
		root:      root,
		skillRoot: skillRoot,
		rewriter:  rw,
	}
	WithTextExtensions(DefaultTextExtensions()...)(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsText reports whether files named like path get their content rewritten.
func (c *Copier) IsText(path string) bool {
	_, ok := c.textExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CopyResult records how many files each tree contributed.
type CopyResult struct {
	Copied map[string]int
}

// Copy copies every category and then the runtime tree. The first read or
// write failure aborts the copy.
func (c *Copier) Copy(ctx context.Context, categories []Category, runtime *RuntimeTree) (*CopyResult, error) {
	result := &CopyResult{Copied: make(map[string]int, len(categories)+1)}

	for _, cat := range categories {
		n, err := c.CopyTree(ctx, cat.SourceDir(c.root), cat.DestDir(c.skillRoot), cat.Filter())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to copy %s", cat.Name)
		}
		result.Copied[cat.Name] = n
		logger.G(ctx).WithField("category", cat.Name).WithField("files", n).Debug("copied category")
	}

	if runtime != nil {
		src := filepath.Join(c.root, filepath.FromSlash(runtime.Source))
		dest := filepath.Join(c.skillRoot, filepath.FromSlash(runtime.Dest))
		n, err := c.CopyTree(ctx, src, dest, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to copy runtime assets")
		}
		result.Copied[runtime.Dest] = n
		logger.G(ctx).WithField("src", src).WithField("files", n).Debug("copied runtime assets")
	}

	return result, nil
}

// CopyTree mirrors src into dest: every directory is recreated, empty ones
// included, and the files accepted by pred are copied. A missing src copies
// nothing and creates nothing.
func (c *Copier) CopyTree(ctx context.Context, src, dest string, pred walk.Predicate) (int, error) {
	entries, err := walk.Tree(src, pred)
	if err != nil {
		return 0, err
	}
	if entries == nil {
		if _, err := os.Stat(src); err != nil {
			return 0, nil
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", dest)
	}

	copied := 0
	for _, entry := range entries {
		target := filepath.Join(dest, filepath.FromSlash(entry.Rel))
		if entry.Dir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return 0, errors.Wrapf(err, "failed to create %s", target)
			}
			continue
		}
		if err := c.copyFile(entry.Path, target); err != nil {
			return 0, err
		}
		copied++
		logger.G(ctx).WithField("src", entry.Path).WithField("dest", target).Trace("copied file")
	}

	return copied, nil
}

func (c *Copier) copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", src)
	}

	if c.IsText(src) && c.rewriter != nil {
		data = []byte(c.rewriter.Rewrite(string(data)))
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", dest)
	}

	if err := os.WriteFile(dest, data, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}

	return nil
}
