package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"
	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/walk"
	"github.com/pkg/errors"
)

// DriftKind classifies a difference between the skill on disk and a fresh
// generation.
type DriftKind string

const (
	// DriftMissing is a file generation would create.
	DriftMissing DriftKind = "missing"
	// DriftExtra is a file generation would delete.
	DriftExtra DriftKind = "extra"
	// DriftChanged is a file generation would rewrite.
	DriftChanged DriftKind = "changed"
)

// Drift is one file that differs.
type Drift struct {
	Path string // relative to the skill root, '/'-separated
	Kind DriftKind
	Diff string // unified diff from the current file to the generated one
}

// CheckResult lists every drifted file in path order.
type CheckResult struct {
	SkillRoot string
	Drifts    []Drift
}

// Clean reports whether the skill on disk is up to date.
func (r *CheckResult) Clean() bool {
	return len(r.Drifts) == 0
}

// Check generates the skill into a temporary directory and compares it with
// opts.SkillRoot without modifying it.
func Check(ctx context.Context, opts Options) (*CheckResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	tmp, err := os.MkdirTemp("", "skillport-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmp)

	fresh := opts
	fresh.SkillRoot = filepath.Join(tmp, filepath.Base(opts.SkillRoot))
	if _, err := generate(ctx, fresh); err != nil {
		return nil, errors.Wrap(err, "failed to generate reference skill")
	}

	if _, err := os.Stat(filepath.Dir(opts.SkillRoot)); err == nil {
		lock, err := acquireLock(opts.SkillRoot, true)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				logger.G(ctx).WithError(err).Warn("failed to release lock")
			}
		}()
	}

	drifts, err := compareTrees(opts.SkillRoot, fresh.SkillRoot)
	if err != nil {
		return nil, err
	}

	logger.G(ctx).WithField("dest", opts.SkillRoot).WithField("files", len(drifts)).Debug("checked skill")
	return &CheckResult{SkillRoot: opts.SkillRoot, Drifts: drifts}, nil
}

func compareTrees(current, generated string) ([]Drift, error) {
	have, err := listFiles(current)
	if err != nil {
		return nil, err
	}
	want, err := listFiles(generated)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(have)+len(want))
	for rel := range want {
		paths = append(paths, rel)
	}
	for rel := range have {
		if _, ok := want[rel]; !ok {
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)

	var drifts []Drift
	for _, rel := range paths {
		havePath, inCurrent := have[rel]
		wantPath, inGenerated := want[rel]

		var before, after []byte
		kind := DriftChanged
		if inCurrent {
			if before, err = os.ReadFile(havePath); err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", havePath)
			}
		} else {
			kind = DriftMissing
		}
		if inGenerated {
			if after, err = os.ReadFile(wantPath); err != nil {
				return nil, errors.Wrapf(err, "failed to read %s", wantPath)
			}
		} else {
			kind = DriftExtra
		}

		if kind == DriftChanged && bytes.Equal(before, after) {
			continue
		}
		drifts = append(drifts, Drift{Path: rel, Kind: kind, Diff: unified(rel, before, after)})
	}

	return drifts, nil
}

func listFiles(root string) (map[string]string, error) {
	entries, err := walk.Files(root, nil)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		files[e.Rel] = e.Path
	}
	return files, nil
}

func unified(rel string, before, after []byte) string {
	if !utf8.Valid(before) || !utf8.Valid(after) {
		return "Binary files a/" + rel + " and b/" + rel + " differ\n"
	}
	return udiff.Unified("a/"+rel, "b/"+rel, string(before), string(after))
}
