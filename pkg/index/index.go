// Package index renders the human-readable listing of a generated skill's
// documentation files.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jingkaihe/skillport/pkg/logger"
	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/jingkaihe/skillport/pkg/walk"
	"github.com/pkg/errors"
)

// FileName is the index file written under the references directory.
const FileName = "INDEX.md"

// Section is one category's listing.
type Section struct {
	Name  string
	Title string
	Files []string // relative to the category root, sorted
}

// Collect walks each category's destination subtree for files ending in
// docExt. Paths are sorted bytewise, so uppercase names sort before
// lowercase ones.
func Collect(skillRoot string, categories []scaffold.Category, docExt string) ([]Section, error) {
	sections := make([]Section, 0, len(categories))

	for _, cat := range categories {
		entries, err := walk.Files(cat.DestDir(skillRoot), walk.Extension(docExt))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s", cat.Name)
		}

		files := make([]string, 0, len(entries))
		for _, e := range entries {
			files = append(files, e.Rel)
		}
		sort.Strings(files)

		sections = append(sections, Section{
			Name:  cat.Name,
			Title: title(cat),
			Files: files,
		})
	}

	return sections, nil
}

// Render formats sections as a markdown document ending in one newline.
func Render(heading string, sections []Section) string {
	lines := []string{"# " + heading, ""}

	for _, s := range sections {
		lines = append(lines, fmt.Sprintf("## %s (%d)", s.Title, len(s.Files)))
		prefix := strings.ToLower(s.Title)
		for _, f := range s.Files {
			lines = append(lines, fmt.Sprintf("- `%s/%s`", prefix, f))
		}
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}

// Write collects, renders and writes the index to path.
func Write(ctx context.Context, path, heading, skillRoot string, categories []scaffold.Category, docExt string) error {
	sections, err := Collect(skillRoot, categories, docExt)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := os.WriteFile(path, []byte(Render(heading, sections)), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	logger.G(ctx).WithField("path", path).WithField("sections", len(sections)).Debug("wrote index")
	return nil
}

func title(cat scaffold.Category) string {
	if cat.Title != "" {
		return cat.Title
	}
	if cat.Name == "" {
		return ""
	}
	return strings.ToUpper(cat.Name[:1]) + cat.Name[1:]
}
