// Package scaffold copies the curated parts of a source documentation tree
// into a skill directory, rewriting host paths inside text files on the way.
package scaffold

import (
	"path"
	"path/filepath"

	"github.com/jingkaihe/skillport/pkg/walk"
	"github.com/pkg/errors"
)

// Category is one named subset of the source tree with its own destination
// and inclusion rule. Source is relative to the project root and Dest is
// relative to the skill root; both use '/' separators.
type Category struct {
	Name    string   `mapstructure:"name" json:"name" yaml:"name"`
	Title   string   `mapstructure:"title" json:"title" yaml:"title"`
	Source  string   `mapstructure:"source" json:"source" yaml:"source"`
	Dest    string   `mapstructure:"dest" json:"dest" yaml:"dest"`
	Include []string `mapstructure:"include" json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `mapstructure:"exclude" json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// Count selects the files reported in the manifest. Empty means files
	// ending in the documentation extension.
	Count []string `mapstructure:"count" json:"count,omitempty" yaml:"count,omitempty"`
}

// Filter returns the copy-time predicate.
func (c Category) Filter() walk.Predicate {
	return walk.Match(c.Include, c.Exclude)
}

// CountFilter returns the predicate used when counting copied files.
func (c Category) CountFilter(docExt string) walk.Predicate {
	if len(c.Count) == 0 {
		return walk.Extension(docExt)
	}
	return walk.Match(c.Count, nil)
}

// SourceDir resolves the category's source tree under root.
func (c Category) SourceDir(root string) string {
	return filepath.Join(root, filepath.FromSlash(c.Source))
}

// DestDir resolves the category's destination subtree under skillRoot.
func (c Category) DestDir(skillRoot string) string {
	return filepath.Join(skillRoot, filepath.FromSlash(c.Dest))
}

// Validate checks the category is usable.
func (c Category) Validate() error {
	if c.Name == "" {
		return errors.New("category name is required")
	}
	if c.Dest == "" {
		return errors.Errorf("category %s: dest is required", c.Name)
	}
	if path.IsAbs(c.Dest) || filepath.IsAbs(c.Dest) {
		return errors.Errorf("category %s: dest %q must be relative to the skill root", c.Name, c.Dest)
	}
	if err := walk.ValidatePatterns(c.Include...); err != nil {
		return errors.Wrapf(err, "category %s include", c.Name)
	}
	if err := walk.ValidatePatterns(c.Exclude...); err != nil {
		return errors.Wrapf(err, "category %s exclude", c.Name)
	}
	if err := walk.ValidatePatterns(c.Count...); err != nil {
		return errors.Wrapf(err, "category %s count", c.Name)
	}
	return nil
}

// DefaultCategories returns the GSD layout in index order.
// runtimeDir is the directory holding workflows, references and templates.
func DefaultCategories(runtimeDir string) []Category {
	return []Category{
		{
			Name:    "commands",
			Title:   "Commands",
			Source:  "commands/gsd",
			Dest:    "references/commands",
			Include: []string{"*.md"},
			Exclude: []string{"*.bak.md"},
		},
		{
			Name:   "workflows",
			Title:  "Workflows",
			Source: path.Join(runtimeDir, "workflows"),
			Dest:   "references/workflows",
		},
		{
			Name:    "agents",
			Title:   "Agents",
			Source:  "agents",
			Dest:    "references/agents",
			Include: []string{"*.md"},
		},
		{
			Name:   "references",
			Title:  "References",
			Source: path.Join(runtimeDir, "references"),
			Dest:   "references/references",
		},
		{
			Name:   "templates",
			Title:  "Templates",
			Source: path.Join(runtimeDir, "templates"),
			Dest:   "references/templates",
			Count:  []string{"*.md", "config.json"},
		},
	}
}

// DefaultManifestOrder is the order of the category counts in upstream.json.
func DefaultManifestOrder() []string {
	return []string{"commands", "agents", "workflows", "references", "templates"}
}

// OrderBy returns categories with those named in order first, in that order,
// followed by the rest in their original order. Unknown names are ignored.
func OrderBy(categories []Category, order []string) []Category {
	placed := make(map[string]bool, len(order))
	out := make([]Category, 0, len(categories))

	for _, name := range order {
		if placed[name] {
			continue
		}
		for _, cat := range categories {
			if cat.Name == name {
				out = append(out, cat)
				placed[name] = true
				break
			}
		}
	}
	for _, cat := range categories {
		if !placed[cat.Name] {
			out = append(out, cat)
		}
	}
	return out
}

// RuntimeTree is the uncategorized helper tree copied wholesale.
type RuntimeTree struct {
	Source string
	Dest   string
}

// DefaultTextExtensions lists the extensions whose content is rewritten.
func DefaultTextExtensions() []string {
	return []string{".md", ".js", ".json", ".yaml", ".yml", ".toml", ".txt", ".sh", ".bash"}
}
