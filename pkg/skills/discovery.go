package skills

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// Discovery finds skills in a list of directories. Earlier directories take
// precedence when two hold a skill with the same name.
type Discovery struct {
	skillDirs []string
}

// Option is a function that configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs searches the repo-local output directory and the user's
// Codex skills directory.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./skills",
			filepath.Join(homeDir, ".codex", "skills"),
		}
		return nil
	}
}

// NewDiscovery creates a Discovery. Without options it uses WithDefaultDirs.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Dirs returns the searched directories in precedence order.
func (d *Discovery) Dirs() []string {
	return d.skillDirs
}

// DiscoverSkills returns every valid skill found, sorted by name. Entries
// that are not directories or lack a valid SKILL.md are skipped.
func (d *Discovery) DiscoverSkills() ([]*Skill, error) {
	seen := make(map[string]bool)
	var found []*Skill

	for _, dir := range d.skillDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			// os.Stat follows symlinks so linked skill directories count.
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			skill, err := Load(entryPath)
			if err != nil || seen[skill.Name] {
				continue
			}
			seen[skill.Name] = true
			found = append(found, skill)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	return found, nil
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	all, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	for _, s := range all {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, errors.Errorf("skill '%s' not found", name)
}

// FilterByAllowlist keeps the skills named in allowed, preserving order.
// An empty allowlist keeps everything.
func FilterByAllowlist(all []*Skill, allowed []string) []*Skill {
	if len(allowed) == 0 {
		return all
	}

	keep := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		keep[name] = true
	}

	var filtered []*Skill
	for _, s := range all {
		if keep[s.Name] {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
