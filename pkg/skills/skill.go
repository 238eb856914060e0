// Package skills reads skill bundles: directories holding a SKILL.md file
// whose YAML frontmatter names and describes the skill.
package skills

// FileName is the descriptor every skill directory carries.
const FileName = "SKILL.md"

// Skill is a loaded skill bundle.
type Skill struct {
	Name        string // name from frontmatter
	Description string // description from frontmatter
	Directory   string // path of the skill directory
	Content     string // SKILL.md body without frontmatter
}

// Metadata represents the YAML frontmatter in SKILL.md files
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
