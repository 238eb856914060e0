package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Load reads <dir>/SKILL.md and returns the skill it describes. Both name
// and description are required.
func Load(dir string) (*Skill, error) {
	path := filepath.Join(dir, FileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	md, err := parseFrontmatter(content)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}
	if md.Name == "" {
		return nil, errors.Errorf("%s: skill name is required in frontmatter", path)
	}
	if md.Description == "" {
		return nil, errors.Errorf("%s: skill description is required in frontmatter", path)
	}

	return &Skill{
		Name:        md.Name,
		Description: md.Description,
		Directory:   dir,
		Content:     extractBodyContent(string(content)),
	}, nil
}

// Verify loads the skill in dir and checks it is named name.
func Verify(dir, name string) (*Skill, error) {
	skill, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if skill.Name != name {
		return nil, errors.Errorf("skill in %s is named %q, expected %q", dir, skill.Name, name)
	}
	return skill, nil
}

func parseFrontmatter(content []byte) (Metadata, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return Metadata{}, errors.Wrap(err, "failed to parse markdown")
	}

	values, err := meta.TryGet(pctx)
	if err != nil {
		return Metadata{}, errors.Wrap(err, "failed to parse frontmatter")
	}
	if values == nil {
		return Metadata{}, errors.New("missing frontmatter")
	}

	name, _ := values["name"].(string)
	description, _ := values["description"].(string)
	return Metadata{Name: name, Description: description}, nil
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}

	return content
}
