package manifest

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Descriptor file locations relative to the skill root.
const (
	SkillFileName     = "SKILL.md"
	InterfaceFileName = "agents/openai.yaml"
)

//go:embed templates/SKILL.md.tmpl
var skillTemplateText string

var skillTemplate = template.Must(template.New("SKILL.md").Parse(skillTemplateText))

// Descriptor holds the text of the two static descriptor files.
type Descriptor struct {
	Name             string
	Title            string
	Description      string
	DisplayName      string
	ShortDescription string
	DefaultPrompt    string
}

// DefaultDescriptor returns the GSD descriptor for skill name.
func DefaultDescriptor(name string) Descriptor {
	return Descriptor{
		Name:  name,
		Title: "GSD for Codex",
		Description: "Adapt the official Get Shit Done (GSD) workflow for Codex sessions. " +
			"Use when the user asks to run GSD-style project planning/execution flows " +
			"(for example /gsd:new-project, /gsd:plan-phase, /gsd:execute-phase, /gsd:verify-work, " +
			"debugging, roadmap updates), and Codex needs the corresponding command, workflow, " +
			"agent, or template references.",
		DisplayName:      "GSD Codex",
		ShortDescription: "Get Shit Done workflow for Codex",
		DefaultPrompt:    "Apply the official GSD workflow in this repository and execute the next concrete command safely.",
	}
}

// RenderSkill returns the SKILL.md document.
func (d Descriptor) RenderSkill() ([]byte, error) {
	var buf bytes.Buffer
	if err := skillTemplate.Execute(&buf, d); err != nil {
		return nil, errors.Wrap(err, "failed to render SKILL.md")
	}
	return buf.Bytes(), nil
}

type interfaceFile struct {
	Interface interfaceBlock `yaml:"interface"`
}

type interfaceBlock struct {
	DisplayName      string `yaml:"display_name"`
	ShortDescription string `yaml:"short_description"`
	DefaultPrompt    string `yaml:"default_prompt"`
}

// RenderInterface returns the agents/openai.yaml document with every value
// double-quoted.
func (d Descriptor) RenderInterface() ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(interfaceFile{Interface: interfaceBlock{
		DisplayName:      d.DisplayName,
		ShortDescription: d.ShortDescription,
		DefaultPrompt:    d.DefaultPrompt,
	}}); err != nil {
		return nil, errors.Wrap(err, "failed to encode interface descriptor")
	}
	quoteValues(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, errors.Wrap(err, "failed to render interface descriptor")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to render interface descriptor")
	}
	return buf.Bytes(), nil
}

// quoteValues marks every mapping value scalar as double-quoted.
func quoteValues(n *yaml.Node) {
	if n.Kind == yaml.MappingNode {
		for i := 1; i < len(n.Content); i += 2 {
			if v := n.Content[i]; v.Kind == yaml.ScalarNode {
				v.Style = yaml.DoubleQuotedStyle
			}
		}
	}
	for _, c := range n.Content {
		quoteValues(c)
	}
}

// WriteDescriptors writes SKILL.md and agents/openai.yaml under skillRoot.
func WriteDescriptors(skillRoot string, d Descriptor) error {
	skill, err := d.RenderSkill()
	if err != nil {
		return err
	}
	iface, err := d.RenderInterface()
	if err != nil {
		return err
	}

	files := []struct {
		rel  string
		data []byte
	}{
		{SkillFileName, skill},
		{InterfaceFileName, iface},
	}
	for _, f := range files {
		path := filepath.Join(skillRoot, filepath.FromSlash(f.rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", path)
		}
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
	}

	return nil
}
