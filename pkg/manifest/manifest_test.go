package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jingkaihe/skillport/pkg/provenance"
	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCountFiles(t *testing.T) {
	skillRoot := t.TempDir()
	touch(t, skillRoot, "references/commands/a.md")
	touch(t, skillRoot, "references/commands/b.md")
	touch(t, skillRoot, "references/commands/notes.txt")
	touch(t, skillRoot, "references/templates/summary.md")
	touch(t, skillRoot, "references/templates/config.json")
	touch(t, skillRoot, "references/templates/other.json")
	touch(t, skillRoot, "references/references/deep/nested/doc.md")

	counts, err := CountFiles(skillRoot, scaffold.DefaultCategories("get-shit-done"), ".md")
	require.NoError(t, err)

	assert.Equal(t, Counts{
		{Name: "commands", Files: 2},
		{Name: "workflows", Files: 0},
		{Name: "agents", Files: 0},
		{Name: "references", Files: 1},
		{Name: "templates", Files: 2},
	}, counts)
	assert.Equal(t, 2, counts.Get("templates"))
	assert.Equal(t, 0, counts.Get("missing"))
}

func TestEncode(t *testing.T) {
	m := New("gsd-codex", provenance.Info{
		Repo:   provenance.LocalRepo,
		Ref:    provenance.DefaultBranch,
		Commit: provenance.NoCommit,
	}, Counts{
		{Name: "commands", Files: 3},
		{Name: "workflows", Files: 1},
		{Name: "agents", Files: 0},
		{Name: "references", Files: 2},
		{Name: "templates", Files: 4},
	})

	data, err := m.Encode()
	require.NoError(t, err)

	expected := `{
  "source_repo": "local-repo",
  "source_ref": "main",
  "source_commit": "local-repo",
  "generated_skill": "gsd-codex",
  "counts": {
    "commands": 3,
    "workflows": 1,
    "agents": 0,
    "references": 2,
    "templates": 4
  }
}
`
	assert.Equal(t, expected, string(data))
}

func TestEncodeEmptyCounts(t *testing.T) {
	data, err := New("s", provenance.Info{}, nil).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"counts": {}`)
}

func TestWriteAndRead(t *testing.T) {
	skillRoot := t.TempDir()
	m := New("gsd-codex", provenance.Info{
		Repo:   "https://github.com/acme/gsd.git",
		Ref:    "develop",
		Commit: "0123abcd",
	}, Counts{{Name: "templates", Files: 2}, {Name: "agents", Files: 1}})

	require.NoError(t, Write(context.Background(), skillRoot, m))

	got, err := Read(skillRoot)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, "templates", got.Counts[0].Name)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"counts": []}`), 0o644))
	_, err = Read(dir)
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"source_repo", "source_ref", "source_commit", "generated_skill", "counts"} {
		assert.Contains(t, props, key)
	}

	counts := props["counts"].(map[string]interface{})
	assert.Equal(t, "object", counts["type"])
	assert.Equal(t, "integer", counts["additionalProperties"].(map[string]interface{})["type"])
}

func TestRenderSkill(t *testing.T) {
	data, err := DefaultDescriptor("gsd-codex").RenderSkill()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "---\nname: gsd-codex\ndescription: Adapt the official"))
	assert.Contains(t, text, "# GSD for Codex")
	assert.Contains(t, text, "- Generated index: `references/INDEX.md`")
	assert.True(t, strings.HasSuffix(text, "checks.\n"))
}

func TestRenderInterface(t *testing.T) {
	data, err := DefaultDescriptor("gsd-codex").RenderInterface()
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "interface:\n"))
	assert.Contains(t, text, `  display_name: "GSD Codex"`)
	assert.Contains(t, text, `  short_description: "Get Shit Done workflow for Codex"`)
	assert.Contains(t, text, `  default_prompt: "Apply the official GSD workflow`)

	var decoded interfaceFile
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "GSD Codex", decoded.Interface.DisplayName)
	assert.Equal(t,
		"Apply the official GSD workflow in this repository and execute the next concrete command safely.",
		decoded.Interface.DefaultPrompt)
}

func TestWriteDescriptors(t *testing.T) {
	skillRoot := t.TempDir()
	require.NoError(t, WriteDescriptors(skillRoot, DefaultDescriptor("gsd-codex")))

	assert.FileExists(t, filepath.Join(skillRoot, SkillFileName))
	assert.FileExists(t, filepath.Join(skillRoot, "agents", "openai.yaml"))
}
