package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCollectSortsFiles(t *testing.T) {
	skillRoot := t.TempDir()
	touch(t, skillRoot, "references/commands/b.md")
	touch(t, skillRoot, "references/commands/a.md")
	touch(t, skillRoot, "references/commands/c.md")
	touch(t, skillRoot, "references/commands/Z.md")
	touch(t, skillRoot, "references/commands/sub/a.md")
	touch(t, skillRoot, "references/commands/skip.json")

	sections, err := Collect(skillRoot, scaffold.DefaultCategories("get-shit-done")[:1], ".md")
	require.NoError(t, err)
	require.Len(t, sections, 1)

	assert.Equal(t, "commands", sections[0].Name)
	assert.Equal(t, "Commands", sections[0].Title)
	assert.Equal(t, []string{"Z.md", "a.md", "b.md", "c.md", "sub/a.md"}, sections[0].Files)
}

func TestRender(t *testing.T) {
	sections := []Section{
		{Name: "commands", Title: "Commands", Files: []string{"a.md", "b.md"}},
		{Name: "workflows", Title: "Workflows"},
		{Name: "templates", Title: "Templates", Files: []string{"research/summary.md"}},
	}

	expected := "# GSD Codex Index\n" +
		"\n" +
		"## Commands (2)\n" +
		"- `commands/a.md`\n" +
		"- `commands/b.md`\n" +
		"\n" +
		"## Workflows (0)\n" +
		"\n" +
		"## Templates (1)\n" +
		"- `templates/research/summary.md`\n"

	assert.Equal(t, expected, Render("GSD Codex Index", sections))
}

func TestRenderNoSections(t *testing.T) {
	assert.Equal(t, "# Empty\n", Render("Empty", nil))
}

func TestWrite(t *testing.T) {
	skillRoot := t.TempDir()
	touch(t, skillRoot, "references/workflows/plan.md")
	touch(t, skillRoot, "references/agents/gsd-planner.md")
	touch(t, skillRoot, "references/templates/config.json")

	path := filepath.Join(skillRoot, "references", FileName)
	err := Write(context.Background(), path, "GSD Codex Index", skillRoot, scaffold.DefaultCategories("get-shit-done"), ".md")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "# GSD Codex Index\n\n" +
		"## Commands (0)\n\n" +
		"## Workflows (1)\n- `workflows/plan.md`\n\n" +
		"## Agents (1)\n- `agents/gsd-planner.md`\n\n" +
		"## References (0)\n\n" +
		"## Templates (0)\n"
	assert.Equal(t, expected, string(data))
}

func TestTitleFallback(t *testing.T) {
	assert.Equal(t, "Recipes", title(scaffold.Category{Name: "recipes"}))
	assert.Equal(t, "Docs", title(scaffold.Category{Name: "docs", Title: "Docs"}))
	assert.Equal(t, "", title(scaffold.Category{}))
}
