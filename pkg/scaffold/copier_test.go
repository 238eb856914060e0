package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jingkaihe/skillport/pkg/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, content []byte, mode os.FileMode) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, mode))
}

func readFile(t *testing.T, root, rel string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return data
}

func testRewriter() *rewrite.Rewriter {
	return rewrite.New(rewrite.HostRules(rewrite.HostMapping{
		SourceHome: "~/.claude",
		TargetHome: "~/.codex/skills",
		SkillName:  "gsd-codex",
		RuntimeDir: "get-shit-done",
	}))
}

func TestCopyCategories(t *testing.T) {
	root := t.TempDir()
	skillRoot := filepath.Join(t.TempDir(), "gsd-codex")

	writeFile(t, root, "commands/gsd/plan.md", []byte("see ~/.claude/get-shit-done/workflows/plan.md"), 0o644)
	writeFile(t, root, "commands/gsd/plan.bak.md", []byte("old"), 0o644)
	writeFile(t, root, "commands/gsd/notes.txt", []byte("not markdown"), 0o644)
	writeFile(t, root, "agents/gsd-planner.md", []byte("agent ~/.claude/agents/gsd-executor.md"), 0o644)
	writeFile(t, root, "agents/README.json", []byte("{}"), 0o644)
	writeFile(t, root, "get-shit-done/workflows/plan.md", []byte("wf"), 0o644)
	writeFile(t, root, "get-shit-done/templates/config.json", []byte(`{"home":"~/.claude/"}`), 0o644)
	writeFile(t, root, "get-shit-done/bin/gsd-tools.js", []byte("require('~/.claude/get-shit-done/lib')"), 0o755)

	copier := NewCopier(root, skillRoot, testRewriter())
	result, err := copier.Copy(context.Background(), DefaultCategories("get-shit-done"), &RuntimeTree{
		Source: "get-shit-done",
		Dest:   "get-shit-done",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied["commands"])
	assert.Equal(t, 1, result.Copied["agents"])
	assert.Equal(t, 1, result.Copied["workflows"])
	assert.Equal(t, 0, result.Copied["references"])
	assert.Equal(t, 1, result.Copied["templates"])
	assert.Equal(t, 3, result.Copied["get-shit-done"])

	assert.Equal(t,
		"see ~/.codex/skills/gsd-codex/get-shit-done/workflows/plan.md",
		string(readFile(t, skillRoot, "references/commands/plan.md")))
	assert.NoFileExists(t, filepath.Join(skillRoot, "references/commands/plan.bak.md"))
	assert.NoFileExists(t, filepath.Join(skillRoot, "references/commands/notes.txt"))

	assert.Equal(t,
		"agent ~/.codex/skills/gsd-codex/references/agents/gsd-executor.md",
		string(readFile(t, skillRoot, "references/agents/gsd-planner.md")))
	assert.NoFileExists(t, filepath.Join(skillRoot, "references/agents/README.json"))

	assert.Equal(t,
		`{"home":"~/.codex/skills/gsd-codex/"}`,
		string(readFile(t, skillRoot, "references/templates/config.json")))
	assert.Equal(t,
		"require('~/.codex/skills/gsd-codex/get-shit-done/lib')",
		string(readFile(t, skillRoot, "get-shit-done/bin/gsd-tools.js")))
}

func TestCopyPreservesBinaryFiles(t *testing.T) {
	root := t.TempDir()
	skillRoot := t.TempDir()

	payload := append([]byte{0x00, 0xff, 0xfe}, []byte("~/.claude/get-shit-done/")...)
	payload = append(payload, 0x80, 0x81)
	writeFile(t, root, "get-shit-done/assets/logo.png", payload, 0o644)

	copier := NewCopier(root, skillRoot, testRewriter())
	_, err := copier.Copy(context.Background(), nil, &RuntimeTree{Source: "get-shit-done", Dest: "get-shit-done"})
	require.NoError(t, err)

	assert.Equal(t, payload, readFile(t, skillRoot, "get-shit-done/assets/logo.png"))
}

func TestCopyMissingSourceIsEmpty(t *testing.T) {
	root := t.TempDir()
	skillRoot := t.TempDir()

	copier := NewCopier(root, skillRoot, testRewriter())
	result, err := copier.Copy(context.Background(), DefaultCategories("get-shit-done"), &RuntimeTree{
		Source: "get-shit-done",
		Dest:   "get-shit-done",
	})
	require.NoError(t, err)

	for _, n := range result.Copied {
		assert.Zero(t, n)
	}
	assert.NoDirExists(t, filepath.Join(skillRoot, "references", "commands"))
}

func TestCopyKeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	root := t.TempDir()
	skillRoot := t.TempDir()
	writeFile(t, root, "get-shit-done/bin/run.sh", []byte("#!/bin/sh\necho ~/.claude/cache/x\n"), 0o755)

	copier := NewCopier(root, skillRoot, testRewriter())
	_, err := copier.Copy(context.Background(), nil, &RuntimeTree{Source: "get-shit-done", Dest: "get-shit-done"})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(skillRoot, "get-shit-done", "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\necho ~/.codex/skills/gsd-codex/cache/x\n",
		string(readFile(t, skillRoot, "get-shit-done/bin/run.sh")))
}

func TestCopyUnreadableSourceFails(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("requires a non-root unix user")
	}

	root := t.TempDir()
	skillRoot := t.TempDir()
	writeFile(t, root, "agents/locked.md", []byte("x"), 0o000)

	copier := NewCopier(root, skillRoot, testRewriter())
	_, err := copier.Copy(context.Background(), DefaultCategories("get-shit-done"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to copy agents")
}

func TestIsText(t *testing.T) {
	copier := NewCopier("", "", nil)

	assert.True(t, copier.IsText("a.md"))
	assert.True(t, copier.IsText("A.MD"))
	assert.True(t, copier.IsText("dir/run.bash"))
	assert.False(t, copier.IsText("logo.png"))
	assert.False(t, copier.IsText("Makefile"))

	custom := NewCopier("", "", nil, WithTextExtensions(".txt"))
	assert.True(t, custom.IsText("a.txt"))
	assert.False(t, custom.IsText("a.md"))
}

func TestCategoryValidate(t *testing.T) {
	for _, cat := range DefaultCategories("get-shit-done") {
		assert.NoError(t, cat.Validate(), cat.Name)
	}

	assert.Error(t, Category{Dest: "x"}.Validate())
	assert.Error(t, Category{Name: "x"}.Validate())
	assert.Error(t, Category{Name: "x", Dest: "/abs"}.Validate())
	assert.Error(t, Category{Name: "x", Dest: "y", Include: []string{"[bad"}}.Validate())
}

func TestCategoryCountFilter(t *testing.T) {
	cats := DefaultCategories("get-shit-done")

	commands := cats[0].CountFilter(".md")
	assert.True(t, commands("", "a.md"))
	assert.False(t, commands("", "config.json"))

	templates := cats[4].CountFilter(".md")
	assert.True(t, templates("", "a.md"))
	assert.True(t, templates("", "config.json"))
	assert.False(t, templates("", "other.json"))
}

func TestOrderBy(t *testing.T) {
	names := func(cats []Category) []string {
		out := make([]string, 0, len(cats))
		for _, c := range cats {
			out = append(out, c.Name)
		}
		return out
	}

	ordered := OrderBy(DefaultCategories("get-shit-done"), DefaultManifestOrder())
	assert.Equal(t, []string{"commands", "agents", "workflows", "references", "templates"}, names(ordered))

	custom := []Category{{Name: "docs"}, {Name: "templates"}, {Name: "commands"}}
	assert.Equal(t, []string{"commands", "templates", "docs"}, names(OrderBy(custom, DefaultManifestOrder())))
	assert.Equal(t, []string{"docs", "templates", "commands"}, names(OrderBy(custom, nil)))
}

func TestCopyKeepsEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	skillRoot := t.TempDir()
	writeFile(t, root, "get-shit-done/templates/summary.md", []byte("s"), 0o644)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "get-shit-done", "templates", "empty"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "get-shit-done", "hooks"), 0o755))
	writeFile(t, root, "commands/gsd/drafts/notes.txt", []byte("skipped"), 0o644)

	copier := NewCopier(root, skillRoot, testRewriter())
	result, err := copier.Copy(context.Background(), DefaultCategories("get-shit-done"), &RuntimeTree{
		Source: "get-shit-done",
		Dest:   "get-shit-done",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied["templates"])
	assert.Equal(t, 0, result.Copied["commands"])
	assert.DirExists(t, filepath.Join(skillRoot, "references", "templates", "empty"))
	assert.DirExists(t, filepath.Join(skillRoot, "references", "commands", "drafts"))
	assert.NoFileExists(t, filepath.Join(skillRoot, "references", "commands", "drafts", "notes.txt"))
	assert.DirExists(t, filepath.Join(skillRoot, "get-shit-done", "hooks"))
	assert.DirExists(t, filepath.Join(skillRoot, "get-shit-done", "templates", "empty"))
}
