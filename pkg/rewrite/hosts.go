package rewrite

import "strings"

// HostMapping describes where a skill lives on the source and target hosts.
type HostMapping struct {
	SourceHome string // e.g. "~/.claude"
	TargetHome string // e.g. "~/.codex/skills"
	SkillName  string // e.g. "gsd-codex"
	RuntimeDir string // e.g. "get-shit-done"
}

// HostRules derives the default table for a mapping. The runtime prefix is
// listed with its trailing separator first so the separator is carried into
// the replacement instead of being left for the catch-all root rule.
func HostRules(m HostMapping) Rules {
	src := strings.TrimRight(m.SourceHome, "/")
	skillRoot := strings.TrimRight(m.TargetHome, "/") + "/" + m.SkillName

	runtimeSrc := src + "/" + m.RuntimeDir
	runtimeDst := skillRoot + "/" + m.RuntimeDir

	return Rules{
		{From: runtimeSrc + "/", To: runtimeDst + "/"},
		{From: runtimeSrc, To: runtimeDst},
		{From: src + "/agents/", To: skillRoot + "/references/agents/"},
		{From: src + "/commands/", To: skillRoot + "/references/commands/"},
		{From: src + "/cache/", To: skillRoot + "/cache/"},
		{From: src + "/", To: skillRoot + "/"},
	}
}
