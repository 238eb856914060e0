package provenance

import (
	"regexp"
	"strings"
)

var (
	httpsRepoPattern = regexp.MustCompile(`(?i)^https?://(?:www\.)?github\.com/([^/]+)/([^/?#]+?)(?:\.git)?(?:[/?#].*)?$`)
	sshRepoPattern   = regexp.MustCompile(`(?i)^git@github\.com:([^/]+)/([^/.]+?)(?:\.git)?$`)
)

// NormalizeRepoURL turns a GitHub HTTPS or SSH shorthand URL into
// https://github.com/<owner>/<repo>.git. Anything else yields "".
func NormalizeRepoURL(raw string) string {
	source := strings.TrimPrefix(strings.TrimSpace(raw), "git+")
	if source == "" {
		return ""
	}

	if m := httpsRepoPattern.FindStringSubmatch(source); m != nil {
		return "https://github.com/" + m[1] + "/" + m[2] + ".git"
	}
	if m := sshRepoPattern.FindStringSubmatch(source); m != nil {
		return "https://github.com/" + m[1] + "/" + m[2] + ".git"
	}

	return ""
}
