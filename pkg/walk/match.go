package walk

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// ValidatePatterns checks that every glob is well formed.
func ValidatePatterns(patterns ...string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Match builds a predicate over base names: a file is accepted when it
// matches at least one include pattern (or include is empty) and no exclude
// pattern. Patterns use doublestar syntax, so brace sets such as
// "*.{md,txt}" are allowed.
func Match(include, exclude []string) Predicate {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}

	return func(_ string, name string) bool {
		if len(include) > 0 && !anyMatch(include, name) {
			return false
		}
		return !anyMatch(exclude, name)
	}
}

// Extension returns a predicate accepting names ending in ext. Comparison is
// case-sensitive, so ".MD" does not match ".md".
func Extension(ext string) Predicate {
	return func(_ string, name string) bool {
		return strings.HasSuffix(name, ext)
	}
}

func anyMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
