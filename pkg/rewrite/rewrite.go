// Package rewrite adapts filesystem path references embedded in text from
// one host's home-directory convention to another's. Rules are literal
// substitutions applied in order, each one seeing the output of the rules
// before it.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Rule replaces every occurrence of From with To.
type Rule struct {
	From string `mapstructure:"from" json:"from" yaml:"from"`
	To   string `mapstructure:"to" json:"to" yaml:"to"`
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.From, r.To)
}

// Rules is an ordered rule table. When one matcher is a prefix of another
// the longer one must come first.
type Rules []Rule

// Validate reports ordering mistakes in the table. A nil result means every
// rule can fire and no replacement is picked up again by a later rule.
func (rs Rules) Validate() error {
	var result *multierror.Error

	for i, rule := range rs {
		if rule.From == "" {
			result = multierror.Append(result, errors.Errorf("rule %d has an empty matcher", i+1))
			continue
		}

		for j := i + 1; j < len(rs); j++ {
			later := rs[j]
			if later.From == "" {
				continue
			}
			if strings.HasPrefix(later.From, rule.From) {
				result = multierror.Append(result, errors.Errorf(
					"rule %d (%q) is shadowed by rule %d (%q): move the longer matcher first",
					j+1, later.From, i+1, rule.From))
			}
			if strings.Contains(rule.To, later.From) {
				result = multierror.Append(result, errors.Errorf(
					"rule %d replacement %q is rewritten again by rule %d (%q)",
					i+1, rule.To, j+1, later.From))
			}
		}
	}

	return result.ErrorOrNil()
}

// Rewriter applies a rule table to text.
type Rewriter struct {
	rules Rules
}

// New creates a Rewriter over a copy of rules.
func New(rules Rules) *Rewriter {
	cp := make(Rules, len(rules))
	copy(cp, rules)
	return &Rewriter{rules: cp}
}

// Rewrite returns content with each rule applied in order. Matchers are
// literal text, never patterns.
func (r *Rewriter) Rewrite(content string) string {
	for _, rule := range r.rules {
		if rule.From == "" {
			continue
		}
		content = strings.ReplaceAll(content, rule.From, rule.To)
	}
	return content
}
