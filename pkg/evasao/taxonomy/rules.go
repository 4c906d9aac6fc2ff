// Package taxonomy classifies free-text admission and dropout methods into
// fixed categories with ordered regular-expression rules.
package taxonomy

import (
	"regexp"

	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// Other is the fallback category when no rule matches.
const Other = "Other"

// Rule assigns Category (and optionally Detail) when any pattern matches.
type Rule struct {
	Category string
	Detail   string
	Patterns []*regexp.Regexp
}

// Matches reports whether any pattern finds a match in folded text.
func (r Rule) Matches(folded string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(folded) {
			return true
		}
	}
	return false
}

// Result is the outcome of a classification.
type Result struct {
	Category string
	Detail   string
	// Rule is the index of the matching rule, or -1 for the fallback.
	Rule int
}

// Classifier is an ordered decision list: rules are tried in declaration
// order and the first match wins.
type Classifier struct {
	name     string
	rules    []Rule
	fallback Result
}

// NewClassifier creates a classifier. fallbackDetail is reported with the
// Other category when nothing matches.
func NewClassifier(name string, rules []Rule, fallbackDetail string) *Classifier {
	return &Classifier{
		name:     name,
		rules:    rules,
		fallback: Result{Category: Other, Detail: fallbackDetail, Rule: -1},
	}
}

// Name returns the classifier name.
func (c *Classifier) Name() string { return c.name }

// Rules returns a copy of the rule list.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify folds text, collapses whitespace and evaluates the rules.
func (c *Classifier) Classify(text any) Result {
	folded := textnorm.FoldCollapse(text)
	for i, r := range c.rules {
		if r.Matches(folded) {
			return Result{Category: r.Category, Detail: r.Detail, Rule: i}
		}
	}
	return c.fallback
}

func rule(category, detail string, patterns ...string) Rule {
	r := Rule{Category: category, Detail: detail}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(p))
	}
	return r
}
