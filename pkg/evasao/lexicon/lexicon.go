// Package lexicon holds correction tables: each canonical place name with
// the misspellings and variants observed in enrollment spreadsheets.
package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// Lexicon maps folded variants to a canonical value.
//
// Design principles:
//   - Variants are compared in folded form (textnorm.Fold), so a variant
//     matches in any case or accent spelling.
//   - The folded canonical is registered as a variant of itself, which makes
//     Canonical idempotent.
//   - A folded variant belongs to exactly one canonical value; AddGroup
//     rejects collisions instead of letting iteration order decide.
type Lexicon struct {
	name string

	// canonical -> folded variants (folded canonical first)
	groups map[string][]string
	order  []string

	// folded variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon. The name appears in collision errors.
func New(name string) *Lexicon {
	return &Lexicon{
		name:         name,
		groups:       make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// Name returns the table name.
func (l *Lexicon) Name() string { return l.name }

// AddGroup registers canonical with its variants. Adding to an existing
// canonical extends its variant list. It fails with ErrVariantCollision when
// a variant already belongs to a different canonical value; in that case the
// lexicon is left unchanged.
func (l *Lexicon) AddGroup(canonical string, variants []string) error {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return fmt.Errorf("%s: empty canonical value: %w", l.name, internalerr.ErrInvalidConfig)
	}

	folded := make([]string, 0, len(variants)+1)
	seen := make(map[string]bool)
	for _, v := range append([]string{canonical}, variants...) {
		f := textnorm.Fold(v)
		if f == "" || seen[f] {
			continue
		}
		if owner, ok := l.reverseIndex[f]; ok && owner != canonical {
			return fmt.Errorf("%s: %q listed under %q and %q: %w",
				l.name, f, owner, canonical, internalerr.ErrVariantCollision)
		}
		seen[f] = true
		folded = append(folded, f)
	}

	if _, exists := l.groups[canonical]; !exists {
		l.order = append(l.order, canonical)
	}
	for _, f := range folded {
		if _, ok := l.reverseIndex[f]; !ok {
			l.groups[canonical] = append(l.groups[canonical], f)
		}
		l.reverseIndex[f] = canonical
	}
	return nil
}

// Canonical folds v and replaces it with its canonical value when the folded
// text is a known variant. Unknown values are returned folded. A single
// lookup is performed: a variant of a variant is not chased.
func (l *Lexicon) Canonical(v any) string {
	f := textnorm.Fold(v)
	if c, ok := l.reverseIndex[f]; ok {
		return c
	}
	return f
}

// Lookup returns the canonical value for an already folded variant.
func (l *Lexicon) Lookup(folded string) (string, bool) {
	c, ok := l.reverseIndex[folded]
	return c, ok
}

// Variants returns the folded variants of canonical, folded canonical first.
func (l *Lexicon) Variants(canonical string) []string {
	return append([]string(nil), l.groups[canonical]...)
}

// Canonicals returns the canonical values in insertion order.
func (l *Lexicon) Canonicals() []string {
	return append([]string(nil), l.order...)
}

// Vocabulary returns every folded form the lexicon knows, sorted.
func (l *Lexicon) Vocabulary() []string {
	out := make([]string, 0, len(l.reverseIndex))
	for f := range l.reverseIndex {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Merge adds every group of other into l, stopping at the first collision.
func (l *Lexicon) Merge(other *Lexicon) error {
	for _, c := range other.order {
		if err := l.AddGroup(c, other.groups[c]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy.
func (l *Lexicon) Clone() *Lexicon {
	cp := New(l.name)
	// Groups were validated when added to l; re-adding cannot collide.
	_ = cp.Merge(l)
	return cp
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	return Stats{Groups: len(l.groups), Variants: len(l.reverseIndex)}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Groups   int // Number of canonical values
	Variants int // Number of folded variants, canonicals included
}

// LoadFromYAML loads correction groups from a YAML file.
//
// Expected format:
//
//	corrections:
//	  - canonical: vila isabel
//	    variants: [vila isabe, vila izabel]
//	  - canonical: praça seca
//	    variants: [praassa seca]
func LoadFromYAML(name, path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Corrections []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"corrections"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	lex := New(name)
	for _, entry := range doc.Corrections {
		if err := lex.AddGroup(entry.Canonical, entry.Variants); err != nil {
			return nil, err
		}
	}
	return lex, nil
}
