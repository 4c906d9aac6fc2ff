package geo

import (
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// MaxSuggestions bounds the candidates reported per unresolved place.
const MaxSuggestions = 3

// Suggester proposes known place names close to an unresolved one.
// Suggestions are reported only, never applied to the data.
type Suggester struct {
	vocabulary []string
}

// NewSuggester builds a suggester over folded names. Duplicates are removed.
func NewSuggester(names ...[]string) *Suggester {
	seen := make(map[string]bool)
	var vocab []string
	for _, group := range names {
		for _, n := range group {
			f := textnorm.Fold(n)
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			vocab = append(vocab, f)
		}
	}
	sort.Strings(vocab)
	return &Suggester{vocabulary: vocab}
}

// Suggester returns a suggester over the resolver's correction tables and
// zone members.
func (r *Resolver) Suggester() *Suggester {
	var members []string
	for _, z := range r.zones.Zones() {
		members = append(members, z.Members...)
	}
	return NewSuggester(r.neighborhoods.Vocabulary(), r.cities.Vocabulary(), members)
}

type candidate struct {
	name string
	dist int
}

// Suggest returns up to limit known names within edit distance of name.
// The tolerance grows with the name length: one edit per four runes,
// at least one and at most three.
func (s *Suggester) Suggest(name string, limit int) []string {
	f := textnorm.Fold(name)
	if f == "" || limit <= 0 {
		return nil
	}
	tolerance := max(1, min(3, len([]rune(f))/4))

	var found []candidate
	for _, v := range s.vocabulary {
		if v == f {
			return nil
		}
		if d := levenshtein.ComputeDistance(f, v); d <= tolerance {
			found = append(found, candidate{name: v, dist: d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.name
	}
	return out
}

// UnresolvedPlace is a home-state neighborhood/city pair no zone matched.
type UnresolvedPlace struct {
	Neighborhood string
	City         string
	Rows         int
	Suggestions  []string
}

// Unresolved groups rows zoned "Unidentified (home state)" by neighborhood
// and city, most frequent first, with suggestions for the neighborhood.
func (r *Resolver) Unresolved(ds *dataset.Dataset) []UnresolvedPlace {
	type key struct{ n, c string }
	counts := make(map[key]int)
	var order []key
	for _, row := range ds.Rows() {
		zone, _ := row.Str(dataset.ColZone)
		if zone != ZoneUnidentifiedHome {
			continue
		}
		k := key{textnorm.Fold(row[dataset.ColNeighborhood]), textnorm.Fold(row[dataset.ColCity])}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return nil
	}

	s := r.Suggester()
	out := make([]UnresolvedPlace, 0, len(order))
	for _, k := range order {
		out = append(out, UnresolvedPlace{
			Neighborhood: k.n,
			City:         k.c,
			Rows:         counts[k],
			Suggestions:  s.Suggest(k.n, MaxSuggestions),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rows > out[j].Rows })
	return out
}
