// Package analytics aggregates a cleaned dataset into the counts and
// dropout rates reported after a pipeline run.
package analytics

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"text/tabwriter"

	"github.com/cognicore/evasao/pkg/evasao/clean"
	"github.com/cognicore/evasao/pkg/evasao/dataset"
	"github.com/cognicore/evasao/pkg/evasao/taxonomy"
)

// Missing labels rows whose grouping column is null.
const Missing = "(missing)"

// Analyzer accumulates row-level stats. It is not safe for concurrent use.
type Analyzer struct {
	rows      int64
	zones     map[string]int64
	admission map[string]int64
	dropout   map[string]int64
	byZone    map[string]*outcome
	byAge     map[string]*outcome

	gpaSum, distSum float64
	gpaN, distN     int64
}

type outcome struct {
	rows, dropouts int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		zones:     make(map[string]int64),
		admission: make(map[string]int64),
		dropout:   make(map[string]int64),
		byZone:    make(map[string]*outcome),
		byAge:     make(map[string]*outcome),
	}
}

// Process consumes one cleaned row.
func (a *Analyzer) Process(row dataset.Row) {
	a.rows++
	zone := label(row, dataset.ColZone)
	a.zones[zone]++
	a.admission[label(row, dataset.ColAdmissionCategory)]++
	cat := label(row, dataset.ColDropoutCategory)
	a.dropout[cat]++

	dropped := cat == taxonomy.Dropout
	track(a.byZone, zone, dropped)
	if !row.IsNull(dataset.ColAgeBracket) {
		track(a.byAge, label(row, dataset.ColAgeBracket), dropped)
	}

	if gpa := row.Float(dataset.ColGPA); !math.IsNaN(gpa) {
		a.gpaSum += gpa
		a.gpaN++
	}
	if km := row.Float(dataset.ColDistanceKm); !math.IsNaN(km) {
		a.distSum += km
		a.distN++
	}
}

func track(m map[string]*outcome, key string, dropped bool) {
	o := m[key]
	if o == nil {
		o = &outcome{}
		m[key] = o
	}
	o.rows++
	if dropped {
		o.dropouts++
	}
}

func label(row dataset.Row, col string) string {
	if s, ok := row.Str(col); ok && s != "" {
		return s
	}
	return Missing
}

// Count is the number of rows carrying a label.
type Count struct {
	Label string
	Rows  int64
}

// Rate is the dropout share of a group.
type Rate struct {
	Label    string
	Rows     int64
	Dropouts int64
	Rate     float64
}

// Summary is a snapshot of the aggregated stats.
type Summary struct {
	Rows          int64
	Zones         []Count
	Admission     []Count
	Dropout       []Count
	DropoutByZone []Rate
	DropoutByAge  []Rate
	// MeanGPA and MeanDistanceKm are NaN when no row has a value.
	MeanGPA        float64
	MeanDistanceKm float64
	// AdmissionEntropy is the normalized entropy of the admission mix:
	// 0 when every row shares one category.
	AdmissionEntropy float64
}

// Snapshot returns the current summary. Counts are ordered by size, age
// brackets by age.
func (a *Analyzer) Snapshot() Summary {
	s := Summary{
		Rows:             a.rows,
		Zones:            counts(a.zones),
		Admission:        counts(a.admission),
		Dropout:          counts(a.dropout),
		DropoutByZone:    rates(a.byZone),
		DropoutByAge:     rates(a.byAge),
		MeanGPA:          mean(a.gpaSum, a.gpaN),
		MeanDistanceKm:   mean(a.distSum, a.distN),
		AdmissionEntropy: entropy(a.admission),
	}
	sort.SliceStable(s.DropoutByAge, func(i, j int) bool {
		return bracketRank(s.DropoutByAge[i].Label) < bracketRank(s.DropoutByAge[j].Label)
	})
	return s
}

// Summarize runs a fresh analyzer over every row of ds.
func Summarize(ds *dataset.Dataset) Summary {
	a := NewAnalyzer()
	for _, row := range ds.Rows() {
		a.Process(row)
	}
	return a.Snapshot()
}

var bracketOrder = []string{
	clean.BracketUnder20, clean.Bracket20to24, clean.Bracket25to29,
	clean.Bracket30to34, clean.Bracket35to39, clean.Bracket40Plus,
}

func bracketRank(l string) int {
	if i := slices.Index(bracketOrder, l); i >= 0 {
		return i
	}
	return len(bracketOrder)
}

func counts(m map[string]int64) []Count {
	out := make([]Count, 0, len(m))
	for l, n := range m {
		out = append(out, Count{Label: l, Rows: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rows != out[j].Rows {
			return out[i].Rows > out[j].Rows
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func rates(m map[string]*outcome) []Rate {
	out := make([]Rate, 0, len(m))
	for l, o := range m {
		out = append(out, Rate{Label: l, Rows: o.rows, Dropouts: o.dropouts, Rate: float64(o.dropouts) / float64(o.rows)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func mean(sum float64, n int64) float64 {
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func entropy(counts map[string]int64) float64 {
	if len(counts) < 2 {
		return 0
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(len(counts)))
}

// WriteText renders the summary as aligned plain-text tables.
func (s Summary) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rows\t%d\n", s.Rows)
	fmt.Fprintf(tw, "mean gpa\t%s\n", formatMean(s.MeanGPA))
	fmt.Fprintf(tw, "mean distance km\t%s\n", formatMean(s.MeanDistanceKm))
	fmt.Fprintf(tw, "admission entropy\t%.3f\n", s.AdmissionEntropy)

	writeCounts(tw, "zone", s.Zones)
	writeCounts(tw, "admission", s.Admission)
	writeCounts(tw, "dropout", s.Dropout)
	writeRates(tw, "dropout rate by zone", s.DropoutByZone)
	writeRates(tw, "dropout rate by age", s.DropoutByAge)
	return tw.Flush()
}

func writeCounts(w io.Writer, title string, cs []Count) {
	fmt.Fprintf(w, "\n%s\trows\n", title)
	for _, c := range cs {
		fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Rows)
	}
}

func writeRates(w io.Writer, title string, rs []Rate) {
	fmt.Fprintf(w, "\n%s\trows\tdropouts\trate\n", title)
	for _, r := range rs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\n", r.Label, r.Rows, r.Dropouts, 100*r.Rate)
	}
}

func formatMean(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
