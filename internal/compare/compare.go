package compare

import (
	"fmt"
	"sort"
	"strings"

	"evalcmp/internal/record"
)

// Warning kinds raised while comparing.
const (
	WarnLengthMismatch = "length_mismatch"
	WarnInertPattern   = "inert_pattern"
	WarnSingleModel    = "single_model"
)

// Warning is a recoverable anomaly found during comparison.
type Warning struct {
	Kind    string `json:"kind" yaml:"kind"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// NamedIndices is the result of one named pattern.
type NamedIndices struct {
	Name       string
	Surprising bool
	Inert      bool
	Indices    []int
}

// Partition splits aligned indices into the exclusive core classes plus the
// possibly overlapping named patterns.
type Partition struct {
	AllCorrect []int
	AllWrong   []int
	Mixed      []int
	Patterns   []NamedIndices
}

// Pattern returns a named pattern result.
func (p Partition) Pattern(name string) (NamedIndices, bool) {
	for _, pattern := range p.Patterns {
		if pattern.Name == name {
			return pattern, true
		}
	}
	return NamedIndices{}, false
}

// Comparison holds everything derived from one set of aligned result sets.
// It copies what it needs and never writes to the inputs.
type Comparison struct {
	roster    Roster
	aligned   int
	correct   [][]bool
	partition Partition
	warnings  []Warning
}

// Compare aligns sets by index, in the given order, and evaluates patterns.
// Roster supplies size and reference metadata for the models present.
func Compare(sets []record.ResultSet, roster Roster, patterns []PatternSpec) *Comparison {
	ids := make([]string, 0, len(sets))
	for _, set := range sets {
		ids = append(ids, set.ModelID)
	}
	c := &Comparison{roster: roster.restrict(ids)}
	c.align(sets)
	c.partitionIndices(patterns)
	return c
}

func (c *Comparison) align(sets []record.ResultSet) {
	if len(sets) == 0 {
		return
	}
	if len(sets) == 1 {
		c.warnings = append(c.warnings, Warning{
			Kind:    WarnSingleModel,
			Model:   sets[0].ModelID,
			Message: "only one model loaded; every index is all_correct or all_wrong",
		})
	}

	shortest := sets[0].Total()
	mismatch := false
	for _, set := range sets[1:] {
		if set.Total() != shortest {
			mismatch = true
		}
		if set.Total() < shortest {
			shortest = set.Total()
		}
	}
	if mismatch {
		totals := make([]string, 0, len(sets))
		for _, set := range sets {
			totals = append(totals, fmt.Sprintf("%s=%d", set.ModelID, set.Total()))
		}
		c.warnings = append(c.warnings, Warning{
			Kind:    WarnLengthMismatch,
			Message: fmt.Sprintf("question counts differ (%s); comparing the first %d", strings.Join(totals, ", "), shortest),
		})
	}

	c.aligned = shortest
	c.correct = make([][]bool, shortest)
	for i := 0; i < shortest; i++ {
		row := make([]bool, len(sets))
		for m, set := range sets {
			row[m] = set.Records[i].IsCorrect()
		}
		c.correct[i] = row
	}
}

func (c *Comparison) partitionIndices(patterns []PatternSpec) {
	p := Partition{AllCorrect: []int{}, AllWrong: []int{}, Mixed: []int{}}
	for i, row := range c.correct {
		switch countTrue(row) {
		case len(row):
			p.AllCorrect = append(p.AllCorrect, i)
		case 0:
			p.AllWrong = append(p.AllWrong, i)
		default:
			p.Mixed = append(p.Mixed, i)
		}
	}

	for _, pattern := range patterns {
		result := NamedIndices{Name: pattern.Name, Surprising: pattern.Surprising, Indices: []int{}}
		match, err := pattern.resolve(c.roster)
		if err != nil {
			result.Inert = true
			c.warnings = append(c.warnings, Warning{
				Kind:    WarnInertPattern,
				Message: fmt.Sprintf("pattern %s: %v", pattern.Name, err),
			})
			p.Patterns = append(p.Patterns, result)
			continue
		}
		for _, i := range p.Mixed {
			if match(c.correct[i]) {
				result.Indices = append(result.Indices, i)
			}
		}
		p.Patterns = append(p.Patterns, result)
	}
	c.partition = p
}

// Models returns the compared model ids in input order.
func (c *Comparison) Models() []string {
	return c.roster.IDs()
}

// Roster returns metadata for the compared models.
func (c *Comparison) Roster() Roster {
	return append(Roster(nil), c.roster...)
}

// Aligned returns the number of indices compared.
func (c *Comparison) Aligned() int {
	return c.aligned
}

// Warnings returns the anomalies found while comparing.
func (c *Comparison) Warnings() []Warning {
	return append([]Warning(nil), c.warnings...)
}

// Partition returns the index partition.
func (c *Comparison) Partition() Partition {
	return c.partition
}

// Vector returns model id to correctness for one aligned index.
func (c *Comparison) Vector(index int) (map[string]bool, bool) {
	if index < 0 || index >= c.aligned {
		return nil, false
	}
	vector := make(map[string]bool, len(c.roster))
	for m, model := range c.roster {
		vector[model.ID] = c.correct[index][m]
	}
	return vector, true
}

// CorrectIndices returns the aligned indices a model answered correctly.
func (c *Comparison) CorrectIndices(model string) ([]int, bool) {
	m, ok := c.position(model)
	if !ok {
		return nil, false
	}
	indices := []int{}
	for i, row := range c.correct {
		if row[m] {
			indices = append(indices, i)
		}
	}
	return indices, true
}

// Coverage is the share of a's correct indices that b also got right. It is
// 1.0 when a has no correct indices.
func (c *Comparison) Coverage(a, b string) (float64, bool) {
	ma, ok := c.position(a)
	if !ok {
		return 0, false
	}
	mb, ok := c.position(b)
	if !ok {
		return 0, false
	}
	base, shared := 0, 0
	for _, row := range c.correct {
		if !row[ma] {
			continue
		}
		base++
		if row[mb] {
			shared++
		}
	}
	if base == 0 {
		return 1.0, true
	}
	return float64(shared) / float64(base), true
}

// CoverageEntry is directional coverage of From by To.
type CoverageEntry struct {
	From  string  `json:"from" yaml:"from"`
	To    string  `json:"to" yaml:"to"`
	Value float64 `json:"value" yaml:"value"`
}

// CoverageMatrix returns coverage for every ordered pair of distinct models.
func (c *Comparison) CoverageMatrix() []CoverageEntry {
	entries := make([]CoverageEntry, 0, len(c.roster)*len(c.roster))
	for _, from := range c.roster {
		for _, to := range c.roster {
			if from.ID == to.ID {
				continue
			}
			value, _ := c.Coverage(from.ID, to.ID)
			entries = append(entries, CoverageEntry{From: from.ID, To: to.ID, Value: value})
		}
	}
	return entries
}

// Region is one exclusive area of a Venn diagram over the models: the indices
// where exactly Models share the outcome.
type Region struct {
	Models []string `json:"models" yaml:"models"`
	Count  int      `json:"count" yaml:"count"`
}

// Key joins the member ids with "+".
func (r Region) Key() string {
	return strings.Join(r.Models, "+")
}

// Regions counts indices by the exact set of models that were correct (or
// wrong, when correct is false). Indices where no model qualifies are left out.
func (c *Comparison) Regions(correct bool) []Region {
	counts := map[string]int{}
	members := map[string][]int{}
	for _, row := range c.correct {
		var in []int
		for m, ok := range row {
			if ok == correct {
				in = append(in, m)
			}
		}
		if len(in) == 0 {
			continue
		}
		key := fmt.Sprint(in)
		counts[key]++
		members[key] = in
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := members[keys[i]], members[keys[j]]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	regions := make([]Region, 0, len(keys))
	for _, key := range keys {
		ids := make([]string, 0, len(members[key]))
		for _, m := range members[key] {
			ids = append(ids, c.roster[m].ID)
		}
		regions = append(regions, Region{Models: ids, Count: counts[key]})
	}
	return regions
}

func (c *Comparison) position(model string) (int, bool) {
	for m, entry := range c.roster {
		if entry.ID == model {
			return m, true
		}
	}
	return 0, false
}

func countTrue(values []bool) int {
	n := 0
	for _, v := range values {
		if v {
			n++
		}
	}
	return n
}
