//go:build cucumber

package compare

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"evalcmp/internal/record"
)

// TestCompareScenarios runs the comparison feature scenarios.
func TestCompareScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "spec", "features", "compare", "partition.feature")
	suite := godog.TestSuite{
		Name:                "compare",
		ScenarioInitializer: InitializeCompareScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeCompareScenario wires steps for comparison scenarios.
func InitializeCompareScenario(ctx *godog.ScenarioContext) {
	state := &compareScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^model "([^"]+)" of size (\d+) answers (\d+) questions with correct indices "([^"]*)"$`, state.givenModel)
	ctx.Step(`^model "([^"]+)" of size (\d+) has no results$`, state.givenMissingModel)
	ctx.Step(`^the models are compared$`, state.whenCompared)
	ctx.Step(`^all_correct is "([^"]*)"$`, state.thenAllCorrect)
	ctx.Step(`^all_wrong is "([^"]*)"$`, state.thenAllWrong)
	ctx.Step(`^coverage of "([^"]+)" by "([^"]+)" is ([0-9.]+)$`, state.thenCoverage)
	ctx.Step(`^the compared models are "([^"]+)"$`, state.thenModels)
	ctx.Step(`^pattern "([^"]+)" is "([^"]*)"$`, state.thenPattern)
}

type compareScenarioState struct {
	roster Roster
	sets   []record.ResultSet
	result *Comparison
}

// reset clears scenario state.
func (s *compareScenarioState) reset() {
	s.roster = nil
	s.sets = nil
	s.result = nil
}

// givenModel adds a loaded model.
func (s *compareScenarioState) givenModel(id string, size, total int, correct string) error {
	indices, err := parseIndices(correct)
	if err != nil {
		return err
	}
	hits := map[int]bool{}
	for _, i := range indices {
		hits[i] = true
	}
	records := make([]record.Record, total)
	for i := range records {
		records[i] = record.Record{Index: i, CorrectAnswer: "A", ExtractedAnswer: "B"}
		if hits[i] {
			records[i].ExtractedAnswer = "A"
			records[i].Score = 1
		}
	}
	s.roster = append(s.roster, Model{ID: id, Size: float64(size)})
	s.sets = append(s.sets, record.NewResultSet(id, records))
	return nil
}

// givenMissingModel adds roster metadata without results.
func (s *compareScenarioState) givenMissingModel(id string, size int) error {
	s.roster = append(s.roster, Model{ID: id, Size: float64(size)})
	return nil
}

// whenCompared runs the comparison with the default patterns.
func (s *compareScenarioState) whenCompared() error {
	s.result = Compare(s.sets, s.roster, []PatternSpec{
		{Name: "only_largest_correct", Kind: KindSelector, Correct: []string{RoleLargest}, Wrong: []string{SelectorOthers}},
	})
	return nil
}

func (s *compareScenarioState) thenAllCorrect(want string) error {
	return expectIndices("all_correct", want, s.result.Partition().AllCorrect)
}

func (s *compareScenarioState) thenAllWrong(want string) error {
	return expectIndices("all_wrong", want, s.result.Partition().AllWrong)
}

func (s *compareScenarioState) thenCoverage(from, to string, want float64) error {
	got, ok := s.result.Coverage(from, to)
	if !ok {
		return fmt.Errorf("coverage %s->%s unavailable", from, to)
	}
	if math.Abs(got-want) > 1e-9 {
		return fmt.Errorf("coverage %s->%s = %v, want %v", from, to, got, want)
	}
	return nil
}

func (s *compareScenarioState) thenModels(want string) error {
	if got := strings.Join(s.result.Models(), ","); got != want {
		return fmt.Errorf("models = %s, want %s", got, want)
	}
	return nil
}

func (s *compareScenarioState) thenPattern(name, want string) error {
	pattern, ok := s.result.Partition().Pattern(name)
	if !ok {
		return fmt.Errorf("pattern %s missing", name)
	}
	return expectIndices(name, want, pattern.Indices)
}

func expectIndices(name, want string, got []int) error {
	expected, err := parseIndices(want)
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(expected, got) {
		return fmt.Errorf("%s = %v, want %v", name, got, expected)
	}
	return nil
}

func parseIndices(raw string) ([]int, error) {
	indices := []int{}
	if strings.TrimSpace(raw) == "" {
		return indices, nil
	}
	for _, part := range strings.Split(raw, ",") {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse index %q: %w", part, err)
		}
		indices = append(indices, value)
	}
	return indices, nil
}
