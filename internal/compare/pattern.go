package compare

import (
	"fmt"

	"evalcmp/internal/spec"
)

// Pattern kinds.
const (
	KindSelector  = "selector"
	KindMonotonic = "monotonic"
)

// SelectorOthers stands for every model not named elsewhere in the pattern.
const SelectorOthers = "others"

// Names of the core three-way split.
const (
	PartitionAllCorrect = "all_correct"
	PartitionAllWrong   = "all_wrong"
	PartitionMixed      = "mixed"
)

// IsReservedName reports whether a pattern name collides with the core split.
func IsReservedName(name string) bool {
	switch name {
	case PartitionAllCorrect, PartitionAllWrong, PartitionMixed:
		return true
	default:
		return false
	}
}

// PatternSpec is a named predicate over the correctness vector of a mixed index.
type PatternSpec struct {
	Name       string
	Kind       string
	Correct    []string
	Wrong      []string
	Surprising bool
}

// PatternsFromConfig converts configured patterns.
func PatternsFromConfig(patterns []spec.PatternConfig) []PatternSpec {
	out := make([]PatternSpec, 0, len(patterns))
	for _, pattern := range patterns {
		kind := pattern.Kind
		if kind == "" {
			kind = KindSelector
		}
		out = append(out, PatternSpec{
			Name:       pattern.Name,
			Kind:       kind,
			Correct:    append([]string(nil), pattern.Correct...),
			Wrong:      append([]string(nil), pattern.Wrong...),
			Surprising: pattern.Surprising,
		})
	}
	return out
}

// predicate receives correctness by roster position.
type predicate func(correct []bool) bool

// resolve binds the pattern to a roster. An error means the pattern cannot be
// evaluated for this roster and stays empty.
func (p PatternSpec) resolve(roster Roster) (predicate, error) {
	switch p.Kind {
	case KindMonotonic:
		if !roster.DistinctSizes() {
			return nil, fmt.Errorf("models share a size; scaling order is ambiguous")
		}
		return monotonicPredicate(roster), nil
	case KindSelector, "":
		return p.selectorPredicate(roster)
	default:
		return nil, fmt.Errorf("unsupported kind %q", p.Kind)
	}
}

func (p PatternSpec) selectorPredicate(roster Roster) (predicate, error) {
	position := make(map[string]int, len(roster))
	for i, model := range roster {
		position[model.ID] = i
	}

	named := map[int]struct{}{}
	resolveSide := func(selectors []string) (positions []int, others bool, err error) {
		for _, selector := range selectors {
			if selector == SelectorOthers {
				others = true
				continue
			}
			id := selector
			if IsRole(selector) {
				resolved, ok := roster.Role(selector)
				if !ok {
					return nil, false, fmt.Errorf("role %q does not resolve to exactly one model (check model sizes)", selector)
				}
				id = resolved
			}
			pos, ok := position[id]
			if !ok {
				return nil, false, fmt.Errorf("model %q is not part of the comparison", selector)
			}
			named[pos] = struct{}{}
			positions = append(positions, pos)
		}
		return positions, others, nil
	}

	correct, correctOthers, err := resolveSide(p.Correct)
	if err != nil {
		return nil, err
	}
	wrong, wrongOthers, err := resolveSide(p.Wrong)
	if err != nil {
		return nil, err
	}
	var others []int
	for i := range roster {
		if _, ok := named[i]; !ok {
			others = append(others, i)
		}
	}
	if correctOthers {
		correct = append(correct, others...)
	}
	if wrongOthers {
		wrong = append(wrong, others...)
	}

	return func(vector []bool) bool {
		for _, pos := range correct {
			if !vector[pos] {
				return false
			}
		}
		for _, pos := range wrong {
			if vector[pos] {
				return false
			}
		}
		return true
	}, nil
}

// monotonicPredicate holds when correctness never drops as size grows and the
// vector is not constant.
func monotonicPredicate(roster Roster) predicate {
	position := make(map[string]int, len(roster))
	for i, model := range roster {
		position[model.ID] = i
	}
	order := make([]int, 0, len(roster))
	for _, model := range roster.BySize() {
		order = append(order, position[model.ID])
	}
	return func(vector []bool) bool {
		seenCorrect, seenWrong := false, false
		for _, pos := range order {
			if vector[pos] {
				seenCorrect = true
				continue
			}
			if seenCorrect {
				return false
			}
			seenWrong = true
		}
		return seenCorrect && seenWrong
	}
}
