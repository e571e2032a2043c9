package config

import (
	"fmt"
	"regexp"

	"evalcmp/internal/compare"
	"evalcmp/internal/spec"
)

var patternNameRE = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// validatePatterns checks named pattern predicates and their selectors.
func validatePatterns(cfg *spec.Config, modelIDs map[string]struct{}, add issueAdder) {
	names := map[string]struct{}{}
	roster := compare.RosterFromConfig(cfg.Models)
	for i, pattern := range cfg.Patterns {
		fieldPrefix := fmt.Sprintf("patterns[%d]", i)
		switch {
		case pattern.Name == "":
			add(fieldPrefix+".name", "is required")
		case !patternNameRE.MatchString(pattern.Name):
			add(fieldPrefix+".name", fmt.Sprintf("invalid name %q (use lower_snake_case)", pattern.Name))
		case compare.IsReservedName(pattern.Name):
			add(fieldPrefix+".name", fmt.Sprintf("%q is reserved", pattern.Name))
		default:
			if _, exists := names[pattern.Name]; exists {
				add("patterns.name", fmt.Sprintf("duplicate name %q", pattern.Name))
			}
			names[pattern.Name] = struct{}{}
		}

		switch pattern.Kind {
		case compare.KindMonotonic:
			if len(pattern.Correct) > 0 || len(pattern.Wrong) > 0 {
				add(fieldPrefix, "monotonic patterns take no selectors")
			}
			if len(roster) > 1 && !roster.DistinctSizes() {
				add(fieldPrefix, "monotonic patterns need a distinct size on every model")
			}
		case "", compare.KindSelector:
			if len(pattern.Correct) == 0 && len(pattern.Wrong) == 0 {
				add(fieldPrefix, "needs at least one correct or wrong selector")
			}
			if contains(pattern.Correct, compare.SelectorOthers) && contains(pattern.Wrong, compare.SelectorOthers) {
				add(fieldPrefix, fmt.Sprintf("%q may appear on one side only", compare.SelectorOthers))
			}
			validateSelectors(fieldPrefix+".correct", pattern.Correct, modelIDs, add)
			validateSelectors(fieldPrefix+".wrong", pattern.Wrong, modelIDs, add)
			validateRoles(fieldPrefix, append(append([]string(nil), pattern.Correct...), pattern.Wrong...), roster, add)
		default:
			add(fieldPrefix+".kind", fmt.Sprintf("unsupported kind %q", pattern.Kind))
		}
	}
}

func validateSelectors(field string, selectors []string, modelIDs map[string]struct{}, add issueAdder) {
	for i, selector := range selectors {
		if selector == "" {
			add(fmt.Sprintf("%s[%d]", field, i), "is required")
			continue
		}
		if compare.IsRole(selector) || selector == compare.SelectorOthers {
			continue
		}
		if _, ok := modelIDs[selector]; !ok {
			add(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("unknown model or role %q", selector))
		}
	}
}

// validateRoles reports role selectors that the configured sizes cannot
// resolve to a single model.
func validateRoles(field string, selectors []string, roster compare.Roster, add issueAdder) {
	if len(roster) == 0 {
		return
	}
	reported := map[string]struct{}{}
	for _, selector := range selectors {
		if !compare.IsRole(selector) {
			continue
		}
		if _, done := reported[selector]; done {
			continue
		}
		if _, ok := roster.Role(selector); !ok {
			reported[selector] = struct{}{}
			add(field, fmt.Sprintf("role %q is ambiguous; several models share the deciding size", selector))
		}
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
