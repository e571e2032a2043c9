// Package compare aligns per-model result sets by question index and derives
// agreement partitions, named scaling patterns and coverage metrics.
package compare

import (
	"sort"

	"evalcmp/internal/spec"
)

// Roles resolve to a concrete model of the roster being compared.
const (
	RoleSmallest  = "smallest"
	RoleLargest   = "largest"
	RoleReference = "reference"
)

// IsRole reports whether name is a role selector.
func IsRole(name string) bool {
	switch name {
	case RoleSmallest, RoleLargest, RoleReference:
		return true
	default:
		return false
	}
}

// Model is roster metadata for one compared model.
type Model struct {
	ID        string
	Size      float64
	Reference bool
}

// Roster is the ordered list of models in a comparison.
type Roster []Model

// RosterFromConfig copies the configured model list.
func RosterFromConfig(models []spec.ModelConfig) Roster {
	roster := make(Roster, 0, len(models))
	for _, model := range models {
		roster = append(roster, Model{ID: model.ID, Size: model.Size, Reference: model.Reference})
	}
	return roster
}

// IDs returns the model ids in roster order.
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for _, model := range r {
		ids = append(ids, model.ID)
	}
	return ids
}

// Lookup finds a model by id.
func (r Roster) Lookup(id string) (Model, bool) {
	for _, model := range r {
		if model.ID == id {
			return model, true
		}
	}
	return Model{}, false
}

// restrict keeps the given ids in their given order. Ids unknown to the roster
// are kept with zero size.
func (r Roster) restrict(ids []string) Roster {
	out := make(Roster, 0, len(ids))
	for _, id := range ids {
		model, ok := r.Lookup(id)
		if !ok {
			model = Model{ID: id}
		}
		out = append(out, model)
	}
	return out
}

// BySize returns the models in ascending size, ties kept in roster order.
func (r Roster) BySize() Roster {
	out := append(Roster(nil), r...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size < out[j].Size
	})
	return out
}

// Role resolves a role to a model id. ok is false for an empty roster and
// when the role is ambiguous: several models share the extreme size.
func (r Roster) Role(role string) (string, bool) {
	if len(r) == 0 {
		return "", false
	}
	switch role {
	case RoleSmallest:
		return r.extreme(func(a, b float64) bool { return a < b })
	case RoleLargest:
		return r.extreme(func(a, b float64) bool { return a > b })
	case RoleReference:
		for _, model := range r {
			if model.Reference {
				return model.ID, true
			}
		}
		return r.Role(RoleLargest)
	default:
		return "", false
	}
}

// extreme returns the single model whose size wins under better.
func (r Roster) extreme(better func(a, b float64) bool) (string, bool) {
	best := r[0]
	tied := false
	for _, model := range r[1:] {
		switch {
		case better(model.Size, best.Size):
			best, tied = model, false
		case model.Size == best.Size:
			tied = true
		}
	}
	if tied {
		return "", false
	}
	return best.ID, true
}

// DistinctSizes reports whether no two models share a size.
func (r Roster) DistinctSizes() bool {
	seen := make(map[float64]struct{}, len(r))
	for _, model := range r {
		if _, ok := seen[model.Size]; ok {
			return false
		}
		seen[model.Size] = struct{}{}
	}
	return true
}
