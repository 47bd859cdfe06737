// Package score evaluates how specifically an entity matches a declared
// concern, given current store state.
package score

import (
	"strings"

	"github.com/tmavro/edict/types"
)

// Weights is the per-item weight table. An exact id match dominates a prop
// value match, which beats component presence, which beats a tag.
type Weights struct {
	ID        float64 `yaml:"id"`
	Prop      float64 `yaml:"prop"`
	Component float64 `yaml:"component"`
	Tag       float64 `yaml:"tag"`
}

// DefaultWeights returns the stock weight table.
func DefaultWeights() Weights {
	return Weights{ID: 100, Prop: 20, Component: 10, Tag: 2.5}
}

// Scorer scores concerns against entities. Warn, when set, receives
// non-fatal anomalies (malformed prop matchers, unregistered components in
// matcher data); these degrade to zero contribution rather than failing,
// since matcher data can be data-driven or modded.
type Scorer struct {
	Weights Weights
	Warn    func(format string, args ...any)
}

// New creates a scorer with the default weight table.
func New() *Scorer {
	return &Scorer{Weights: DefaultWeights()}
}

func (s *Scorer) warnf(format string, args ...any) {
	if s.Warn != nil {
		s.Warn(format, args...)
	}
}

// Concern scores one entity against one concern. The bool is false when the
// concern disqualifies the entity: a populated category whose item sum is
// zero fails the whole concern, so "absence of constraint" is never confused
// with "constraint satisfied with zero weight". A nil concern scores zero
// and qualifies.
func (s *Scorer) Concern(view types.WorldView, e types.Entity, c *types.Concern) (float64, bool) {
	if c == nil {
		return 0, true
	}

	var total float64

	if len(c.IDs) > 0 {
		var sum float64
		for _, id := range c.IDs {
			if match, ok := view.ByPrettyID(id); ok && match == e {
				sum += s.Weights.ID
			}
		}
		if sum == 0 {
			return 0, false
		}
		total += sum
	}

	if len(c.Components) > 0 {
		var sum float64
		for _, name := range c.Components {
			if view.HasComponent(e, name) {
				sum += s.Weights.Component
			}
		}
		if sum == 0 {
			return 0, false
		}
		total += sum
	}

	if len(c.Props) > 0 {
		sum, populated := s.scoreProps(view, e, c.Props)
		// Entries skipped for being malformed drop out of the category; if
		// every entry was skipped the category is treated as unpopulated.
		if populated {
			if sum == 0 {
				return 0, false
			}
			total += sum
		}
	}

	if len(c.Tags) > 0 {
		var sum float64
		for _, tag := range c.Tags {
			if view.HasTag(e, tag) {
				sum += s.Weights.Tag
			}
		}
		if sum == 0 {
			return 0, false
		}
		total += sum
	}

	return total, true
}

// scoreProps sums prop-value weights. The bool is false when no well-formed
// entry survived.
func (s *Scorer) scoreProps(view types.WorldView, e types.Entity, props []types.PropMatch) (float64, bool) {
	var sum float64
	populated := false

	for _, pm := range props {
		component, field, ok := splitPropPath(pm.Path)
		if !ok {
			s.warnf("malformed prop matcher %q (want ComponentName.fieldName)", pm.Path)
			continue
		}
		if !view.ComponentRegistered(component) {
			s.warnf("prop matcher %q references unregistered component %q", pm.Path, component)
			continue
		}
		populated = true

		data, ok := view.ComponentData(e, component)
		if !ok {
			continue
		}
		if valueEqual(data[field], pm.Value) {
			sum += s.Weights.Prop
		}
	}

	return sum, populated
}

// splitPropPath splits "ComponentName.fieldName" into its parts.
func splitPropPath(path string) (component, field string, ok bool) {
	i := strings.Index(path, ".")
	if i <= 0 || i == len(path)-1 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}

// valueEqual compares a stored field against a matcher value, tolerating the
// int/float64 mismatch that comes from Lua and YAML number decoding.
func valueEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af == bf
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
