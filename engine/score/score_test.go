package score

import (
	"strings"
	"testing"

	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/types"
)

// scoringWorld builds a store with a king entity and a wrench entity.
func scoringWorld(t *testing.T) (types.WorldView, types.Entity, types.Entity) {
	t.Helper()
	s := ecs.NewStore()
	if err := s.DefineComponent("Crown"); err != nil {
		t.Fatal(err)
	}
	if err := s.DefineComponent("Tool"); err != nil {
		t.Fatal(err)
	}

	king, _ := s.CreateEntity("king")
	s.SetComponent(king, "Crown", map[string]any{"jewels": 7})
	s.AddTag(king, "royal")

	wrench, _ := s.CreateEntity("wrench_1")
	s.SetComponent(wrench, "Tool", map[string]any{"kind": "wrench"})
	s.AddTag(wrench, "wrench")

	return s.View(), king, wrench
}

func TestConcernWeights(t *testing.T) {
	view, king, _ := scoringWorld(t)
	sc := New()

	tests := []struct {
		name    string
		concern types.Concern
		want    float64
	}{
		{"id match", types.Concern{IDs: []string{"king"}}, 100},
		{"component match", types.Concern{Components: []string{"Crown"}}, 10},
		{"prop match", types.Concern{Props: []types.PropMatch{{Path: "Crown.jewels", Value: 7}}}, 20},
		{"tag match", types.Concern{Tags: []string{"royal"}}, 2.5},
		{
			"all categories",
			types.Concern{
				IDs:        []string{"king"},
				Components: []string{"Crown"},
				Props:      []types.PropMatch{{Path: "Crown.jewels", Value: 7}},
				Tags:       []string{"royal"},
			},
			132.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Concern(view, king, &tt.concern)
			if !ok {
				t.Fatal("unexpectedly disqualified")
			}
			if got != tt.want {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConcernDisqualification(t *testing.T) {
	view, king, wrench := scoringWorld(t)
	sc := New()

	// An ids category naming only "king" disqualifies any other entity, even
	// when other categories would score.
	concern := &types.Concern{
		IDs:  []string{"king"},
		Tags: []string{"wrench"},
	}
	if _, ok := sc.Concern(view, wrench, concern); ok {
		t.Error("wrench qualified against ids:[king]")
	}

	// A populated tag category with no hits disqualifies too.
	if _, ok := sc.Concern(view, king, &types.Concern{Tags: []string{"wrench"}}); ok {
		t.Error("king qualified against tags:[wrench]")
	}

	// Nil concern qualifies with zero score.
	if got, ok := sc.Concern(view, king, nil); !ok || got != 0 {
		t.Errorf("nil concern = %v, %v; want 0, true", got, ok)
	}
}

func TestMalformedPropsSkippedWithWarning(t *testing.T) {
	view, king, _ := scoringWorld(t)

	var warnings []string
	sc := New()
	sc.Warn = func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	// One malformed entry, one referencing an unregistered component, one
	// good entry. The bad ones are skipped; the good one scores.
	concern := &types.Concern{
		Props: []types.PropMatch{
			{Path: "nodot", Value: 1},
			{Path: "Ghost.field", Value: 1},
			{Path: "Crown.jewels", Value: 7},
		},
	}
	got, ok := sc.Concern(view, king, concern)
	if !ok || got != 20 {
		t.Errorf("score = %v, %v; want 20, true", got, ok)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %d, want 2", len(warnings))
	}
	for _, w := range warnings {
		if !strings.Contains(w, "prop matcher") {
			t.Errorf("unexpected warning %q", w)
		}
	}
}

func TestAllPropsSkippedActsUnpopulated(t *testing.T) {
	view, king, _ := scoringWorld(t)
	sc := New()

	// Every entry malformed: the category drops out entirely instead of
	// disqualifying, and the tag category still scores.
	concern := &types.Concern{
		Props: []types.PropMatch{{Path: "nodot", Value: 1}},
		Tags:  []string{"royal"},
	}
	got, ok := sc.Concern(view, king, concern)
	if !ok || got != 2.5 {
		t.Errorf("score = %v, %v; want 2.5, true", got, ok)
	}
}

func TestPropNumericCoercion(t *testing.T) {
	view, king, _ := scoringWorld(t)
	sc := New()

	// Lua hands back float64 where the store holds int.
	concern := &types.Concern{Props: []types.PropMatch{{Path: "Crown.jewels", Value: float64(7)}}}
	if got, ok := sc.Concern(view, king, concern); !ok || got != 20 {
		t.Errorf("score = %v, %v; want 20, true", got, ok)
	}
}
