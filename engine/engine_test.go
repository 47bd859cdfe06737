package engine

import (
	"context"
	"testing"

	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/emit"
	"github.com/tmavro/edict/engine/laws"
	"github.com/tmavro/edict/types"
)

// doorWorld builds a store with a player and a closed door, plus a registry
// holding a stdlib open-door law.
func doorWorld(t *testing.T) (*ecs.Store, *laws.Registry, types.Entity) {
	t.Helper()
	s := ecs.NewStore()
	if err := s.DefineComponent("Door"); err != nil {
		t.Fatal(err)
	}

	player, err := s.CreateEntity("player")
	if err != nil {
		t.Fatal(err)
	}
	s.SetDisplayName(player, "You")

	door, err := s.CreateEntity("iron_door")
	if err != nil {
		t.Fatal(err)
	}
	s.SetDisplayName(door, "Iron Door")
	s.SetComponent(door, "Door", map[string]any{"open": false})

	reg := laws.NewRegistry()
	reg.Ratify(types.Law{
		Name:    "open-doors",
		Layer:   types.LayerStdLib,
		Intents: []string{"open"},
		Matchers: []types.Matcher{
			{Target: &types.Concern{Components: []string{"Door"}}},
		},
		Apply: func(ctx context.Context, lc *types.LawContext) (types.Contribution, error) {
			data, _ := lc.World.ComponentData(lc.Target, "Door")
			if data["open"] == true {
				return types.Contribution{Status: types.StatusRejected}, nil
			}
			return types.Contribution{
				Status:     types.StatusCompleted,
				Mutations:  []types.MutationOp{types.Update(lc.Target, "Door", map[string]any{"open": true})},
				Narrations: []string{"door_opens"},
				Events:     []types.Event{{Type: "door_opened", Data: map[string]any{"door": int64(lc.Target)}}},
			}, nil
		},
	})

	return s, reg, door
}

func TestStepOpensDoor(t *testing.T) {
	s, reg, door := doorWorld(t)
	rec := &emit.Recorder{}
	e := New(s, reg, WithEmitter(rec))

	result, err := e.Step(context.Background(), "open the iron door")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Handled {
		t.Fatal("command not handled")
	}

	data, _ := s.ComponentData(door, "Door")
	if data["open"] != true {
		t.Error("mutation not committed")
	}
	if len(rec.On(StreamNarration)) != 1 {
		t.Errorf("narrations emitted = %d, want 1", len(rec.On(StreamNarration)))
	}
	if len(rec.On(StreamEvent)) != 1 {
		t.Errorf("events emitted = %d, want 1", len(rec.On(StreamEvent)))
	}
}

func TestStepUnknownCommand(t *testing.T) {
	s, reg, door := doorWorld(t)
	rec := &emit.Recorder{}
	e := New(s, reg, WithEmitter(rec))

	result, err := e.Step(context.Background(), "discombobulate the frobnicator")
	if err != nil {
		t.Fatal(err)
	}
	if result.Handled {
		t.Error("nonsense command was handled")
	}
	if len(result.Narrations) != 1 || result.Narrations[0] != "I don't understand that." {
		t.Errorf("narrations = %v", result.Narrations)
	}

	// No auction ran: the door is untouched.
	data, _ := s.ComponentData(door, "Door")
	if data["open"] != false {
		t.Error("unknown command mutated the world")
	}
}

func TestStepDryRun(t *testing.T) {
	s, reg, door := doorWorld(t)
	e := New(s, reg)

	result, err := e.Step(context.Background(), "simulate open the iron door")
	if err != nil {
		t.Fatal(err)
	}
	if !result.DryRun {
		t.Fatal("dry run flag lost")
	}
	if len(result.Mutations) == 0 {
		t.Error("dry run returned no mutation list")
	}

	data, _ := s.ComponentData(door, "Door")
	if data["open"] != false {
		t.Error("dry run applied mutations")
	}
}

func TestStepRejectionRollsBack(t *testing.T) {
	s, reg, door := doorWorld(t)
	e := New(s, reg)

	if _, err := e.Step(context.Background(), "open the iron door"); err != nil {
		t.Fatal(err)
	}
	// Second open: the law rejects, nothing changes, nothing narrated.
	result, err := e.Step(context.Background(), "open the iron door")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Mutations) != 0 || len(result.Narrations) != 0 {
		t.Errorf("rejected intent produced output: %+v", result)
	}

	data, _ := s.ComponentData(door, "Door")
	if data["open"] != true {
		t.Error("door state corrupted by rejection")
	}
}

func TestRunIntentProgrammatic(t *testing.T) {
	s, reg, door := doorWorld(t)
	e := New(s, reg)

	intent := types.Intent{Name: "open", Target: door}
	result, err := e.RunIntent(context.Background(), intent, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Mutations) != 1 {
		t.Fatalf("mutations = %d, want 1", len(result.Mutations))
	}
	data, _ := s.ComponentData(door, "Door")
	if data["open"] != true {
		t.Error("mutation not committed")
	}
}

func TestTurnCount(t *testing.T) {
	s, reg, _ := doorWorld(t)
	e := New(s, reg)
	e.Step(context.Background(), "wait")
	e.Step(context.Background(), "wait")
	if e.TurnCount() != 2 {
		t.Errorf("turn count = %d, want 2", e.TurnCount())
	}
}
