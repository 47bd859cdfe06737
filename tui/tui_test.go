package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/engine"
	"github.com/tmavro/edict/engine/laws"
	"github.com/tmavro/edict/loader"
	"github.com/tmavro/edict/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"The shed door swings open.", kindNarration},
		{"* door_opened map[door:shed door]", kindEvent},
		{"[Trace output enabled.]", kindSystem},
		{"[trace] Mutations: 1", kindTrace},
		{"", kindNarration},
		{"Taken.", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	ev := types.Event{Type: "door_opened"}
	if got := formatEvent(ev); got != "* door_opened" {
		t.Errorf("formatEvent = %q", got)
	}

	ev.Data = map[string]any{"door": "shed door"}
	if got := formatEvent(ev); !strings.HasPrefix(got, "* door_opened ") {
		t.Errorf("formatEvent with data = %q", got)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The workshop stretches before you, racks of tools on every wall.", 30,
			"The workshop stretches before\nyou, racks of tools on every\nwall."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("open the door")
	h.Push("take the wrench")

	prev, ok := h.Prev()
	if !ok || prev != "take the wrench" {
		t.Errorf("expected 'take the wrench', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "open the door" {
		t.Errorf("expected 'open the door', got %q (ok=%v)", prev, ok)
	}

	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look', got %q (ok=%v)", prev, ok)
	}

	// At oldest, stays there.
	prev, ok = h.Prev()
	if !ok || prev != "look" {
		t.Errorf("expected 'look' at boundary, got %q (ok=%v)", prev, ok)
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("open the door")

	h.Prev()
	h.Prev()

	next, ok := h.Next()
	if !ok || next != "open the door" {
		t.Errorf("expected 'open the door', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	prev, _ := h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "b" {
		t.Errorf("expected 'b' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("look")
	h.Push("look")

	if len(h.entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(h.entries))
	}
}

// testModel builds a model over a one-door world with an open-doors law.
func testModel(t *testing.T) Model {
	t.Helper()
	store := ecs.NewStore()
	if err := store.DefineComponent("Door"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateEntity("player"); err != nil {
		t.Fatal(err)
	}
	door, err := store.CreateEntity("shed_door")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetDisplayName(door, "shed door"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetComponent(door, "Door", map[string]any{"open": false}); err != nil {
		t.Fatal(err)
	}

	reg := laws.NewRegistry()
	reg.Ratify(types.Law{
		Layer:   types.LayerStdLib,
		Name:    "open-doors",
		Intents: []string{"open"},
		Matchers: []types.Matcher{
			{Target: &types.Concern{Components: []string{"Door"}}},
		},
		Apply: func(ctx context.Context, lc *types.LawContext) (types.Contribution, error) {
			return types.Contribution{Status: types.StatusCompleted}, nil
		},
	})

	pack := &loader.Pack{Title: "Test World", Author: "tester", Version: "0.1.0"}
	return New(engine.New(store, reg), pack)
}

func TestHandleMeta_Quit(t *testing.T) {
	m := testModel(t)

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := testModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/laws", "/entities", "/entity", "/trace", "/quit"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Laws(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/laws")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "open-doors") || !strings.Contains(joined, "stdlib") {
		t.Errorf("/laws output: %v", output)
	}
}

func TestHandleMeta_Entities(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/entities")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "shed door") {
		t.Errorf("/entities output: %v", output)
	}
}

func TestHandleMeta_Entity(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/entity shed_door")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Door{open=false}") {
		t.Errorf("/entity output: %v", output)
	}

	output, _ = m.handleMeta("/entity nope")
	if len(output) == 0 || !strings.Contains(output[0], "No entity") {
		t.Errorf("expected miss message, got %v", output)
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := testModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := testModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}
