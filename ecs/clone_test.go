package ecs

import "testing"

func TestDeepCloneCycle(t *testing.T) {
	record := map[string]any{"name": "ouroboros"}
	record["self"] = record

	clone := deepClone(record)

	if clone["name"] != "ouroboros" {
		t.Errorf("name = %v", clone["name"])
	}
	inner, ok := clone["self"].(map[string]any)
	if !ok {
		t.Fatalf("self is %T, want map", clone["self"])
	}
	// The cycle must point at the clone, not the original.
	inner["name"] = "changed"
	if record["name"] != "ouroboros" {
		t.Error("clone cycle aliases the original")
	}
}

func TestDeepCloneSharedSubstructure(t *testing.T) {
	shared := map[string]any{"x": 1}
	record := map[string]any{"a": shared, "b": shared}

	clone := deepClone(record)

	a := clone["a"].(map[string]any)
	b := clone["b"].(map[string]any)
	a["x"] = 2
	if b["x"] != 2 {
		t.Error("shared substructure was cloned twice instead of once")
	}
	if shared["x"] != 1 {
		t.Error("clone aliases the original shared map")
	}
}

func TestDeepCloneSlices(t *testing.T) {
	record := map[string]any{"list": []any{1, "two", map[string]any{"three": 3}}}

	clone := deepClone(record)
	list := clone["list"].([]any)
	list[0] = 99
	list[2].(map[string]any)["three"] = 99

	orig := record["list"].([]any)
	if orig[0] != 1 || orig[2].(map[string]any)["three"] != 3 {
		t.Error("slice clone aliases the original")
	}
}

func TestDeepCloneNil(t *testing.T) {
	if got := deepClone(nil); got != nil {
		t.Errorf("deepClone(nil) = %v", got)
	}
	clone := deepClone(map[string]any{"v": nil})
	if clone["v"] != nil {
		t.Errorf("nil value became %v", clone["v"])
	}
}

func TestDeepCloneTypedMaps(t *testing.T) {
	record := map[string]any{"labels": map[string]bool{"wrench": true}}
	clone := deepClone(record)
	clone["labels"].(map[string]bool)["sparkplug"] = true
	if record["labels"].(map[string]bool)["sparkplug"] {
		t.Error("typed map clone aliases the original")
	}
}
