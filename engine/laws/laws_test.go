package laws

import (
	"testing"

	"github.com/tmavro/edict/types"
)

func TestRatifyAndGet(t *testing.T) {
	r := NewRegistry()
	r.Ratify(types.Law{Name: "open-door", Layer: types.LayerStdLib})

	law, ok := r.Get("open-door")
	if !ok || law.Layer != types.LayerStdLib {
		t.Fatalf("Get = %v, %v", law, ok)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRatifyOverwriteKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Ratify(types.Law{Name: "a"})
	r.Ratify(types.Law{Name: "b"})
	r.Ratify(types.Law{Name: "a", Layer: types.LayerInstance}) // overwrite

	got := r.InOrder()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("order after overwrite = %v", names(got))
	}
	if got[0].Layer != types.LayerInstance {
		t.Error("overwrite did not replace the definition")
	}
}

func TestRevoke(t *testing.T) {
	r := NewRegistry()
	r.Ratify(types.Law{Name: "a"})
	r.Ratify(types.Law{Name: "b"})
	r.Ratify(types.Law{Name: "c"})
	r.Revoke("b")
	r.Revoke("missing") // no-op

	got := r.InOrder()
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Fatalf("order after revoke = %v", names(got))
	}
	if _, ok := r.Get("b"); ok {
		t.Error("revoked law still present")
	}
}

func names(laws []*types.Law) []string {
	var out []string
	for _, l := range laws {
		out = append(out, l.Name)
	}
	return out
}
