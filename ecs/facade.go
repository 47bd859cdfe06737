package ecs

import "github.com/tmavro/edict/types"

// View is a read-only facade over a Store. It exposes only query operations,
// so arbitration logic handed a View cannot mutate state outside the commit
// protocol.
type View struct {
	store *Store
}

var _ types.WorldView = (*View)(nil)

func (v *View) EntityExists(e types.Entity) bool { return v.store.EntityExists(e) }

func (v *View) ComponentRegistered(name string) bool { return v.store.ComponentRegistered(name) }

func (v *View) HasComponent(e types.Entity, name string) bool { return v.store.HasComponent(e, name) }

func (v *View) ComponentsOn(e types.Entity) []string { return v.store.ComponentsOn(e) }

func (v *View) ComponentData(e types.Entity, name string) (map[string]any, bool) {
	return v.store.ComponentData(e, name)
}

func (v *View) EntitiesWith(names ...string) []types.Entity { return v.store.EntitiesWith(names...) }

func (v *View) HasTag(e types.Entity, tag string) bool { return v.store.HasTag(e, tag) }

func (v *View) ByPrettyID(id string) (types.Entity, bool) { return v.store.ByPrettyID(id) }

func (v *View) DisplayName(e types.Entity) string { return v.store.DisplayName(e) }
