// Package ecs implements the entity store: an in-memory relational store of
// entities and their components, the only place mutation occurs.
package ecs

import (
	"sort"
	"time"

	"github.com/tmavro/edict/types"
)

// Bootstrapped component names, attached to every entity on creation.
const (
	ComponentTags = "Tags"
	ComponentMeta = "Meta"
)

// Store owns all entity identities and component data. It is not safe for
// concurrent use; the engine processes one intent at a time, and writers go
// through the commit protocol while laws read via the facade.
type Store struct {
	nextID     types.Entity
	active     map[types.Entity]struct{}
	components map[string]map[types.Entity]map[string]any
	prettyIDs  map[string]types.Entity
	now        func() time.Time
}

// NewStore creates an empty store with the Tags and Meta components
// pre-registered.
func NewStore() *Store {
	s := &Store{
		active:     map[types.Entity]struct{}{},
		components: map[string]map[types.Entity]map[string]any{},
		prettyIDs:  map[string]types.Entity{},
		now:        time.Now,
	}
	s.components[ComponentTags] = map[types.Entity]map[string]any{}
	s.components[ComponentMeta] = map[types.Entity]map[string]any{}
	return s
}

// DefineComponent registers a new component type. Registering a name twice
// is an error.
func (s *Store) DefineComponent(name string) error {
	if _, ok := s.components[name]; ok {
		return &DuplicateComponentError{Name: name}
	}
	s.components[name] = map[types.Entity]map[string]any{}
	return nil
}

// CreateEntity allocates the next id and bootstraps the Tags and Meta
// components. prettyID may be empty; a non-empty prettyID must be unique
// across the store.
func (s *Store) CreateEntity(prettyID string) (types.Entity, error) {
	if prettyID != "" {
		if _, taken := s.prettyIDs[prettyID]; taken {
			return types.None, &DuplicatePrettyIDError{ID: prettyID}
		}
	}

	s.nextID++
	e := s.nextID
	s.active[e] = struct{}{}

	s.components[ComponentTags][e] = map[string]any{
		"labels": map[string]bool{},
	}
	meta := map[string]any{
		"name":       "",
		"created_at": s.now().Unix(),
	}
	if prettyID != "" {
		meta["pretty_id"] = prettyID
		s.prettyIDs[prettyID] = e
	}
	s.components[ComponentMeta][e] = meta

	return e, nil
}

// SetComponent replaces an entity's component data wholesale.
func (s *Store) SetComponent(e types.Entity, name string, data map[string]any) error {
	store, err := s.writable(e, name)
	if err != nil {
		return err
	}
	store[e] = deepClone(data)
	return nil
}

// UpdateComponent shallow-merges fields into an entity's existing component
// data. Missing component data starts from an empty record.
func (s *Store) UpdateComponent(e types.Entity, name string, partial map[string]any) error {
	store, err := s.writable(e, name)
	if err != nil {
		return err
	}
	record, ok := store[e]
	if !ok {
		record = map[string]any{}
		store[e] = record
	}
	for k, v := range deepClone(partial) {
		record[k] = v
	}
	return nil
}

// RemoveComponent detaches a component from an entity. Removing a component
// the entity does not have is a no-op; removing an unregistered component
// name is an error.
func (s *Store) RemoveComponent(e types.Entity, name string) error {
	store, err := s.writable(e, name)
	if err != nil {
		return err
	}
	delete(store, e)
	return nil
}

// writable validates a write target: the component must be registered and
// the entity alive.
func (s *Store) writable(e types.Entity, name string) (map[types.Entity]map[string]any, error) {
	store, ok := s.components[name]
	if !ok {
		return nil, &UnknownComponentError{Name: name}
	}
	if _, alive := s.active[e]; !alive {
		return nil, &NoSuchEntityError{Entity: int64(e)}
	}
	return store, nil
}

// DestroyEntity removes the entity from every component store and from the
// active set. No store is left with a stale reference. Destroying an
// already-dead entity is a no-op.
func (s *Store) DestroyEntity(e types.Entity) {
	if _, alive := s.active[e]; !alive {
		return
	}
	if meta, ok := s.components[ComponentMeta][e]; ok {
		if id, ok := meta["pretty_id"].(string); ok {
			delete(s.prettyIDs, id)
		}
	}
	for _, store := range s.components {
		delete(store, e)
	}
	delete(s.active, e)
}

// EntityExists reports whether the entity is in the active set.
func (s *Store) EntityExists(e types.Entity) bool {
	_, ok := s.active[e]
	return ok
}

// ComponentRegistered reports whether a component type was defined.
func (s *Store) ComponentRegistered(name string) bool {
	_, ok := s.components[name]
	return ok
}

// HasComponent reports whether the entity carries the named component.
func (s *Store) HasComponent(e types.Entity, name string) bool {
	store, ok := s.components[name]
	if !ok {
		return false
	}
	_, ok = store[e]
	return ok
}

// ComponentsOn returns the names of all components present on an entity,
// sorted for determinism.
func (s *Store) ComponentsOn(e types.Entity) []string {
	var names []string
	for name, store := range s.components {
		if _, ok := store[e]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ComponentData returns an isolated snapshot of an entity's component data.
// The copy is deep and cycle-safe, so callers cannot reach store-owned
// structures through it. The bool is false if the entity lacks the component.
func (s *Store) ComponentData(e types.Entity, name string) (map[string]any, bool) {
	store, ok := s.components[name]
	if !ok {
		return nil, false
	}
	record, ok := store[e]
	if !ok {
		return nil, false
	}
	return deepClone(record), true
}

// EntitiesWith returns the entities carrying every named component, sorted
// by id. Empty input returns an empty result. The query iterates only the
// smallest involved store and probes the rest, so cost is bounded by the
// smallest set rather than total entity count.
func (s *Store) EntitiesWith(names ...string) []types.Entity {
	if len(names) == 0 {
		return nil
	}

	stores := make([]map[types.Entity]map[string]any, 0, len(names))
	for _, name := range names {
		store, ok := s.components[name]
		if !ok {
			return nil
		}
		stores = append(stores, store)
	}

	sort.Slice(stores, func(i, j int) bool {
		return len(stores[i]) < len(stores[j])
	})

	var result []types.Entity
	for e := range stores[0] {
		member := true
		for _, store := range stores[1:] {
			if _, ok := store[e]; !ok {
				member = false
				break
			}
		}
		if member {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// AddTag adds a string label to the entity's Tags component.
func (s *Store) AddTag(e types.Entity, tag string) error {
	store, err := s.writable(e, ComponentTags)
	if err != nil {
		return err
	}
	record, ok := store[e]
	if !ok {
		record = map[string]any{"labels": map[string]bool{}}
		store[e] = record
	}
	labels, ok := record["labels"].(map[string]bool)
	if !ok {
		labels = map[string]bool{}
		record["labels"] = labels
	}
	labels[tag] = true
	return nil
}

// HasTag reports whether the entity carries the given tag label.
func (s *Store) HasTag(e types.Entity, tag string) bool {
	record, ok := s.components[ComponentTags][e]
	if !ok {
		return false
	}
	labels, ok := record["labels"].(map[string]bool)
	return ok && labels[tag]
}

// ByPrettyID looks up an entity by its developer-assigned pretty id.
func (s *Store) ByPrettyID(id string) (types.Entity, bool) {
	e, ok := s.prettyIDs[id]
	return e, ok
}

// SetDisplayName records a display name in the entity's Meta component.
func (s *Store) SetDisplayName(e types.Entity, name string) error {
	return s.UpdateComponent(e, ComponentMeta, map[string]any{"name": name})
}

// DisplayName returns the entity's Meta display name, falling back to its
// pretty id, then the empty string.
func (s *Store) DisplayName(e types.Entity) string {
	meta, ok := s.components[ComponentMeta][e]
	if !ok {
		return ""
	}
	if name, ok := meta["name"].(string); ok && name != "" {
		return name
	}
	if id, ok := meta["pretty_id"].(string); ok {
		return id
	}
	return ""
}

// View returns the capability-limited read-only facade handed to laws.
func (s *Store) View() *View {
	return &View{store: s}
}
