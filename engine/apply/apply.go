// Package apply commits an accepted mutation list back to the entity store.
// Every mutation type is one atomic store operation; no game logic lives here.
package apply

import (
	"fmt"

	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/types"
)

// Commit validates the whole mutation list and then applies it. Validation
// runs first so a failed commit leaves the store untouched: queries never
// observe a partially applied commit set.
func Commit(store *ecs.Store, mutations []types.MutationOp) error {
	destroyed := map[types.Entity]bool{}
	for i, op := range mutations {
		if destroyed[op.Entity] {
			return fmt.Errorf("mutation %d (%s): entity %d destroyed earlier in this commit", i, op.Kind, op.Entity)
		}
		if err := validate(store, op); err != nil {
			return fmt.Errorf("mutation %d (%s): %w", i, op.Kind, err)
		}
		if op.Kind == types.MutationDestroy {
			destroyed[op.Entity] = true
		}
	}
	for _, op := range mutations {
		applyOne(store, op)
	}
	return nil
}

func validate(store *ecs.Store, op types.MutationOp) error {
	if op.Kind != types.MutationDestroy {
		if !store.ComponentRegistered(op.Component) {
			return &ecs.UnknownComponentError{Name: op.Component}
		}
	}
	if !store.EntityExists(op.Entity) {
		return &ecs.NoSuchEntityError{Entity: int64(op.Entity)}
	}
	if op.Kind == types.MutationAdd && store.HasComponent(op.Entity, op.Component) {
		return fmt.Errorf("entity %d already has component %q", op.Entity, op.Component)
	}
	return nil
}

// applyOne performs a single validated mutation. The store calls cannot fail
// after validation, but errors are still surfaced loudly if they do: that
// would be a bug in the validator.
func applyOne(store *ecs.Store, op types.MutationOp) {
	var err error
	switch op.Kind {
	case types.MutationUpdate:
		err = store.UpdateComponent(op.Entity, op.Component, op.Data)
	case types.MutationSet, types.MutationAdd:
		err = store.SetComponent(op.Entity, op.Component, op.Data)
	case types.MutationRemove:
		err = store.RemoveComponent(op.Entity, op.Component)
	case types.MutationDestroy:
		store.DestroyEntity(op.Entity)
	}
	if err != nil {
		panic(fmt.Sprintf("validated mutation failed: %v", err))
	}
}
