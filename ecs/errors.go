package ecs

import "fmt"

// UnknownComponentError is returned by write operations against a component
// name that was never registered. This is a programmer error and aborts the
// calling operation.
type UnknownComponentError struct {
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q", e.Name)
}

// DuplicateComponentError is returned by DefineComponent on a name collision.
type DuplicateComponentError struct {
	Name string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q already defined", e.Name)
}

// DuplicatePrettyIDError is returned by CreateEntity when the requested
// pretty id is already indexed. The index must stay injective.
type DuplicatePrettyIDError struct {
	ID string
}

func (e *DuplicatePrettyIDError) Error() string {
	return fmt.Sprintf("pretty id %q already in use", e.ID)
}

// NoSuchEntityError is returned by write operations addressing an entity
// that is not in the active set (never created, or already destroyed).
type NoSuchEntityError struct {
	Entity int64
}

func (e *NoSuchEntityError) Error() string {
	return fmt.Sprintf("entity %d does not exist", e.Entity)
}
