// Package pipeline walks an ordered bid list, invoking each law in turn and
// accumulating or discarding contributions per the three-state protocol.
package pipeline

import (
	"context"
	"fmt"

	"github.com/tmavro/edict/types"
)

// Run invokes each bid's law in order and returns the commit set.
//
// Law bodies may block on slow collaborators, but bids are never evaluated
// concurrently: each apply call is awaited before the next begins, so
// ordering and rollback stay auditable. The protocol:
//
//   - StatusPass: keep the contribution, continue to the next bid.
//   - StatusCompleted: keep it and stop; return everything accumulated.
//   - StatusRejected: discard everything and return an empty commit set.
//
// An exhausted bid list returns whatever was accumulated. A law returning an
// error aborts the intent; nothing is committed.
func Run(ctx context.Context, view types.WorldView, intent types.Intent, bids []types.Bid) ([]types.Contribution, error) {
	var accepted []types.Contribution

	for _, bid := range bids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lc := &types.LawContext{
			Actor:               intent.Actor,
			Target:              intent.Target,
			Auxiliaries:         bid.ReorderedAuxiliaries,
			OriginalAuxiliaries: intent.Auxiliary,
			World:               view,
		}

		contribution, err := bid.Law.Apply(ctx, lc)
		if err != nil {
			return nil, fmt.Errorf("law %s: %w", bid.Law.Name, err)
		}
		contribution.Law = bid.Law.Name

		switch contribution.Status {
		case types.StatusPass:
			accepted = append(accepted, contribution)
		case types.StatusCompleted:
			return append(accepted, contribution), nil
		case types.StatusRejected:
			// A rejection is a designed rollback signal, not an error: no
			// partial contribution is ever committed.
			return nil, nil
		default:
			return nil, fmt.Errorf("law %s: invalid contribution status %d", bid.Law.Name, contribution.Status)
		}
	}

	return accepted, nil
}

// Collect flattens a commit set into its mutation, narration, and event
// lists, preserving contribution order.
func Collect(contributions []types.Contribution) ([]types.MutationOp, []string, []types.Event) {
	var (
		mutations  []types.MutationOp
		narrations []string
		events     []types.Event
	)
	for _, c := range contributions {
		mutations = append(mutations, c.Mutations...)
		narrations = append(narrations, c.Narrations...)
		events = append(events, c.Events...)
	}
	return mutations, narrations, events
}
