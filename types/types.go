// Package types defines the shared data structures for the Edict engine:
// entities, intents, laws, bids, and contributions.
package types

import "context"

// Entity is an opaque identifier for a world object. Entities carry no data
// themselves; they are keys into the component stores. Ids are allocated
// monotonically from 1 and never reused.
type Entity int64

// None is the zero Entity, used where an intent slot is unfilled.
const None Entity = 0

// Layer is the arbitration rank of a Law. It is declared by whoever
// registers the law, never derived from data, and dominates the specificity
// score when bids are ordered.
type Layer int

const (
	LayerCore Layer = iota
	LayerStdLib
	LayerDomain
	LayerInstance
)

func (l Layer) String() string {
	switch l {
	case LayerCore:
		return "core"
	case LayerStdLib:
		return "stdlib"
	case LayerDomain:
		return "domain"
	case LayerInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// PropMatch is one required property value, addressed as
// "ComponentName.fieldName".
type PropMatch struct {
	Path  string
	Value any
}

// Concern is a set of constraints evaluated against one entity. Each
// populated field is an independent constraint category; a populated
// category that matches nothing disqualifies the whole matcher side.
type Concern struct {
	IDs        []string
	Components []string
	Props      []PropMatch
	Tags       []string
}

// Matcher is one scenario a law declares interest in. Auxiliary concerns are
// positional: the auctioneer searches permutations of the supplied auxiliary
// entities to find the order that fits best.
type Matcher struct {
	Actor     *Concern
	Target    *Concern
	Auxiliary []Concern
}

// WorldView is the read-only surface laws and scorers see. The entity store
// implements it; laws receive it through the store's facade and cannot
// mutate state outside the commit protocol.
type WorldView interface {
	EntityExists(e Entity) bool
	ComponentRegistered(name string) bool
	HasComponent(e Entity, name string) bool
	ComponentsOn(e Entity) []string
	ComponentData(e Entity, name string) (map[string]any, bool)
	EntitiesWith(names ...string) []Entity
	HasTag(e Entity, tag string) bool
	ByPrettyID(id string) (Entity, bool)
	DisplayName(e Entity) string
}

// LawContext is what a law's apply function receives: the intent slots, the
// auxiliary ordering that won the auction, the player's original ordering,
// and a read-only view of the world.
type LawContext struct {
	Actor               Entity
	Target              Entity
	Auxiliaries         []Entity
	OriginalAuxiliaries []Entity
	World               WorldView
}

// ApplyFunc is a law body. It may block (network calls, model calls); the
// pipeline awaits each invocation before moving to the next bid, so law
// bodies never run concurrently.
type ApplyFunc func(ctx context.Context, lc *LawContext) (Contribution, error)

// Law is a prioritized rule that may react to a player intent.
type Law struct {
	Layer    Layer
	Name     string
	Intents  []string
	Matchers []Matcher
	Apply    ApplyFunc
}

// HandlesIntent reports whether the law declared interest in the named intent.
func (l *Law) HandlesIntent(name string) bool {
	for _, in := range l.Intents {
		if in == name {
			return true
		}
	}
	return false
}

// Intent is the structured form of a player command. Auxiliary entities are
// tools/instruments in player-stated order; the order is meaningful to some
// laws and immaterial to others.
type Intent struct {
	Name      string
	Actor     Entity
	Target    Entity
	Auxiliary []Entity
}

// Bid is one law's claim on an intent: its score and the auxiliary ordering
// that produced it.
type Bid struct {
	Law                  *Law
	Score                float64
	ReorderedAuxiliaries []Entity
}

// ContributionStatus is the three-state protocol a law answers with.
type ContributionStatus int

const (
	// StatusPass accepts the contribution and lets lower bids run too.
	StatusPass ContributionStatus = iota
	// StatusRejected vetoes the whole intent; accumulated contributions are
	// discarded and nothing is committed.
	StatusRejected
	// StatusCompleted accepts the contribution and stops the auction.
	StatusCompleted
)

func (s ContributionStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusRejected:
		return "rejected"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Contribution is what a law returns after being given a chance to act.
type Contribution struct {
	Status     ContributionStatus
	Law        string // filled in by the pipeline
	Mutations  []MutationOp
	Narrations []string
	Events     []Event
}

// MutationKind tags a MutationOp variant.
type MutationKind int

const (
	MutationUpdate MutationKind = iota
	MutationSet
	MutationAdd
	MutationRemove
	MutationDestroy
)

func (k MutationKind) String() string {
	switch k {
	case MutationUpdate:
		return "update"
	case MutationSet:
		return "set"
	case MutationAdd:
		return "add"
	case MutationRemove:
		return "remove"
	case MutationDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// MutationOp is a single proposed state change. Which fields are meaningful
// depends on Kind: Update merges Data into the component, Set replaces it,
// Add attaches a new component, Remove detaches one, Destroy removes the
// entity entirely.
type MutationOp struct {
	Kind      MutationKind
	Entity    Entity
	Component string
	Data      map[string]any
}

// Update shallow-merges Data into an existing component.
func Update(e Entity, component string, data map[string]any) MutationOp {
	return MutationOp{Kind: MutationUpdate, Entity: e, Component: component, Data: data}
}

// Set replaces a component's data wholesale.
func Set(e Entity, component string, data map[string]any) MutationOp {
	return MutationOp{Kind: MutationSet, Entity: e, Component: component, Data: data}
}

// Add attaches a component the entity does not yet have.
func Add(e Entity, component string, data map[string]any) MutationOp {
	return MutationOp{Kind: MutationAdd, Entity: e, Component: component, Data: data}
}

// Remove detaches a component from an entity.
func Remove(e Entity, component string) MutationOp {
	return MutationOp{Kind: MutationRemove, Entity: e, Component: component}
}

// Destroy removes an entity and all its components.
func Destroy(e Entity) MutationOp {
	return MutationOp{Kind: MutationDestroy, Entity: e}
}

// Event is a semantic event surfaced through the emitter after a commit.
type Event struct {
	Type string
	Data map[string]any
}

// Classification is one candidate reading of a raw command, produced by the
// intent classification collaborator.
type Classification struct {
	Intent     Intent
	Confidence float64
	Valid      bool
	DryRun     bool
}

// Result is the outcome of one engine step.
type Result struct {
	Narrations []string
	Events     []Event
	Mutations  []MutationOp
	DryRun     bool
	Handled    bool // false when the command did not classify
}
