// Package engine wires classification, the auction, the contribution
// pipeline, mutation commit, and emission into a single request-driven step.
package engine

import (
	"context"
	"fmt"

	"github.com/tmavro/edict/classify"
	"github.com/tmavro/edict/config"
	"github.com/tmavro/edict/ecs"
	"github.com/tmavro/edict/emit"
	"github.com/tmavro/edict/engine/apply"
	"github.com/tmavro/edict/engine/auction"
	"github.com/tmavro/edict/engine/laws"
	"github.com/tmavro/edict/engine/pipeline"
	"github.com/tmavro/edict/engine/score"
	"github.com/tmavro/edict/locale"
	"github.com/tmavro/edict/types"
)

// Streams the engine emits on.
const (
	StreamNarration = "narration"
	StreamEvent     = "event"
)

// Engine holds the world store, the law registry, and the collaborator
// boundaries. It is strictly request-driven: idle between commands, one
// intent processed to completion before the next begins.
type Engine struct {
	Store      *ecs.Store
	Registry   *laws.Registry
	Auctioneer *auction.Auctioneer
	Classifier classify.Classifier
	Emitter    emit.Emitter
	Locale     *locale.Table

	threshold float64
	turnCount int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the default keyword classifier.
func WithClassifier(c classify.Classifier) Option {
	return func(e *Engine) { e.Classifier = c }
}

// WithEmitter sets the emitter. Default is emit.Discard.
func WithEmitter(em emit.Emitter) Option {
	return func(e *Engine) { e.Emitter = em }
}

// WithLocale sets the localization table. Default is the built-in English.
func WithLocale(t *locale.Table) Option {
	return func(e *Engine) { e.Locale = t }
}

// WithConfig applies tuning: scorer weights and classification threshold.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.Auctioneer.Scorer.Weights = cfg.Weights
		e.threshold = cfg.Classifier.Threshold
		if k, ok := e.Classifier.(*classify.Keyword); ok {
			k.DryRunPrefix = cfg.Classifier.DryRunPrefix
		}
	}
}

// WithWarn routes scoring warnings (malformed matcher data) to a sink.
func WithWarn(warn func(format string, args ...any)) Option {
	return func(e *Engine) { e.Auctioneer.Scorer.Warn = warn }
}

// New creates an engine over a store and registry.
func New(store *ecs.Store, registry *laws.Registry, opts ...Option) *Engine {
	e := &Engine{
		Store:      store,
		Registry:   registry,
		Auctioneer: &auction.Auctioneer{Scorer: score.New()},
		Emitter:    emit.Discard,
		Locale:     locale.Default(),
		threshold:  config.Default().Classifier.Threshold,
	}
	e.Classifier = classify.NewKeyword(store.View())
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TurnCount reports how many commands have been processed.
func (e *Engine) TurnCount() int {
	return e.turnCount
}

// Step processes one player command to completion: classify, auction, run
// the pipeline, commit accepted mutations, emit narration and events.
func (e *Engine) Step(ctx context.Context, command string) (types.Result, error) {
	e.turnCount++

	candidates, err := e.Classifier.Classify(ctx, command)
	if err != nil {
		return types.Result{}, fmt.Errorf("classifying %q: %w", command, err)
	}

	chosen, ok := e.pickClassification(candidates)
	if !ok {
		return e.unknownCommand(ctx)
	}

	return e.RunIntent(ctx, chosen.Intent, chosen.DryRun)
}

// pickClassification selects the highest-confidence candidate that is valid
// and clears the threshold.
func (e *Engine) pickClassification(candidates []types.Classification) (types.Classification, bool) {
	var (
		best  types.Classification
		found bool
	)
	for _, c := range candidates {
		if !c.Valid || c.Confidence < e.threshold {
			continue
		}
		if !found || c.Confidence > best.Confidence {
			best = c
			found = true
		}
	}
	return best, found
}

// unknownCommand is the no-auction path: a localized shrug.
func (e *Engine) unknownCommand(ctx context.Context) (types.Result, error) {
	line := e.Locale.Translate("unknown_command")
	if err := e.Emitter.Emit(ctx, StreamNarration, line); err != nil {
		return types.Result{}, fmt.Errorf("emitting narration: %w", err)
	}
	return types.Result{Narrations: []string{line}}, nil
}

// RunIntent runs the auction and pipeline for an already-classified intent.
// When dryRun is set the same ordering and selection logic runs, and the
// mutation list is returned, but nothing is applied to the store.
func (e *Engine) RunIntent(ctx context.Context, intent types.Intent, dryRun bool) (types.Result, error) {
	view := e.Store.View()

	bids := e.Auctioneer.ComputeBids(view, e.Registry, intent)
	contributions, err := pipeline.Run(ctx, view, intent, bids)
	if err != nil {
		return types.Result{}, fmt.Errorf("intent %s: %w", intent.Name, err)
	}

	mutations, narrations, events := pipeline.Collect(contributions)

	result := types.Result{
		Mutations: mutations,
		Events:    events,
		DryRun:    dryRun,
		Handled:   true,
	}
	for _, slug := range narrations {
		result.Narrations = append(result.Narrations, e.Locale.Translate(slug))
	}

	if !dryRun && len(mutations) > 0 {
		if err := apply.Commit(e.Store, mutations); err != nil {
			return types.Result{}, fmt.Errorf("committing intent %s: %w", intent.Name, err)
		}
	}
	if dryRun {
		result.Narrations = append(result.Narrations, e.Locale.Translate("dry_run_notice"))
	}

	for _, line := range result.Narrations {
		if err := e.Emitter.Emit(ctx, StreamNarration, line); err != nil {
			return types.Result{}, fmt.Errorf("emitting narration: %w", err)
		}
	}
	for _, ev := range result.Events {
		if err := e.Emitter.Emit(ctx, StreamEvent, ev); err != nil {
			return types.Result{}, fmt.Errorf("emitting event %s: %w", ev.Type, err)
		}
	}

	return result, nil
}
