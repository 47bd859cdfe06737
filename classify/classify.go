// Package classify turns raw command strings into candidate intents.
// The default classifier is intentionally dumb: alias tables, preposition
// splitting, and noun resolution against the entity store — no NLP. Hosts
// with a real language model implement Classifier themselves.
package classify

import (
	"context"
	"strings"

	"github.com/tmavro/edict/types"
)

// Classifier produces candidate readings of a command. An empty result, or
// results below the engine's confidence threshold, route to the unknown
// command narration.
type Classifier interface {
	Classify(ctx context.Context, command string) ([]types.Classification, error)
}

var verbAliases = map[string]string{
	// Look / Examine
	"l":       "look",
	"x":       "examine",
	"inspect": "examine",
	"check":   "examine",
	"study":   "examine",

	// Manipulation
	"grab":   "take",
	"get":    "take",
	"shut":   "close",
	"fix":    "repair",
	"mend":   "repair",
	"attach": "install",
	"fit":    "install",

	// Usage
	"apply":   "use",
	"operate": "use",
	"wield":   "use",

	// Speech
	"speak": "talk",
	"chat":  "talk",
}

var targetPreps = map[string]bool{
	"on": true, "at": true, "to": true, "into": true,
}

var auxPreps = map[string]bool{
	"with": true, "using": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Keyword is the default classifier: it parses a command into verb, target
// phrase, and auxiliary phrases, then resolves each noun phrase to an entity
// through the store view (pretty id, display name, then tag).
type Keyword struct {
	View types.WorldView
	// ActorID is the pretty id of the implied actor. Default "player".
	ActorID string
	// DryRunPrefix marks a command as a dry run. Default "simulate".
	DryRunPrefix string
}

// NewKeyword creates a keyword classifier over a world view.
func NewKeyword(view types.WorldView) *Keyword {
	return &Keyword{View: view, ActorID: "player", DryRunPrefix: "simulate"}
}

// Classify parses and resolves one command. It always returns at most one
// candidate; unresolvable nouns mark the candidate invalid rather than
// producing an error.
func (k *Keyword) Classify(ctx context.Context, command string) ([]types.Classification, error) {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(command)))
	if len(words) == 0 {
		return nil, nil
	}

	dryRun := false
	if prefix := k.dryRunPrefix(); len(words) > 1 && words[0] == prefix {
		dryRun = true
		words = words[1:]
	}

	verb := words[0]
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	targetPhrase, auxPhrases := splitClauses(words[1:])

	intent := types.Intent{Name: verb}
	valid := true
	resolvedAll := true

	if actorID := k.actorID(); actorID != "" {
		if actor, ok := k.View.ByPrettyID(actorID); ok {
			intent.Actor = actor
		}
	}

	if targetPhrase != "" {
		target, ok := k.resolveNoun(targetPhrase)
		if !ok {
			valid = false
			resolvedAll = false
		}
		intent.Target = target
	}

	for _, phrase := range auxPhrases {
		aux, ok := k.resolveNoun(phrase)
		if !ok {
			valid = false
			resolvedAll = false
			continue
		}
		intent.Auxiliary = append(intent.Auxiliary, aux)
	}

	confidence := 0.9
	if !resolvedAll {
		confidence = 0.2
	}

	return []types.Classification{{
		Intent:     intent,
		Confidence: confidence,
		Valid:      valid,
		DryRun:     dryRun,
	}}, nil
}

func (k *Keyword) actorID() string {
	if k.ActorID != "" {
		return k.ActorID
	}
	return "player"
}

func (k *Keyword) dryRunPrefix() string {
	if k.DryRunPrefix != "" {
		return k.DryRunPrefix
	}
	return "simulate"
}

// splitClauses divides the words after the verb into a target phrase and
// auxiliary phrases. "use wrench on door with oil" → the "on" clause is the
// target, and both the leading clause and every "with"/"using" clause are
// auxiliaries. Without a target preposition the leading clause is the target.
func splitClauses(words []string) (target string, aux []string) {
	type clause struct {
		prep  string
		words []string
	}

	clauses := []clause{{}}
	for _, w := range words {
		if articles[w] {
			continue
		}
		if targetPreps[w] || auxPreps[w] {
			clauses = append(clauses, clause{prep: w})
			continue
		}
		last := &clauses[len(clauses)-1]
		last.words = append(last.words, w)
	}

	leading := strings.Join(clauses[0].words, " ")
	targetFromPrep := false

	for _, c := range clauses[1:] {
		phrase := strings.Join(c.words, " ")
		if phrase == "" {
			continue
		}
		switch {
		case targetPreps[c.prep] && !targetFromPrep:
			target = phrase
			targetFromPrep = true
		default:
			aux = append(aux, splitList(phrase)...)
		}
	}

	if targetFromPrep {
		if leading != "" {
			aux = append(splitList(leading), aux...)
		}
	} else {
		target = leading
	}

	return target, aux
}

// splitList breaks "wrench and spark plug" or "wrench, oil" into items.
func splitList(phrase string) []string {
	var items []string
	for _, part := range strings.FieldsFunc(phrase, func(r rune) bool { return r == ',' }) {
		for _, item := range strings.Split(part, " and ") {
			item = strings.TrimSpace(item)
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// resolveNoun maps a noun phrase to an entity: exact pretty id (with
// space → underscore normalization), then display name, then unique tag.
func (k *Keyword) resolveNoun(phrase string) (types.Entity, bool) {
	if e, ok := k.View.ByPrettyID(phrase); ok {
		return e, true
	}
	if e, ok := k.View.ByPrettyID(strings.ReplaceAll(phrase, " ", "_")); ok {
		return e, true
	}

	// Display-name pass over tagged/meta entities via the Meta store.
	if e, ok := k.byDisplayName(phrase); ok {
		return e, true
	}

	// Tag pass: a phrase that uniquely names a tag resolves to the only
	// entity carrying it.
	return k.byUniqueTag(strings.ReplaceAll(phrase, " ", "_"))
}

func (k *Keyword) byDisplayName(phrase string) (types.Entity, bool) {
	var matches []types.Entity
	for _, e := range k.View.EntitiesWith("Meta") {
		name := strings.ToLower(k.View.DisplayName(e))
		if name == "" {
			continue
		}
		if name == phrase || wordMatch(name, phrase) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return types.None, false
}

func (k *Keyword) byUniqueTag(tag string) (types.Entity, bool) {
	var matches []types.Entity
	for _, e := range k.View.EntitiesWith("Tags") {
		if k.View.HasTag(e, tag) {
			matches = append(matches, e)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return types.None, false
}

// wordMatch reports whether the query matches any single word of the name,
// so "key" finds "brass key".
func wordMatch(name, query string) bool {
	if strings.Contains(query, " ") {
		return false
	}
	for _, w := range strings.Fields(name) {
		if w == query {
			return true
		}
	}
	return false
}
