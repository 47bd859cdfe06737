// Package auction ranks laws for an intent. For each candidate law it scores
// every matcher against the intent's entities and produces an ordered bid
// list: layer first, specificity second, registration order as the tie-break.
package auction

import (
	"sort"

	"github.com/tmavro/edict/engine/laws"
	"github.com/tmavro/edict/engine/score"
	"github.com/tmavro/edict/types"
)

// Auctioneer computes ordered bids for intents.
type Auctioneer struct {
	Scorer *score.Scorer
}

// New creates an auctioneer with a default scorer.
func New() *Auctioneer {
	return &Auctioneer{Scorer: score.New()}
}

// ComputeBids returns the ordered bid list for one intent. Laws whose intent
// set does not contain the intent's name, and laws with no surviving
// matcher, produce no bid. The sort is stable, so laws tied on (layer,
// score) keep their registration order.
func (a *Auctioneer) ComputeBids(view types.WorldView, reg *laws.Registry, intent types.Intent) []types.Bid {
	var bids []types.Bid

	for _, law := range reg.InOrder() {
		if !law.HandlesIntent(intent.Name) {
			continue
		}
		if bid, ok := a.bidFor(view, law, intent); ok {
			bids = append(bids, bid)
		}
	}

	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Law.Layer != bids[j].Law.Layer {
			return bids[i].Law.Layer > bids[j].Law.Layer
		}
		return bids[i].Score > bids[j].Score
	})

	return bids
}

// bidFor evaluates every matcher of one law and keeps the maximum score
// across surviving matchers — a law declaring several scenarios bids its
// best one, not their sum.
func (a *Auctioneer) bidFor(view types.WorldView, law *types.Law, intent types.Intent) (types.Bid, bool) {
	best := types.Bid{Law: law}
	found := false

	for i := range law.Matchers {
		total, reordered, ok := a.scoreMatcher(view, &law.Matchers[i], intent)
		if !ok {
			continue
		}
		if !found || total > best.Score {
			best.Score = total
			best.ReorderedAuxiliaries = reordered
			found = true
		}
	}

	return best, found
}

// scoreMatcher scores one matcher against the intent. An absent intent slot
// scores its concern at zero rather than disqualifying; a disqualified
// concern on any side drops the matcher.
func (a *Auctioneer) scoreMatcher(view types.WorldView, m *types.Matcher, intent types.Intent) (float64, []types.Entity, bool) {
	var total float64

	if m.Actor != nil && intent.Actor != types.None {
		s, ok := a.Scorer.Concern(view, intent.Actor, m.Actor)
		if !ok {
			return 0, nil, false
		}
		total += s
	}

	if m.Target != nil && intent.Target != types.None {
		s, ok := a.Scorer.Concern(view, intent.Target, m.Target)
		if !ok {
			return 0, nil, false
		}
		total += s
	}

	if len(m.Auxiliary) > 0 {
		s, reordered, ok := a.scoreAuxiliaries(view, m.Auxiliary, intent.Auxiliary)
		if !ok {
			return 0, nil, false
		}
		return total + s, reordered, true
	}

	return total, nil, true
}

// scoreAuxiliaries runs the permutation search: auxiliary concerns are
// positional but players supply auxiliaries in free order, so every
// permutation of the supplied entities is scored against the concern list
// and the best surviving order wins. The search is factorial in the number
// of auxiliaries; auxiliary lists are expected to stay small (a handful of
// tools per command).
func (a *Auctioneer) scoreAuxiliaries(view types.WorldView, concerns []types.Concern, aux []types.Entity) (float64, []types.Entity, bool) {
	if len(aux) < len(concerns) {
		// A positional concern with no entity to satisfy it matches nothing.
		return 0, nil, false
	}

	var (
		bestScore float64
		bestOrder []types.Entity
		found     bool
	)

	permute(aux, func(perm []types.Entity) {
		var sum float64
		for i := range concerns {
			s, ok := a.Scorer.Concern(view, perm[i], &concerns[i])
			if !ok {
				return
			}
			sum += s
		}
		if !found || sum > bestScore {
			bestScore = sum
			bestOrder = append([]types.Entity(nil), perm...)
			found = true
		}
	})

	return bestScore, bestOrder, found
}

// permute visits every permutation of items (Heap's algorithm). The callback
// must copy the slice if it keeps it.
func permute(items []types.Entity, visit func([]types.Entity)) {
	work := append([]types.Entity(nil), items...)
	var rec func(k int)
	rec = func(k int) {
		if k == 1 {
			visit(work)
			return
		}
		for i := 0; i < k; i++ {
			rec(k - 1)
			if k%2 == 0 {
				work[i], work[k-1] = work[k-1], work[i]
			} else {
				work[0], work[k-1] = work[k-1], work[0]
			}
		}
	}
	if len(work) > 0 {
		rec(len(work))
	}
}
