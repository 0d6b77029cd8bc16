package stats

import (
	"log/slog"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
)

// Aggregator folds completed hands into an AggregateState. Counters are
// commutative sums, so replay order does not affect the final totals.
// Not safe for concurrent use; parse files with isolated states and
// Merge them instead.
type Aggregator struct {
	state *AggregateState
}

func NewAggregator(state *AggregateState) *Aggregator {
	return &Aggregator{state: state}
}

// State returns the aggregate the Aggregator writes into.
func (a *Aggregator) State() *AggregateState {
	return a.state
}

// RecordHand applies one hand's membership sets and action counters to
// every player involved, in all four context bundles at once. Hands with
// a table size outside the supported range are skipped whole: applying
// them partially would break the partition invariant.
func (a *Aggregator) RecordHand(h *parser.Hand) {
	if h == nil {
		return
	}
	sizeIdx, ok := sizeIndex(h.TableSize)
	if !ok {
		slog.Warn("skipping hand with unsupported table size",
			"number", h.Number, "table_size", h.TableSize)
		return
	}

	apply := func(name string, f func(*CounterBundle)) {
		ps := a.state.Player(name)
		f(&ps.Overall)
		f(&ps.ByGameType[h.Game])
		f(&ps.ByTableSize[sizeIdx])
		f(&ps.ByCombined[combinedIndex(h.Game, sizeIdx)])
	}

	for _, name := range h.DealtIn {
		apply(name, func(b *CounterBundle) { b.HandsDealt++ })
	}
	for name := range h.Played {
		apply(name, func(b *CounterBundle) { b.HandsPlayed++ })
	}
	for name := range h.RaisedPreflop {
		apply(name, func(b *CounterBundle) { b.PreflopRaiseHands++ })
	}
	for name := range h.ThreeBet {
		apply(name, func(b *CounterBundle) { b.ThreeBetHands++ })
	}
	for name := range h.FourBet {
		apply(name, func(b *CounterBundle) { b.FourBetHands++ })
	}
	for name := range h.FiveBet {
		apply(name, func(b *CounterBundle) { b.FiveBetHands++ })
	}
	for name := range h.Showdown {
		apply(name, func(b *CounterBundle) { b.ShowdownHands++ })
	}
	for name := range h.SawFlop {
		apply(name, func(b *CounterBundle) { b.FlopHands++ })
	}

	for name, c := range h.Counts {
		c := c
		apply(name, func(b *CounterBundle) {
			b.TotalBets += c.Bets
			b.TotalRaises += c.Raises
			b.TotalCalls += c.Calls
		})
	}
}

// RecordHands folds a batch in order.
func (a *Aggregator) RecordHands(hands []*parser.Hand) {
	for _, h := range hands {
		a.RecordHand(h)
	}
}

// Merge adds every counter of other into the receiver's state. Used to
// combine per-file aggregates produced by concurrent parsers; the caller
// serializes Merge calls.
func (a *Aggregator) Merge(other *AggregateState) {
	if other == nil {
		return
	}
	for _, name := range other.order {
		src := other.players[name]
		dst := a.state.Player(name)

		addBundle(&dst.Overall, &src.Overall)
		for i := range src.ByGameType {
			addBundle(&dst.ByGameType[i], &src.ByGameType[i])
		}
		for i := range src.ByTableSize {
			addBundle(&dst.ByTableSize[i], &src.ByTableSize[i])
		}
		for i := range src.ByCombined {
			addBundle(&dst.ByCombined[i], &src.ByCombined[i])
		}
	}
}

func addBundle(dst, src *CounterBundle) {
	dst.HandsDealt += src.HandsDealt
	dst.HandsPlayed += src.HandsPlayed
	dst.PreflopRaiseHands += src.PreflopRaiseHands
	dst.ThreeBetHands += src.ThreeBetHands
	dst.FourBetHands += src.FourBetHands
	dst.FiveBetHands += src.FiveBetHands
	dst.ShowdownHands += src.ShowdownHands
	dst.FlopHands += src.FlopHands
	dst.TotalBets += src.TotalBets
	dst.TotalRaises += src.TotalRaises
	dst.TotalCalls += src.TotalCalls
}
