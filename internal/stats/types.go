package stats

import (
	"fmt"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
)

// Table size bounds. A stacks declaration outside this range is not a
// table this tool understands.
const (
	TableSizeMin = 2
	TableSizeMax = 10

	tableSizeCount = TableSizeMax - TableSizeMin + 1
	combinedCount  = parser.GameTypeCount * tableSizeCount
)

// CounterBundle is one set of raw counters. The same bundle shape is
// replicated across the overall total and the three context dimensions.
type CounterBundle struct {
	HandsDealt        int
	HandsPlayed       int
	PreflopRaiseHands int
	ThreeBetHands     int
	FourBetHands      int
	FiveBetHands      int
	ShowdownHands     int
	FlopHands         int
	TotalBets         int
	TotalRaises       int
	TotalCalls        int
}

// PlayerStats holds one player's durable counters: a flat overall bundle
// plus fixed-size bundle arrays for each context dimension. Using arrays
// indexed by small enumerations (rather than string-built keys) makes the
// partition invariant hold by construction: every recorded hand touches
// exactly one slot per dimension.
type PlayerStats struct {
	Name string

	Overall     CounterBundle
	ByGameType  [parser.GameTypeCount]CounterBundle
	ByTableSize [tableSizeCount]CounterBundle
	ByCombined  [combinedCount]CounterBundle
}

// sizeIndex maps a table size onto its ByTableSize slot.
func sizeIndex(size int) (int, bool) {
	if size < TableSizeMin || size > TableSizeMax {
		return 0, false
	}
	return size - TableSizeMin, true
}

func combinedIndex(g parser.GameType, sizeIdx int) int {
	return int(g)*tableSizeCount + sizeIdx
}

// CombinedKey renders the variant+size context name, e.g. "NLHE_9h".
func CombinedKey(g parser.GameType, size int) string {
	return fmt.Sprintf("%s_%dh", g, size)
}

// TableSizeKey renders the table-size context name, e.g. "9-handed".
func TableSizeKey(size int) string {
	return fmt.Sprintf("%d-handed", size)
}

// AggregateState owns all players' lifetime counters for one analysis
// run. It has a single-writer contract: only the Aggregator mutates it,
// and it must not be shared across goroutines without synchronization.
type AggregateState struct {
	players map[string]*PlayerStats
	order   []string
}

func NewAggregateState() *AggregateState {
	return &AggregateState{players: make(map[string]*PlayerStats)}
}

// Player returns the named player's stats, creating a zeroed record on
// first sight. Insertion order is preserved for output.
func (s *AggregateState) Player(name string) *PlayerStats {
	ps, ok := s.players[name]
	if !ok {
		ps = &PlayerStats{Name: name}
		s.players[name] = ps
		s.order = append(s.order, name)
	}
	return ps
}

// Lookup returns the named player's stats without creating them.
func (s *AggregateState) Lookup(name string) (*PlayerStats, bool) {
	ps, ok := s.players[name]
	return ps, ok
}

// Names returns player names in order of first appearance.
func (s *AggregateState) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the number of known players.
func (s *AggregateState) Len() int {
	return len(s.order)
}
