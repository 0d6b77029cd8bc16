package stats

// WTSDDenominator selects the denominator for went-to-showdown rate.
// Both definitions exist in the wild; the choice is explicit so the
// produced numbers are auditable.
type WTSDDenominator int

const (
	// WTSDDenomFlopSeen divides showdowns by flop-seen hands (default).
	WTSDDenomFlopSeen WTSDDenominator = iota
	// WTSDDenomHandsDealt divides showdowns by all dealt hands.
	WTSDDenomHandsDealt
)

// Calculator derives ratio statistics from raw counter bundles. It is a
// pure read-side projection and never mutates stored state.
type Calculator struct {
	WTSDDenom WTSDDenominator
}

func NewCalculator() *Calculator {
	return &Calculator{WTSDDenom: WTSDDenomFlopSeen}
}

// Report is one derived stat line: percentages/ratios plus the raw
// counters they were computed from.
type Report struct {
	VPIP float64 // hands played / hands dealt, percent
	PFR  float64 // preflop raise hands / hands dealt, percent
	AF   float64 // (bets + raises) / calls, ratio
	WTSD float64 // showdowns / denominator, percent

	Hands         int
	HandsPlayed   int
	PreflopRaises int
	Showdowns     int
	FlopHands     int
	Bets          int
	Raises        int
	Calls         int
	ThreeBets     int
	FourBets      int
	FiveBets      int
}

// Derive computes the ratio report for one bundle. The second return is
// false for bundles with no dealt hands; nothing is derivable from them
// and callers must not render such buckets.
func (c *Calculator) Derive(b CounterBundle) (Report, bool) {
	if b.HandsDealt == 0 {
		return Report{}, false
	}

	dealt := float64(b.HandsDealt)
	r := Report{
		VPIP: float64(b.HandsPlayed) / dealt * 100,
		PFR:  float64(b.PreflopRaiseHands) / dealt * 100,

		Hands:         b.HandsDealt,
		HandsPlayed:   b.HandsPlayed,
		PreflopRaises: b.PreflopRaiseHands,
		Showdowns:     b.ShowdownHands,
		FlopHands:     b.FlopHands,
		Bets:          b.TotalBets,
		Raises:        b.TotalRaises,
		Calls:         b.TotalCalls,
		ThreeBets:     b.ThreeBetHands,
		FourBets:      b.FourBetHands,
		FiveBets:      b.FiveBetHands,
	}

	// Floor the call count at 1: a player who never calls still has a
	// meaningful aggression number, not a division error.
	calls := b.TotalCalls
	if calls == 0 {
		calls = 1
	}
	r.AF = float64(b.TotalBets+b.TotalRaises) / float64(calls)

	switch c.WTSDDenom {
	case WTSDDenomHandsDealt:
		r.WTSD = float64(b.ShowdownHands) / dealt * 100
	default:
		if b.FlopHands > 0 {
			r.WTSD = float64(b.ShowdownHands) / float64(b.FlopHands) * 100
		}
	}

	return r, true
}
