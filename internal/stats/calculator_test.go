package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDeriveEmptyBundle(t *testing.T) {
	calc := NewCalculator()
	if _, ok := calc.Derive(CounterBundle{}); ok {
		t.Error("empty bundle should not derive a report")
	}
}

func TestDerivePercentages(t *testing.T) {
	calc := NewCalculator()
	r, ok := calc.Derive(CounterBundle{
		HandsDealt:        200,
		HandsPlayed:       50,
		PreflopRaiseHands: 30,
	})
	if !ok {
		t.Fatal("expected derivable report")
	}
	if !almostEqual(r.VPIP, 25) {
		t.Errorf("VPIP = %v, want 25", r.VPIP)
	}
	if !almostEqual(r.PFR, 15) {
		t.Errorf("PFR = %v, want 15", r.PFR)
	}
}

func TestDeriveAggressionFactor(t *testing.T) {
	calc := NewCalculator()

	r, _ := calc.Derive(CounterBundle{HandsDealt: 10, TotalBets: 6, TotalRaises: 4, TotalCalls: 5})
	if !almostEqual(r.AF, 2) {
		t.Errorf("AF = %v, want 2", r.AF)
	}

	// Zero calls floors the denominator at 1 rather than dividing by zero.
	r, _ = calc.Derive(CounterBundle{HandsDealt: 10, TotalBets: 3, TotalRaises: 2})
	if !almostEqual(r.AF, 5) {
		t.Errorf("AF with no calls = %v, want 5", r.AF)
	}

	// A pure caller has zero aggression, not an error.
	r, _ = calc.Derive(CounterBundle{HandsDealt: 10, TotalCalls: 7})
	if !almostEqual(r.AF, 0) {
		t.Errorf("AF for pure caller = %v, want 0", r.AF)
	}
}

func TestDeriveWTSDFlopSeen(t *testing.T) {
	calc := NewCalculator()

	r, _ := calc.Derive(CounterBundle{HandsDealt: 100, FlopHands: 40, ShowdownHands: 10})
	if !almostEqual(r.WTSD, 25) {
		t.Errorf("WTSD = %v, want 25", r.WTSD)
	}

	// Never saw a flop: rate is zero, not a division error.
	r, _ = calc.Derive(CounterBundle{HandsDealt: 100})
	if !almostEqual(r.WTSD, 0) {
		t.Errorf("WTSD with no flops = %v, want 0", r.WTSD)
	}
}

func TestDeriveWTSDHandsDealt(t *testing.T) {
	calc := &Calculator{WTSDDenom: WTSDDenomHandsDealt}
	r, _ := calc.Derive(CounterBundle{HandsDealt: 100, FlopHands: 40, ShowdownHands: 10})
	if !almostEqual(r.WTSD, 10) {
		t.Errorf("WTSD = %v, want 10", r.WTSD)
	}
}

func TestDeriveCarriesRawCounters(t *testing.T) {
	calc := NewCalculator()
	b := CounterBundle{
		HandsDealt: 5, HandsPlayed: 3, PreflopRaiseHands: 2,
		ThreeBetHands: 1, ShowdownHands: 1, FlopHands: 2,
		TotalBets: 4, TotalRaises: 2, TotalCalls: 3,
	}
	r, _ := calc.Derive(b)
	if r.Hands != 5 || r.HandsPlayed != 3 || r.PreflopRaises != 2 ||
		r.ThreeBets != 1 || r.Showdowns != 1 || r.FlopHands != 2 ||
		r.Bets != 4 || r.Raises != 2 || r.Calls != 3 {
		t.Errorf("raw counters not carried through: %+v", r)
	}
}
