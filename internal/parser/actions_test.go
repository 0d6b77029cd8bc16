package parser

import "testing"

func hasTag(act Action, tag ActionTag) bool {
	for _, t := range act.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func mustClassify(t *testing.T, c *HandContext, player, entry string) Action {
	t.Helper()
	act, ok := c.ClassifyAction(player, entry)
	if !ok {
		t.Fatalf("ClassifyAction(%q) did not recognize an action", entry)
	}
	return act
}

func TestClassifyActionKinds(t *testing.T) {
	tests := []struct {
		entry string
		kind  ActionKind
	}{
		{`"Alice @ a1" posts a small blind of $5`, ActionPostBlind},
		{`"Bob @ b2" posts a big blind of $10`, ActionPostBlind},
		{`"Cara @ c3" raises to $30`, ActionRaise},
		{`"Alice @ a1" calls $30`, ActionCall},
		{`"Bob @ b2" bets $45`, ActionBet},
		{`"Cara @ c3" checks`, ActionCheck},
		{`"Alice @ a1" folds`, ActionFold},
		{`"Bob @ b2" shows a K♥, 9♦.`, ActionShow},
	}

	for _, tt := range tests {
		c := NewHandContext()
		act, ok := c.ClassifyAction("X", tt.entry)
		if !ok {
			t.Errorf("ClassifyAction(%q) not recognized", tt.entry)
			continue
		}
		if act.Kind != tt.kind {
			t.Errorf("ClassifyAction(%q).Kind = %v, want %v", tt.entry, act.Kind, tt.kind)
		}
	}
}

func TestClassifyActionUnrecognized(t *testing.T) {
	c := NewHandContext()
	if _, ok := c.ClassifyAction("Alice", `"Alice @ a1" quits the game`); ok {
		t.Error("quit line should not classify as an action")
	}
}

func TestPreflopRaiseLadder(t *testing.T) {
	c := NewHandContext()

	open := mustClassify(t, c, "A", `"A @ 1" raises to $30`)
	if len(open.Tags) != 0 {
		t.Errorf("open raise tags = %v, want none", open.Tags)
	}

	threeBet := mustClassify(t, c, "B", `"B @ 2" raises to $90`)
	if !hasTag(threeBet, Tag3Bet) {
		t.Errorf("second raise tags = %v, want 3bet", threeBet.Tags)
	}

	fourBet := mustClassify(t, c, "C", `"C @ 3" raises to $250`)
	if !hasTag(fourBet, Tag4Bet) {
		t.Errorf("third raise tags = %v, want 4bet", fourBet.Tags)
	}

	fiveBet := mustClassify(t, c, "A", `"A @ 1" raises to $600`)
	if !hasTag(fiveBet, Tag5Bet) {
		t.Errorf("fourth raise tags = %v, want 5bet", fiveBet.Tags)
	}

	// Every raise past the fourth stays at the 5bet ceiling.
	sixth := mustClassify(t, c, "B", `"B @ 2" raises to $1200`)
	if !hasTag(sixth, Tag5Bet) {
		t.Errorf("fifth raise tags = %v, want 5bet", sixth.Tags)
	}
}

func TestFoldToTags(t *testing.T) {
	c := NewHandContext()

	mustClassify(t, c, "A", `"A @ 1" raises to $30`)
	fold := mustClassify(t, c, "B", `"B @ 2" folds`)
	if !hasTag(fold, TagFoldToRaise) {
		t.Errorf("fold after open tags = %v, want fold_to_raise", fold.Tags)
	}

	mustClassify(t, c, "C", `"C @ 3" raises to $90`)
	fold = mustClassify(t, c, "D", `"D @ 4" folds`)
	if !hasTag(fold, TagFoldTo3Bet) {
		t.Errorf("fold after 3bet tags = %v, want fold_to_3bet", fold.Tags)
	}
}

func TestFoldWithoutAggressionHasNoTags(t *testing.T) {
	c := NewHandContext()
	fold := mustClassify(t, c, "A", `"A @ 1" folds`)
	if len(fold.Tags) != 0 {
		t.Errorf("fold with no prior aggression tags = %v, want none", fold.Tags)
	}
}

func TestAggressionDoesNotCarryAcrossStreets(t *testing.T) {
	c := NewHandContext()
	mustClassify(t, c, "A", `"A @ 1" raises to $30`)
	c.AdvanceStreet(StreetFlop)

	fold := mustClassify(t, c, "B", `"B @ 2" folds`)
	if len(fold.Tags) != 0 {
		t.Errorf("fold on new street tags = %v, want none", fold.Tags)
	}
}

func TestCBetAndBarrels(t *testing.T) {
	c := NewHandContext()
	mustClassify(t, c, "A", `"A @ 1" raises to $30`)

	c.AdvanceStreet(StreetFlop)
	cbet := mustClassify(t, c, "A", `"A @ 1" bets $45`)
	if !hasTag(cbet, TagCBet) {
		t.Errorf("flop bet by preflop raiser tags = %v, want cbet", cbet.Tags)
	}

	fold := mustClassify(t, c, "B", `"B @ 2" folds`)
	if !hasTag(fold, TagFoldToCBet) {
		t.Errorf("fold to cbet tags = %v, want fold_to_cbet", fold.Tags)
	}

	c.AdvanceStreet(StreetTurn)
	barrel := mustClassify(t, c, "A", `"A @ 1" bets $90`)
	if !hasTag(barrel, TagDoubleBarrel) {
		t.Errorf("turn bet by flop bettor tags = %v, want double_barrel", barrel.Tags)
	}

	c.AdvanceStreet(StreetRiver)
	triple := mustClassify(t, c, "A", `"A @ 1" bets $200`)
	if !hasTag(triple, TagTripleBarrel) {
		t.Errorf("river bet by turn bettor tags = %v, want triple_barrel", triple.Tags)
	}
}

func TestFlopBetByNonRaiserIsNotCBet(t *testing.T) {
	c := NewHandContext()
	mustClassify(t, c, "A", `"A @ 1" raises to $30`)

	c.AdvanceStreet(StreetFlop)
	bet := mustClassify(t, c, "B", `"B @ 2" bets $45`)
	if hasTag(bet, TagCBet) {
		t.Errorf("flop bet by non-raiser tags = %v, cbet not expected", bet.Tags)
	}

	fold := mustClassify(t, c, "C", `"C @ 3" folds`)
	if !hasTag(fold, TagFoldToBet) {
		t.Errorf("fold to plain bet tags = %v, want fold_to_bet", fold.Tags)
	}
}

func TestCheckRaise(t *testing.T) {
	c := NewHandContext()
	c.AdvanceStreet(StreetFlop)

	mustClassify(t, c, "A", `"A @ 1" checks`)
	mustClassify(t, c, "B", `"B @ 2" bets $20`)
	raise := mustClassify(t, c, "A", `"A @ 1" raises to $60`)
	if !hasTag(raise, TagCheckRaise) {
		t.Errorf("raise after own check tags = %v, want check_raise", raise.Tags)
	}

	fold := mustClassify(t, c, "B", `"B @ 2" folds`)
	if !hasTag(fold, TagFoldToCheckRaise) {
		t.Errorf("fold to check-raise tags = %v, want fold_to_check_raise", fold.Tags)
	}
}

func TestPostIsNeverARaise(t *testing.T) {
	c := NewHandContext()
	act := mustClassify(t, c, "A", `"A @ 1" posts a big blind of $10`)
	if act.Kind != ActionPostBlind {
		t.Fatalf("Kind = %v, want ActionPostBlind", act.Kind)
	}
	if c.PreflopRaiseLevel() != 1 {
		t.Errorf("raise level after post = %d, want 1", c.PreflopRaiseLevel())
	}
}

func TestShowTakesPrecedenceOverOtherKeywords(t *testing.T) {
	c := NewHandContext()
	act := mustClassify(t, c, "A", `"A @ 1" shows a K♥, 9♦ and calls the clock`)
	if act.Kind != ActionShow {
		t.Errorf("Kind = %v, want ActionShow", act.Kind)
	}
}

func TestActionAmounts(t *testing.T) {
	c := NewHandContext()

	raise := mustClassify(t, c, "A", `"A @ 1" raises to $12.50`)
	if !raise.HasAmount || raise.Amount != 12.50 {
		t.Errorf("raise amount = (%v, %v), want (12.50, true)", raise.Amount, raise.HasAmount)
	}

	check := mustClassify(t, c, "B", `"B @ 2" checks`)
	if check.HasAmount {
		t.Errorf("check should carry no amount, got %v", check.Amount)
	}
}
