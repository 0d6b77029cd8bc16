package parser

import "strings"

// HandContext threads the running state of one hand through action
// classification. It is reset for every hand and advanced on street
// markers; keeping it explicit keeps the tagging rules testable without
// any log I/O.
type HandContext struct {
	Street Street

	// preflopRaises starts at 1: the first raise of a hand is a plain
	// open, the second is the 3-bet, and so on.
	preflopRaises int

	// lastPreflopRaiser is the preflop aggressor for cbet purposes.
	lastPreflopRaiser string

	// bettor[s] is the player who bet on street s, for barrel tracking.
	bettor map[Street]string

	// checked[s] holds players who have checked on street s.
	checked map[Street]map[string]bool

	// lastAggTag is the most recent unanswered aggressive action on the
	// current street; folds are tagged fold_to_<lastAggTag>.
	lastAggTag ActionTag
}

func NewHandContext() *HandContext {
	return &HandContext{
		preflopRaises: 1,
		bettor:        make(map[Street]string),
		checked:       make(map[Street]map[string]bool),
	}
}

// PreflopRaiseLevel reports the number of preflop raises observed so far
// plus one (the ladder position the next raise would occupy).
func (c *HandContext) PreflopRaiseLevel() int {
	return c.preflopRaises
}

// AdvanceStreet moves the context to a later street. Aggression does not
// carry across street boundaries for fold-to tagging.
func (c *HandContext) AdvanceStreet(s Street) {
	if s <= c.Street {
		return
	}
	c.Street = s
	c.lastAggTag = ""
}

// ClassifyAction maps one player-action text onto an action kind, a
// monetary amount when present, and zero or more contextual tags. The
// boolean return is false when the text matches no known action keyword.
//
// Keyword precedence: shows > raises > calls > bets > checks > folds.
// A "posts" line is a blind post regardless of co-occurring keywords and
// is never counted as a raise, call, or bet.
func (c *HandContext) ClassifyAction(player, entry string) (Action, bool) {
	lower := strings.ToLower(entry)

	act := Action{Player: player, Street: c.Street}
	act.Amount, act.HasAmount = parseAmount(entry)

	switch {
	case strings.Contains(lower, "shows"):
		act.Kind = ActionShow

	case strings.Contains(lower, "posts"):
		act.Kind = ActionPostBlind

	case strings.Contains(lower, "raises"):
		act.Kind = ActionRaise
		act.Tags = c.tagRaise(player)

	case strings.Contains(lower, "calls"):
		act.Kind = ActionCall

	case strings.Contains(lower, "bets"):
		act.Kind = ActionBet
		act.Tags = c.tagBet(player)

	case strings.Contains(lower, "checks"):
		act.Kind = ActionCheck
		c.markChecked(player)

	case strings.Contains(lower, "folds"):
		act.Kind = ActionFold
		if c.lastAggTag != "" {
			act.Tags = []ActionTag{ActionTag(foldToPrefix) + c.lastAggTag}
		}

	default:
		return Action{}, false
	}
	return act, true
}

func (c *HandContext) tagRaise(player string) []ActionTag {
	var tags []ActionTag

	if c.Street == StreetPreflop {
		switch {
		case c.preflopRaises == 2:
			tags = append(tags, Tag3Bet)
		case c.preflopRaises == 3:
			tags = append(tags, Tag4Bet)
		case c.preflopRaises >= 4:
			tags = append(tags, Tag5Bet)
		}
		c.preflopRaises++
		c.lastPreflopRaiser = player
	}

	if c.checked[c.Street][player] {
		tags = append(tags, TagCheckRaise)
	}

	c.lastAggTag = TagRaise
	if len(tags) > 0 {
		c.lastAggTag = tags[len(tags)-1]
	}
	return tags
}

func (c *HandContext) tagBet(player string) []ActionTag {
	var tags []ActionTag

	switch c.Street {
	case StreetFlop:
		if player == c.lastPreflopRaiser {
			tags = append(tags, TagCBet)
		}
	case StreetTurn:
		if c.bettor[StreetFlop] == player {
			tags = append(tags, TagDoubleBarrel)
		}
	case StreetRiver:
		if c.bettor[StreetTurn] == player {
			tags = append(tags, TagTripleBarrel)
		}
	}

	c.bettor[c.Street] = player
	c.lastAggTag = TagBet
	if len(tags) > 0 {
		c.lastAggTag = tags[len(tags)-1]
	}
	return tags
}

func (c *HandContext) markChecked(player string) {
	m := c.checked[c.Street]
	if m == nil {
		m = make(map[string]bool)
		c.checked[c.Street] = m
	}
	m[player] = true
}
