package parser

// Clone returns a deep copy of the hand. Repositories hand out clones so
// that emitted hands stay immutable regardless of what callers do.
func (h *Hand) Clone() *Hand {
	if h == nil {
		return nil
	}

	out := &Hand{
		Number:        h.Number,
		Game:          h.Game,
		TableSize:     h.TableSize,
		Stakes:        h.Stakes,
		StartTime:     h.StartTime,
		EndTime:       h.EndTime,
		StreetReached: h.StreetReached,
		DealtIn:       append([]string(nil), h.DealtIn...),
		Played:        cloneSet(h.Played),
		RaisedPreflop: cloneSet(h.RaisedPreflop),
		ThreeBet:      cloneSet(h.ThreeBet),
		FourBet:       cloneSet(h.FourBet),
		FiveBet:       cloneSet(h.FiveBet),
		Showdown:      cloneSet(h.Showdown),
		SawFlop:       cloneSet(h.SawFlop),
		Counts:        make(map[string]*ActionCounts, len(h.Counts)),
	}

	out.Actions = make([]Action, len(h.Actions))
	for i, act := range h.Actions {
		cp := act
		cp.Tags = append([]ActionTag(nil), act.Tags...)
		out.Actions[i] = cp
	}
	for name, c := range h.Counts {
		cc := *c
		out.Counts[name] = &cc
	}
	return out
}

func cloneSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
