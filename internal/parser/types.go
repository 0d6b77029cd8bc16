package parser

import "time"

// GameType is the game variant of a hand.
type GameType int

const (
	GameNLHE GameType = iota // No Limit Texas Hold'em (default)
	GamePLO                  // Pot Limit Omaha
)

// GameTypeCount is the number of known game variants.
const GameTypeCount = 2

func (g GameType) String() string {
	switch g {
	case GameNLHE:
		return "NLHE"
	case GamePLO:
		return "PLO"
	default:
		return "Unknown"
	}
}

// Street represents the betting round.
type Street int

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "Preflop"
	case StreetFlop:
		return "Flop"
	case StreetTurn:
		return "Turn"
	case StreetRiver:
		return "River"
	default:
		return "Unknown"
	}
}

// ActionKind represents a player action.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionBet
	ActionRaise
	ActionCall
	ActionCheck
	ActionFold
	ActionShow
	ActionPostBlind
)

func (a ActionKind) String() string {
	switch a {
	case ActionBet:
		return "Bet"
	case ActionRaise:
		return "Raise"
	case ActionCall:
		return "Call"
	case ActionCheck:
		return "Check"
	case ActionFold:
		return "Fold"
	case ActionShow:
		return "Show"
	case ActionPostBlind:
		return "PostBlind"
	default:
		return "Unknown"
	}
}

// ActionTag is a contextual annotation derived from the running hand state.
// Tags are informational; they do not gate the core counting statistics.
type ActionTag string

const (
	Tag3Bet             ActionTag = "3bet"
	Tag4Bet             ActionTag = "4bet"
	Tag5Bet             ActionTag = "5bet"
	TagRaise            ActionTag = "raise"
	TagBet              ActionTag = "bet"
	TagCBet             ActionTag = "cbet"
	TagDoubleBarrel     ActionTag = "double_barrel"
	TagTripleBarrel     ActionTag = "triple_barrel"
	TagCheckRaise       ActionTag = "check_raise"
	foldToPrefix                  = "fold_to_"
	TagFoldToRaise      ActionTag = foldToPrefix + "raise"
	TagFoldToBet        ActionTag = foldToPrefix + "bet"
	TagFoldTo3Bet       ActionTag = foldToPrefix + "3bet"
	TagFoldTo4Bet       ActionTag = foldToPrefix + "4bet"
	TagFoldTo5Bet       ActionTag = foldToPrefix + "5bet"
	TagFoldToCBet       ActionTag = foldToPrefix + "cbet"
	TagFoldToBarrel     ActionTag = foldToPrefix + "double_barrel"
	TagFoldToTripleB    ActionTag = foldToPrefix + "triple_barrel"
	TagFoldToCheckRaise ActionTag = foldToPrefix + "check_raise"
)

// LogRecord is one row of the source log file, as exported by the table.
// Rows arrive most-recent-first; the parser owns reversing them before replay.
type LogRecord struct {
	Entry string
	At    time.Time
	Order string
}

// Action is one player event inside a hand. Owned exclusively by its Hand.
type Action struct {
	Player    string
	Kind      ActionKind
	Street    Street
	Amount    float64
	HasAmount bool
	Tags      []ActionTag
	Timestamp time.Time
}

// ActionCounts are per-hand counts of countable actions for one player.
// Blind posts are never counted.
type ActionCounts struct {
	Bets   int
	Raises int
	Calls  int
}

// Hand is one complete game instance, bounded by its start/end markers.
// All membership sets are finalized before the hand is emitted; a Hand is
// never mutated after emission.
type Hand struct {
	Number    int
	Game      GameType
	TableSize int
	Stakes    string
	StartTime time.Time
	EndTime   time.Time

	Actions []Action

	// DealtIn preserves seat order from the stacks declaration.
	DealtIn []string

	Played        map[string]bool
	RaisedPreflop map[string]bool
	ThreeBet      map[string]bool
	FourBet       map[string]bool
	FiveBet       map[string]bool
	Showdown      map[string]bool
	SawFlop       map[string]bool

	Counts map[string]*ActionCounts

	StreetReached Street
}

// WasDealt reports whether the named player was seated for this hand.
func (h *Hand) WasDealt(name string) bool {
	for _, p := range h.DealtIn {
		if p == name {
			return true
		}
	}
	return false
}

func (h *Hand) counts(name string) *ActionCounts {
	c, ok := h.Counts[name]
	if !ok {
		c = &ActionCounts{}
		h.Counts[name] = c
	}
	return c
}
