package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reHandNumber = regexp.MustCompile(`hand #(\d+)`)
	reStakes     = regexp.MustCompile(`\$\d+(?:\.\d+)?/\$\d+(?:\.\d+)?`)
	reAmount     = regexp.MustCompile(`\$(\d+(?:\.\d{1,2})?)`)

	reQuotedWithID = regexp.MustCompile(`"([^"]+?)\s*@\s*[^"]*"`)
	reQuoted       = regexp.MustCompile(`"([^"]+)"`)
	reSeatSuffix   = regexp.MustCompile(`\s*\(\d+\)\s*$`)
	reIDSuffix     = regexp.MustCompile(`\s*@.*$`)
)

// LineKind classifies one raw event text.
type LineKind int

const (
	LineUnknown LineKind = iota
	LineHandStart
	LineHandEnd
	LineStreet
	LineStacks
	LineAction
)

// Classification is the outcome of classifying one event text.
// Only the fields relevant to Kind are populated.
type Classification struct {
	Kind       LineKind
	HandNumber int
	Street     Street
	StacksBody string
}

// ClassifyLine inspects one event text and decides what it describes.
// Matching is case-insensitive; unrecognized lines (chat, connects,
// dealer messages) come back as LineUnknown and are dropped by callers.
func ClassifyLine(entry string) Classification {
	lower := strings.ToLower(entry)

	switch {
	case strings.Contains(lower, "starting hand #"):
		c := Classification{Kind: LineHandStart}
		if m := reHandNumber.FindStringSubmatch(lower); m != nil {
			c.HandNumber, _ = strconv.Atoi(m[1])
		}
		return c

	case strings.Contains(lower, "ending hand #"):
		return Classification{Kind: LineHandEnd}

	case strings.Contains(lower, "flop:"):
		return Classification{Kind: LineStreet, Street: StreetFlop}

	case strings.Contains(lower, "turn:"):
		return Classification{Kind: LineStreet, Street: StreetTurn}

	case strings.Contains(lower, "river:"):
		return Classification{Kind: LineStreet, Street: StreetRiver}

	case strings.Contains(lower, "player stacks:"):
		_, body, _ := strings.Cut(entry, ":")
		return Classification{Kind: LineStacks, StacksBody: body}
	}

	if reQuoted.MatchString(entry) {
		return Classification{Kind: LineAction}
	}
	return Classification{Kind: LineUnknown}
}

// ExtractPlayerName recovers the display name from a quoted fragment of the
// form "<name> @ <id>" or bare "<name>". Trailing "(<seat>)" annotations and
// the "@ <id>" suffix are stripped. The second return is false when no name
// is present; callers treat that as "skip this line", never as an error.
func ExtractPlayerName(text string) (string, bool) {
	m := reQuotedWithID.FindStringSubmatch(text)
	if m == nil {
		m = reQuoted.FindStringSubmatch(text)
	}
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	name = reSeatSuffix.ReplaceAllString(name, "")
	name = reIDSuffix.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

// parseAmount extracts a currency-prefixed numeral from the text.
// Absence is not an error: folds and checks carry no amount.
func parseAmount(text string) (float64, bool) {
	m := reAmount.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// detectGameType reads the game variant off a hand-start line.
// Anything that does not name Omaha is treated as hold'em.
func detectGameType(lower string) GameType {
	if strings.Contains(lower, "omaha") {
		return GamePLO
	}
	return GameNLHE
}

// detectStakes captures the "$N/$M" blind structure from a hand-start line.
func detectStakes(entry string) string {
	return reStakes.FindString(entry)
}

// splitSeats breaks a stacks-declaration body into per-seat fragments.
func splitSeats(body string) []string {
	parts := strings.Split(body, "|")
	seats := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			seats = append(seats, p)
		}
	}
	return seats
}
