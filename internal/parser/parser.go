package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// FoldRetractsPlayedCredit is the preflop fold policy: a player who calls
// or bets preflop and then folds to a later raise on the same street is
// not counted as having voluntarily played the hand. This directly lowers
// VPIP relative to the alternative reading.
const FoldRetractsPlayedCredit = true

const timeLayout = "2006-01-02T15:04:05.000Z"

// Parser reconstructs hands from an ordered sequence of log records.
// Records must be fed in forward chronological order; ParseReader owns
// reversing the reverse-chronological source before replay.
//
// A Parser is not safe for concurrent use. Parse each file with its own
// Parser and merge the results under aggregation.
type Parser struct {
	hands     []*Hand
	current   *Hand
	ctx       *HandContext
	folded    map[string]bool
	discarded int
}

func NewParser() *Parser {
	return &Parser{}
}

// Hands returns the completed hands assembled so far.
func (p *Parser) Hands() []*Hand {
	return p.hands
}

// Discarded reports how many hands were dropped as unparseable.
func (p *Parser) Discarded() int {
	return p.discarded
}

// Feed consumes one log record. Unrecognized lines are dropped with no
// side effect; feeding never fails.
func (p *Parser) Feed(rec LogRecord) {
	c := ClassifyLine(rec.Entry)

	switch c.Kind {
	case LineHandStart:
		if p.current != nil {
			// Start marker inside an open hand: the body is suspect,
			// drop it rather than risk corrupting another hand's counts.
			slog.Warn("discarding unterminated hand", "number", p.current.Number)
			p.discardCurrent()
		}
		p.startHand(rec, c.HandNumber)

	case LineHandEnd:
		p.closeCurrent(rec.At)

	case LineStreet:
		p.advanceStreet(c.Street)

	case LineStacks:
		p.applyStacks(c.StacksBody)

	case LineAction:
		p.applyAction(rec)
	}
}

// Finish discards any hand still open (start without matching end) and
// returns all completed hands.
func (p *Parser) Finish() []*Hand {
	if p.current != nil {
		slog.Warn("discarding hand without end marker", "number", p.current.Number)
		p.discardCurrent()
	}
	return p.hands
}

func (p *Parser) startHand(rec LogRecord, number int) {
	lower := strings.ToLower(rec.Entry)
	p.current = &Hand{
		Number:        number,
		Game:          detectGameType(lower),
		Stakes:        detectStakes(rec.Entry),
		StartTime:     rec.At,
		Played:        make(map[string]bool),
		RaisedPreflop: make(map[string]bool),
		ThreeBet:      make(map[string]bool),
		FourBet:       make(map[string]bool),
		FiveBet:       make(map[string]bool),
		Showdown:      make(map[string]bool),
		SawFlop:       make(map[string]bool),
		Counts:        make(map[string]*ActionCounts),
	}
	p.ctx = NewHandContext()
	p.folded = make(map[string]bool)
}

func (p *Parser) discardCurrent() {
	p.current = nil
	p.ctx = nil
	p.folded = nil
	p.discarded++
}

func (p *Parser) closeCurrent(at time.Time) {
	if p.current == nil {
		return
	}
	h := p.current
	if h.TableSize < 2 {
		// No usable stacks declaration: nobody was dealt in, so the
		// hand cannot contribute to any player's counters.
		slog.Debug("discarding hand without stacks declaration", "number", h.Number)
		p.discardCurrent()
		return
	}
	h.EndTime = at
	h.StreetReached = p.ctx.Street
	p.hands = append(p.hands, h)
	p.current = nil
	p.ctx = nil
	p.folded = nil
}

func (p *Parser) advanceStreet(s Street) {
	if p.current == nil || s <= p.ctx.Street {
		return
	}
	if s == StreetFlop {
		// Flop-seen is snapshotted at the street boundary: everyone who
		// voluntarily played and has not folded sees the flop.
		for name := range p.current.Played {
			if !p.folded[name] {
				p.current.SawFlop[name] = true
			}
		}
	}
	p.ctx.AdvanceStreet(s)
}

func (p *Parser) applyStacks(body string) {
	if p.current == nil {
		return
	}
	h := p.current
	for _, seat := range splitSeats(body) {
		name, ok := ExtractPlayerName(seat)
		if !ok {
			continue
		}
		if !h.WasDealt(name) {
			h.DealtIn = append(h.DealtIn, name)
		}
	}
	h.TableSize = len(h.DealtIn)
}

func (p *Parser) applyAction(rec LogRecord) {
	if p.current == nil {
		return
	}
	name, ok := ExtractPlayerName(rec.Entry)
	if !ok {
		return
	}
	act, ok := p.ctx.ClassifyAction(name, rec.Entry)
	if !ok {
		return
	}
	act.Timestamp = rec.At

	h := p.current
	preflop := act.Street == StreetPreflop

	switch act.Kind {
	case ActionRaise:
		h.counts(name).Raises++
		if preflop {
			h.Played[name] = true
			h.RaisedPreflop[name] = true
			for _, tag := range act.Tags {
				switch tag {
				case Tag3Bet:
					h.ThreeBet[name] = true
				case Tag4Bet:
					h.FourBet[name] = true
				case Tag5Bet:
					h.FiveBet[name] = true
				}
			}
		}

	case ActionCall:
		h.counts(name).Calls++
		if preflop {
			h.Played[name] = true
		}

	case ActionBet:
		h.counts(name).Bets++
		if preflop {
			h.Played[name] = true
		}

	case ActionFold:
		p.folded[name] = true
		if preflop && FoldRetractsPlayedCredit {
			delete(h.Played, name)
		}

	case ActionShow:
		h.Showdown[name] = true
	}

	h.Actions = append(h.Actions, act)
}

// ReadRecords decodes the CSV export into records, skipping the header
// row. The source order (most recent first) is preserved here; callers
// reverse before replay.
func ReadRecords(r io.Reader) ([]LogRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read log csv: %w", err)
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}

	records := make([]LogRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rec := LogRecord{Entry: row[0]}
		if len(row) > 1 {
			rec.At = parseTimestamp(row[1])
		}
		if len(row) > 2 {
			rec.Order = row[2]
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

// ParseReader reads a full reverse-chronological log, replays it forward,
// and returns the completed hands.
func ParseReader(r io.Reader) ([]*Hand, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}

	p := NewParser()
	for i := len(records) - 1; i >= 0; i-- {
		p.Feed(records[i])
	}
	return p.Finish(), nil
}

// ParseFile parses one log file from disk. An unreadable file is the only
// fatal condition; malformed content inside the file never is.
func ParseFile(path string) ([]*Hand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return ParseReader(f)
}
