package stats

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
)

// PlayerReport is the per-player output structure: the overall ratios
// plus each non-empty context bucket.
type PlayerReport struct {
	Name        string
	Overall     Report
	ByGameType  map[string]Report
	ByTableSize map[string]Report
	ByCombined  map[string]Report
}

// BuildPlayerReports projects the aggregate state into reports, one per
// player with at least one dealt hand, in order of first appearance.
// Empty buckets are omitted.
func BuildPlayerReports(state *AggregateState, calc *Calculator) []PlayerReport {
	if calc == nil {
		calc = NewCalculator()
	}

	reports := make([]PlayerReport, 0, state.Len())
	for _, name := range state.Names() {
		ps, _ := state.Lookup(name)
		overall, ok := calc.Derive(ps.Overall)
		if !ok {
			continue
		}

		pr := PlayerReport{
			Name:        name,
			Overall:     overall,
			ByGameType:  make(map[string]Report),
			ByTableSize: make(map[string]Report),
			ByCombined:  make(map[string]Report),
		}

		for g := 0; g < parser.GameTypeCount; g++ {
			if r, ok := calc.Derive(ps.ByGameType[g]); ok {
				pr.ByGameType[parser.GameType(g).String()] = r
			}
		}
		for i := 0; i < tableSizeCount; i++ {
			if r, ok := calc.Derive(ps.ByTableSize[i]); ok {
				pr.ByTableSize[TableSizeKey(TableSizeMin+i)] = r
			}
		}
		for g := 0; g < parser.GameTypeCount; g++ {
			for i := 0; i < tableSizeCount; i++ {
				if r, ok := calc.Derive(ps.ByCombined[combinedIndex(parser.GameType(g), i)]); ok {
					pr.ByCombined[CombinedKey(parser.GameType(g), TableSizeMin+i)] = r
				}
			}
		}
		reports = append(reports, pr)
	}
	return reports
}

// Row is one line of the flattened tabular projection: a player crossed
// with one nonzero variant+size context.
type Row struct {
	Name          string
	GameType      string
	TableSize     int
	Hands         int
	HandsPlayed   int
	PreflopRaises int
	FlopHands     int
	Showdowns     int
	Bets          int
	Raises        int
	Calls         int
	ThreeBets     int
	FourBets      int
	FiveBets      int
}

// Rows flattens the aggregate into one row per player × combined context
// with nonzero hands, players in order of first appearance.
func Rows(state *AggregateState) []Row {
	var rows []Row
	for _, name := range state.Names() {
		ps, _ := state.Lookup(name)
		for g := 0; g < parser.GameTypeCount; g++ {
			for i := 0; i < tableSizeCount; i++ {
				b := ps.ByCombined[combinedIndex(parser.GameType(g), i)]
				if b.HandsDealt == 0 {
					continue
				}
				rows = append(rows, Row{
					Name:          name,
					GameType:      parser.GameType(g).String(),
					TableSize:     TableSizeMin + i,
					Hands:         b.HandsDealt,
					HandsPlayed:   b.HandsPlayed,
					PreflopRaises: b.PreflopRaiseHands,
					FlopHands:     b.FlopHands,
					Showdowns:     b.ShowdownHands,
					Bets:          b.TotalBets,
					Raises:        b.TotalRaises,
					Calls:         b.TotalCalls,
					ThreeBets:     b.ThreeBetHands,
					FourBets:      b.FourBetHands,
					FiveBets:      b.FiveBetHands,
				})
			}
		}
	}
	return rows
}

var csvHeader = []string{
	"Name", "Game Type", "Table Size",
	"Hands", "Hands Played", "Hands PFR", "Hands Flop", "Hands Showdown",
	"Bets", "Raises", "Calls", "3Bets", "4Bets", "5Bets",
}

// WriteCSV renders the tabular projection.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Name,
			r.GameType,
			strconv.Itoa(r.TableSize),
			strconv.Itoa(r.Hands),
			strconv.Itoa(r.HandsPlayed),
			strconv.Itoa(r.PreflopRaises),
			strconv.Itoa(r.FlopHands),
			strconv.Itoa(r.Showdowns),
			strconv.Itoa(r.Bets),
			strconv.Itoa(r.Raises),
			strconv.Itoa(r.Calls),
			strconv.Itoa(r.ThreeBets),
			strconv.Itoa(r.FourBets),
			strconv.Itoa(r.FiveBets),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
