package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
	"github.com/ahui21/PokerNow-Analyzer/internal/persistence"
	"github.com/ahui21/PokerNow-Analyzer/internal/stats"
)

// ImportStatus reports what happened to one file.
type ImportStatus string

const (
	StatusImported ImportStatus = "imported"
	StatusSkipped  ImportStatus = "skipped"
	StatusFailed   ImportStatus = "failed"
)

// Distribution is one bucket of an import summary breakdown.
type Distribution struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ImportResult summarizes one file's ingestion.
type ImportResult struct {
	Path       string                  `json:"path"`
	FileID     string                  `json:"file_id"`
	Status     ImportStatus            `json:"status"`
	Error      string                  `json:"error,omitempty"`
	Hands      int                     `json:"hands"`
	Discarded  int                     `json:"discarded"`
	Players    int                     `json:"players"`
	GameTypes  map[string]Distribution `json:"game_types,omitempty"`
	TableSizes map[string]Distribution `json:"table_sizes,omitempty"`
}

// Service orchestrates parsing, aggregation, and storage. Statistics are
// recomputed from durable hands on every query, so repeated queries over
// the same stored hands always agree.
type Service struct {
	repo persistence.Repository
	calc *stats.Calculator

	// saveMu serializes repository writes; parsing itself runs
	// concurrently with one isolated parser per file.
	saveMu sync.Mutex
}

func NewService(repo persistence.Repository, calc *stats.Calculator) *Service {
	if calc == nil {
		calc = stats.NewCalculator()
	}
	return &Service{repo: repo, calc: calc}
}

// ImportFile parses one log file and stores its hands. Files already
// imported (by file id) are skipped, never double-counted.
func (s *Service) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	fileID := persistence.FileID(path)
	res := ImportResult{Path: path, FileID: fileID}

	exists, err := s.repo.HasImport(ctx, fileID)
	if err != nil {
		return res, fmt.Errorf("check import %s: %w", fileID, err)
	}
	if exists {
		res.Status = StatusSkipped
		slog.Info("file already imported", "file", fileID)
		return res, nil
	}

	hands, discarded, err := parseFile(path)
	if err != nil {
		return res, err
	}
	s.summarize(&res, hands, discarded)

	rec := persistence.ImportRecord{
		FileID:      fileID,
		SourcePath:  path,
		ImportedAt:  time.Now(),
		HandCount:   len(hands),
		Discarded:   discarded,
		PlayerCount: res.Players,
	}

	s.saveMu.Lock()
	err = s.repo.SaveImport(ctx, rec, hands)
	s.saveMu.Unlock()
	if err != nil {
		return res, fmt.Errorf("save import %s: %w", fileID, err)
	}

	res.Status = StatusImported
	slog.Info("imported log file", "file", fileID,
		"hands", len(hands), "discarded", discarded, "players", res.Players)
	return res, nil
}

// ImportAll ingests many independent log files concurrently: one parser
// per file, with repository writes serialized. Per-file failures are
// reported in the results, not returned as an error.
func (s *Service) ImportAll(ctx context.Context, paths []string) ([]ImportResult, error) {
	results := make([]ImportResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			res, err := s.ImportFile(ctx, path)
			if err != nil {
				res.Status = StatusFailed
				res.Error = err.Error()
				slog.Error("import failed", "file", path, "err", err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// AggregateState rebuilds the full aggregate from stored hands.
func (s *Service) AggregateState(ctx context.Context) (*stats.AggregateState, error) {
	hands, err := s.repo.LoadHands(ctx)
	if err != nil {
		return nil, fmt.Errorf("load hands: %w", err)
	}
	agg := stats.NewAggregator(stats.NewAggregateState())
	agg.RecordHands(hands)
	return agg.State(), nil
}

// PlayerReports returns the per-player stat projection for all stored hands.
func (s *Service) PlayerReports(ctx context.Context) ([]stats.PlayerReport, error) {
	state, err := s.AggregateState(ctx)
	if err != nil {
		return nil, err
	}
	return stats.BuildPlayerReports(state, s.calc), nil
}

// Rows returns the flattened tabular projection for all stored hands.
func (s *Service) Rows(ctx context.Context) ([]stats.Row, error) {
	state, err := s.AggregateState(ctx)
	if err != nil {
		return nil, err
	}
	return stats.Rows(state), nil
}

// Imports lists what has been ingested so far.
func (s *Service) Imports(ctx context.Context) ([]persistence.ImportRecord, error) {
	return s.repo.ListImports(ctx)
}

func (s *Service) Close() error {
	return s.repo.Close()
}

// summarize fills the game-type and table-size distribution of an import.
func (s *Service) summarize(res *ImportResult, hands []*parser.Hand, discarded int) {
	res.Hands = len(hands)
	res.Discarded = discarded

	players := make(map[string]bool)
	gameTypes := make(map[string]int)
	tableSizes := make(map[string]int)
	for _, h := range hands {
		gameTypes[h.Game.String()]++
		tableSizes[fmt.Sprintf("%d", h.TableSize)]++
		for _, name := range h.DealtIn {
			players[name] = true
		}
	}
	res.Players = len(players)
	res.GameTypes = toDistribution(gameTypes, len(hands))
	res.TableSizes = toDistribution(tableSizes, len(hands))
}

func toDistribution(counts map[string]int, total int) map[string]Distribution {
	if total == 0 {
		return nil
	}
	out := make(map[string]Distribution, len(counts))
	for k, n := range counts {
		out[k] = Distribution{
			Count:      n,
			Percentage: float64(n) * 100 / float64(total),
		}
	}
	return out
}

func parseFile(path string) ([]*parser.Hand, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	records, err := parser.ReadRecords(f)
	if err != nil {
		return nil, 0, err
	}
	p := parser.NewParser()
	for i := len(records) - 1; i >= 0; i-- {
		p.Feed(records[i])
	}
	return p.Finish(), p.Discarded(), nil
}
