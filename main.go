package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ahui21/PokerNow-Analyzer/internal/applog"
	"github.com/ahui21/PokerNow-Analyzer/internal/application"
	"github.com/ahui21/PokerNow-Analyzer/internal/config"
	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
	"github.com/ahui21/PokerNow-Analyzer/internal/persistence"
	"github.com/ahui21/PokerNow-Analyzer/internal/server"
	"github.com/ahui21/PokerNow-Analyzer/internal/stats"
	"github.com/ahui21/PokerNow-Analyzer/internal/watcher"
)

type CLI struct {
	Debug bool `help:"Enable debug logging."`

	Analyze AnalyzeCmd `cmd:"" default:"withargs" help:"Analyze a single PokerNow log export and write a stats CSV."`
	Import  ImportCmd  `cmd:"" help:"Import log exports into the database."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API server."`
	Watch   WatchCmd   `cmd:"" help:"Watch a drop directory and import new exports."`
}

// AnalyzeCmd is the one-shot mode: parse a single log file and write the
// flattened per-player statistics next to it. It needs no database.
type AnalyzeCmd struct {
	LogFile string `arg:"" help:"PokerNow log export (CSV)."`
	Output  string `short:"o" default:"stats.csv" help:"Output CSV path."`
}

func (c *AnalyzeCmd) Run() error {
	hands, err := parser.ParseFile(c.LogFile)
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.LogFile, err)
	}

	state := stats.NewAggregateState()
	stats.NewAggregator(state).RecordHands(hands)

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Output, err)
	}
	defer f.Close()

	if err := stats.WriteCSV(f, stats.Rows(state)); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}

	fmt.Printf("Stats written to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	Files []string `arg:"" help:"Log exports to import."`
}

func (c *ImportCmd) Run(cfg config.Config) error {
	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	results, err := svc.ImportAll(context.Background(), c.Files)
	if err != nil {
		return err
	}
	for _, res := range results {
		switch res.Status {
		case application.StatusImported:
			fmt.Printf("%s: imported %d hands (%d players)\n", res.FileID, res.Hands, res.Players)
		case application.StatusSkipped:
			fmt.Printf("%s: already imported, skipped\n", res.FileID)
		case application.StatusFailed:
			fmt.Printf("%s: failed: %s\n", res.FileID, res.Error)
		}
	}
	return nil
}

type ServeCmd struct {
	Addr string `help:"Listen address (overrides LISTEN_ADDR)."`
}

func (c *ServeCmd) Run(cfg config.Config) error {
	if c.Addr != "" {
		cfg.ListenAddr = c.Addr
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(svc, cfg.ListenAddr).ListenAndServe(ctx)
}

type WatchCmd struct {
	Dir string `help:"Drop directory to watch (overrides WATCH_DIR)."`
}

func (c *WatchCmd) Run(cfg config.Config) error {
	if c.Dir != "" {
		cfg.WatchDir = c.Dir
	}
	if err := os.MkdirAll(cfg.WatchDir, 0o755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dw, err := watcher.NewDirWatcher(cfg.WatchDir, watcher.WatcherConfig{
		OnLogFile: func(path string) {
			res, err := svc.ImportFile(ctx, path)
			if err != nil {
				slog.Error("import failed", "file", filepath.Base(path), "err", err)
				return
			}
			slog.Info("import finished",
				"file", res.FileID, "status", res.Status, "hands", res.Hands)
		},
		OnError: func(err error) {
			slog.Error("watcher error", "err", err)
		},
	})
	if err != nil {
		return err
	}
	if err := dw.Start(); err != nil {
		return err
	}
	defer dw.Stop()

	<-ctx.Done()
	return nil
}

func newService(cfg config.Config) (*application.Service, error) {
	var repo persistence.Repository
	if cfg.DatabasePath == "" {
		repo = persistence.NewMemoryRepository()
	} else {
		var err error
		repo, err = persistence.NewSQLiteRepository(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
		}
	}
	return application.NewService(repo, stats.NewCalculator()), nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokernow-analyzer"),
		kong.Description("Parse PokerNow hand-history exports into per-player statistics."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	applog.Init(cli.Debug || cfg.Debug)

	err := ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
