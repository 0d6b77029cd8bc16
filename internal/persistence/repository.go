package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
)

// ImportRecord describes one ingested log file.
type ImportRecord struct {
	FileID      string
	SourcePath  string
	ImportedAt  time.Time
	HandCount   int
	Discarded   int
	PlayerCount int
}

// Repository is the durable store for parsed hands. Aggregate statistics
// are recomputed from stored hands on demand, so re-deriving them is
// always exact.
type Repository interface {
	// HasImport reports whether the file was already ingested; duplicate
	// uploads are skipped, never double-counted.
	HasImport(ctx context.Context, fileID string) (bool, error)
	// SaveImport stores the file's hands and its import record in one
	// atomic step.
	SaveImport(ctx context.Context, rec ImportRecord, hands []*parser.Hand) error
	ListImports(ctx context.Context) ([]ImportRecord, error)
	// LoadHands returns all stored hands ordered by start time.
	LoadHands(ctx context.Context) ([]*parser.Hand, error)
	Close() error
}

// FileID derives the duplicate-detection key for a log file. The export
// filename embeds the table's session identity, so the basename is the
// natural key.
func FileID(path string) string {
	return filepath.Base(path)
}

// HandUID builds a stable content hash for one hand within a file.
func HandUID(fileID string, h *parser.Hand) string {
	b := strings.Builder{}
	b.WriteString("v1|")
	b.WriteString(fileID)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(h.Number))
	b.WriteByte('|')
	b.WriteString(h.Game.String())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(h.TableSize))
	b.WriteByte('|')
	b.WriteString(h.StartTime.UTC().Format(time.RFC3339Nano))

	names := append([]string(nil), h.DealtIn...)
	sort.Strings(names)
	b.WriteString("|P:")
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(';')
	}

	b.WriteString("|A:")
	for _, act := range h.Actions {
		b.WriteString(act.Player)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(act.Kind)))
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(act.Street)))
		b.WriteByte('/')
		if act.HasAmount {
			b.WriteString(strconv.FormatFloat(act.Amount, 'f', -1, 64))
		}
		b.WriteByte('|')
	}

	s := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(s[:])
}
