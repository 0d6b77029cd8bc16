package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ahui21/PokerNow-Analyzer/internal/parser"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode reduces write latency by avoiding full fsync on every commit.
	// synchronous=NORMAL is safe with WAL and significantly faster than the default FULL.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) HasImport(ctx context.Context, fileID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM imports WHERE file_id = ? LIMIT 1`, fileID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check import: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) SaveImport(ctx context.Context, rec ImportRecord, hands []*parser.Hand) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO imports(
		file_id, source_path, imported_at, hand_count, discarded_count, player_count
	) VALUES(?, ?, ?, ?, ?, ?)`,
		rec.FileID,
		rec.SourcePath,
		rec.ImportedAt.UTC().Format(time.RFC3339Nano),
		rec.HandCount,
		rec.Discarded,
		rec.PlayerCount,
	); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	for _, h := range hands {
		if err := insertHandTx(ctx, tx, rec.FileID, h); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func insertHandTx(ctx context.Context, tx *sql.Tx, fileID string, h *parser.Hand) error {
	uid := HandUID(fileID, h)

	if _, err := tx.ExecContext(ctx, `INSERT INTO hands(
		hand_uid, file_id, number, game_type, table_size, stakes,
		start_time, end_time, street_reached
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(hand_uid) DO NOTHING`,
		uid,
		fileID,
		h.Number,
		h.Game.String(),
		h.TableSize,
		h.Stakes,
		h.StartTime.UTC().Format(time.RFC3339Nano),
		h.EndTime.UTC().Format(time.RFC3339Nano),
		h.StreetReached.String(),
	); err != nil {
		return fmt.Errorf("insert hand %d: %w", h.Number, err)
	}

	for seatOrder, name := range h.DealtIn {
		c := h.Counts[name]
		if c == nil {
			c = &parser.ActionCounts{}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO hand_players(
			hand_uid, seat_order, player, dealt_in, played, raised_preflop,
			three_bet, four_bet, five_bet, showdown, saw_flop, bets, raises, calls
		) VALUES(?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hand_uid, player) DO NOTHING`,
			uid,
			seatOrder,
			name,
			boolToInt(h.Played[name]),
			boolToInt(h.RaisedPreflop[name]),
			boolToInt(h.ThreeBet[name]),
			boolToInt(h.FourBet[name]),
			boolToInt(h.FiveBet[name]),
			boolToInt(h.Showdown[name]),
			boolToInt(h.SawFlop[name]),
			c.Bets,
			c.Raises,
			c.Calls,
		); err != nil {
			return fmt.Errorf("insert hand player %q: %w", name, err)
		}
	}

	for seq, act := range h.Actions {
		var amount any
		if act.HasAmount {
			amount = act.Amount
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO actions(
			hand_uid, seq, player, street, kind, amount, tags, acted_at
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hand_uid, seq) DO NOTHING`,
			uid,
			seq,
			act.Player,
			act.Street.String(),
			act.Kind.String(),
			amount,
			joinTags(act.Tags),
			act.Timestamp.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert action %d: %w", seq, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) ListImports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		file_id, source_path, imported_at, hand_count, discarded_count, player_count
	FROM imports ORDER BY imported_at`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		var importedAt string
		if err := rows.Scan(&rec.FileID, &rec.SourcePath, &importedAt,
			&rec.HandCount, &rec.Discarded, &rec.PlayerCount); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		rec.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) LoadHands(ctx context.Context) ([]*parser.Hand, error) {
	players, err := r.loadHandPlayers(ctx)
	if err != nil {
		return nil, err
	}
	actions, err := r.loadActions(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
		hand_uid, number, game_type, table_size, stakes,
		start_time, end_time, street_reached
	FROM hands ORDER BY start_time, number`)
	if err != nil {
		return nil, fmt.Errorf("load hands: %w", err)
	}
	defer rows.Close()

	var out []*parser.Hand
	for rows.Next() {
		var uid, gameType, stakes, startTime, endTime, street string
		h := &parser.Hand{
			Played:        make(map[string]bool),
			RaisedPreflop: make(map[string]bool),
			ThreeBet:      make(map[string]bool),
			FourBet:       make(map[string]bool),
			FiveBet:       make(map[string]bool),
			Showdown:      make(map[string]bool),
			SawFlop:       make(map[string]bool),
			Counts:        make(map[string]*parser.ActionCounts),
		}
		if err := rows.Scan(&uid, &h.Number, &gameType, &h.TableSize, &stakes,
			&startTime, &endTime, &street); err != nil {
			return nil, fmt.Errorf("scan hand: %w", err)
		}
		h.Game = gameTypeFromString(gameType)
		h.Stakes = stakes
		h.StartTime, _ = time.Parse(time.RFC3339Nano, startTime)
		h.EndTime, _ = time.Parse(time.RFC3339Nano, endTime)
		h.StreetReached = streetFromString(street)

		for _, hp := range players[uid] {
			h.DealtIn = append(h.DealtIn, hp.player)
			setIf(h.Played, hp.player, hp.played)
			setIf(h.RaisedPreflop, hp.player, hp.raisedPreflop)
			setIf(h.ThreeBet, hp.player, hp.threeBet)
			setIf(h.FourBet, hp.player, hp.fourBet)
			setIf(h.FiveBet, hp.player, hp.fiveBet)
			setIf(h.Showdown, hp.player, hp.showdown)
			setIf(h.SawFlop, hp.player, hp.sawFlop)
			if hp.bets+hp.raises+hp.calls > 0 {
				h.Counts[hp.player] = &parser.ActionCounts{
					Bets: hp.bets, Raises: hp.raises, Calls: hp.calls,
				}
			}
		}
		h.Actions = actions[uid]
		out = append(out, h)
	}
	return out, rows.Err()
}

type handPlayerRow struct {
	player        string
	played        bool
	raisedPreflop bool
	threeBet      bool
	fourBet       bool
	fiveBet       bool
	showdown      bool
	sawFlop       bool
	bets          int
	raises        int
	calls         int
}

func (r *SQLiteRepository) loadHandPlayers(ctx context.Context) (map[string][]handPlayerRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		hand_uid, player, played, raised_preflop, three_bet, four_bet,
		five_bet, showdown, saw_flop, bets, raises, calls
	FROM hand_players ORDER BY hand_uid, seat_order`)
	if err != nil {
		return nil, fmt.Errorf("load hand players: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]handPlayerRow)
	for rows.Next() {
		var uid string
		var hp handPlayerRow
		if err := rows.Scan(&uid, &hp.player, &hp.played, &hp.raisedPreflop,
			&hp.threeBet, &hp.fourBet, &hp.fiveBet, &hp.showdown, &hp.sawFlop,
			&hp.bets, &hp.raises, &hp.calls); err != nil {
			return nil, fmt.Errorf("scan hand player: %w", err)
		}
		out[uid] = append(out[uid], hp)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadActions(ctx context.Context) (map[string][]parser.Action, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		hand_uid, player, street, kind, amount, tags, acted_at
	FROM actions ORDER BY hand_uid, seq`)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]parser.Action)
	for rows.Next() {
		var uid, street, kind, tags, actedAt string
		var amount sql.NullFloat64
		var act parser.Action
		if err := rows.Scan(&uid, &act.Player, &street, &kind, &amount, &tags, &actedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		act.Street = streetFromString(street)
		act.Kind = kindFromString(kind)
		if amount.Valid {
			act.Amount = amount.Float64
			act.HasAmount = true
		}
		act.Tags = splitTags(tags)
		act.Timestamp, _ = time.Parse(time.RFC3339Nano, actedAt)
		out[uid] = append(out[uid], act)
	}
	return out, rows.Err()
}

func setIf(set map[string]bool, name string, v bool) {
	if v {
		set[name] = true
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinTags(tags []parser.ActionTag) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func splitTags(s string) []parser.ActionTag {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]parser.ActionTag, len(parts))
	for i, p := range parts {
		tags[i] = parser.ActionTag(p)
	}
	return tags
}

func gameTypeFromString(s string) parser.GameType {
	if s == parser.GamePLO.String() {
		return parser.GamePLO
	}
	return parser.GameNLHE
}

func streetFromString(s string) parser.Street {
	switch s {
	case parser.StreetFlop.String():
		return parser.StreetFlop
	case parser.StreetTurn.String():
		return parser.StreetTurn
	case parser.StreetRiver.String():
		return parser.StreetRiver
	default:
		return parser.StreetPreflop
	}
}

func kindFromString(s string) parser.ActionKind {
	switch s {
	case parser.ActionBet.String():
		return parser.ActionBet
	case parser.ActionRaise.String():
		return parser.ActionRaise
	case parser.ActionCall.String():
		return parser.ActionCall
	case parser.ActionCheck.String():
		return parser.ActionCheck
	case parser.ActionFold.String():
		return parser.ActionFold
	case parser.ActionShow.String():
		return parser.ActionShow
	case parser.ActionPostBlind.String():
		return parser.ActionPostBlind
	default:
		return parser.ActionUnknown
	}
}
