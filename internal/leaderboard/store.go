// Package leaderboard implements the persistence port: a bounded
// top-N score list backed by SQLite.
//
// Persistence is never player-fatal. Malformed rows are skipped on
// read, and callers treat any error as "no leaderboard" rather than
// surfacing it to the player.
package leaderboard

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/barista/internal/game"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (scores table + rank index)
const currentSchemaVersion = 1

// MaxEntries is the leaderboard bound: only the top 10 scores survive
// a write.
const MaxEntries = 10

// DefaultPlayerName substitutes for a missing or blank player name.
// Submission is never rejected over a name.
const DefaultPlayerName = "Anonymous"

// maxNameLength caps stored player names, matching the 20-character
// input limit of the original game form.
const maxNameLength = 20

// Store is the SQLite-backed leaderboard. Implements game.Scoreboard.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens a SQLite leaderboard at the given path.
// Applies required pragmas and the schema automatically; idempotent.
//
// The database is configured with:
//   - WAL mode for concurrent read access
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore appends a score and prunes the table back to the top
// MaxEntries in one transaction. The player name is NFC-normalized,
// trimmed, truncated, and defaulted when blank.
func (s *Store) SaveScore(ctx context.Context, playerName string, score int, sloName string) error {
	name := normalizeName(playerName)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scores (player_name, score, slo_name, created_at)
		VALUES (?, ?, ?, ?)
	`, name, score, sloName, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	// Evict everything below the cut line.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM scores
		WHERE id NOT IN (
			SELECT id FROM scores
			ORDER BY score DESC, created_at DESC, id DESC
			LIMIT ?
		)
	`, MaxEntries)
	if err != nil {
		return fmt.Errorf("prune scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// TopScores returns the leaderboard in descending score order, at most
// MaxEntries long. Returns an empty slice (not nil) when the board is
// empty; rows that fail to scan are skipped rather than failing the
// read.
func (s *Store) TopScores(ctx context.Context) ([]game.ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_name, score, slo_name, created_at
		FROM scores
		ORDER BY score DESC, created_at DESC, id DESC
		LIMIT ?
	`, MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	entries := []game.ScoreEntry{}
	for rows.Next() {
		var (
			e   game.ScoreEntry
			raw string
		)
		if err := rows.Scan(&e.PlayerName, &e.Score, &e.SLOName, &raw); err != nil {
			// Malformed row: degrade, don't fail the board.
			continue
		}
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return entries, nil
}

// normalizeName canonicalizes a player name for storage: NFC form,
// surrounding whitespace trimmed, bounded length, blank defaulted.
func normalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return DefaultPlayerName
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	return name
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	}
	return nil
}
