package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore satisfies the same contract as the trie, trading the build-time
// cost for a per-query one. Useful when the word list does not fit in memory.
type SQLiteStore struct {
	logger *slog.Logger
	db     *sql.DB
}

// NewSQLite wraps an already opened database. Used by import tooling and
// tests; servers go through OpenSQLite.
func NewSQLite(logger *slog.Logger, db *sql.DB) *SQLiteStore {
	return &SQLiteStore{logger: logger, db: db}
}

// OpenSQLite opens an indexed dictionary database and verifies it holds at
// least one word, for the same reason the loaders refuse an empty source.
func OpenSQLite(logger *slog.Logger, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	store := &SQLiteStore{logger: logger, db: db}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("can't inspect words table: %w", err)
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDictionary, path)
	}

	return store, nil
}

func (that *SQLiteStore) Close() error {
	if err := that.db.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}

// Init creates the words table. Used by import tooling and tests; a
// production database ships pre-built.
func (that *SQLiteStore) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS words (word TEXT PRIMARY KEY, definition TEXT NOT NULL)`

	if _, err := that.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

// Insert stores a word, appending to the definition with " OR " when the
// word already exists, mirroring the trie behavior.
func (that *SQLiteStore) Insert(ctx context.Context, word, definition string) error {
	query := `INSERT INTO words (word, definition) VALUES (?, ?)
		ON CONFLICT(word) DO UPDATE SET definition = words.definition || ' OR ' || excluded.definition`

	if _, err := that.db.ExecContext(ctx, query, strings.ToLower(word), definition); err != nil {
		return fmt.Errorf("can't insert word: %w", err)
	}

	return nil
}

func (that *SQLiteStore) IsWord(s string) bool {
	var one int

	err := that.db.QueryRow(`SELECT 1 FROM words WHERE word = ?`, strings.ToLower(s)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if err != nil {
		that.logger.Error("dictionary word lookup failed", "error", err)
		return false
	}

	return true
}

// HasPrefix reports whether some entry extends strictly beyond s, matching
// the trie's has-descendants semantics.
func (that *SQLiteStore) HasPrefix(s string) bool {
	folded := strings.ToLower(s)
	pattern := escapeLike(folded) + "%"

	var one int

	err := that.db.QueryRow(
		`SELECT 1 FROM words WHERE word LIKE ? ESCAPE '\' AND length(word) > length(?) LIMIT 1`,
		pattern, folded,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if err != nil {
		that.logger.Error("dictionary prefix lookup failed", "error", err)
		return false
	}

	return true
}

func (that *SQLiteStore) Definition(s string) string {
	var definition string

	err := that.db.QueryRow(`SELECT definition FROM words WHERE word = ?`, strings.ToLower(s)).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return NoDefinition
	}

	if err != nil {
		that.logger.Error("dictionary definition lookup failed", "error", err)
		return NoDefinition
	}

	return definition
}

// escapeLike neutralizes LIKE wildcards in user-built prefixes.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
