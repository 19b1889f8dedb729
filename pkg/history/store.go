// Package history keeps the local per-wallet list of pastes and the Aleph
// message metadata needed to link a paste to the explorer. Only metadata is
// kept; paste content lives on Aleph and removing an entry here never
// touches it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const (
	DefaultMaxEntries = 50
	PreviewRunes      = 80

	dbBusyTimeout = 5 * time.Second
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS paste_history (
  chain TEXT NOT NULL,
  address TEXT NOT NULL,
  hash TEXT NOT NULL,
  preview TEXT NOT NULL,
  created_at_ms INTEGER NOT NULL,
  PRIMARY KEY (chain, address, hash)
);`

const createHistoryIndex = `
CREATE INDEX IF NOT EXISTS idx_paste_history_wallet
  ON paste_history (chain, address, created_at_ms DESC);`

const createExplorerMetaTable = `
CREATE TABLE IF NOT EXISTS explorer_meta (
  file_hash TEXT PRIMARY KEY,
  item_hash TEXT NOT NULL,
  sender TEXT NOT NULL,
  chain TEXT NOT NULL
);`

// Entry is one paste in a wallet's history.
type Entry struct {
	Hash      string    `db:"hash" json:"hash"`
	Preview   string    `db:"preview" json:"preview"`
	CreatedAt time.Time `db:"-" json:"createdAt"`
	Chain     string    `db:"chain" json:"chain"`
}

// ExplorerMeta identifies the STORE message behind a file hash.
type ExplorerMeta struct {
	ItemHash string `db:"item_hash" json:"itemHash"`
	Sender   string `db:"sender" json:"sender"`
	Chain    string `db:"chain" json:"chain"`
}

type entryRow struct {
	Hash        string `db:"hash"`
	Preview     string `db:"preview"`
	CreatedAtMs int64  `db:"created_at_ms"`
	Chain       string `db:"chain"`
}

// Store is a sqlite-backed history.
type Store struct {
	db         *sqlx.DB
	maxEntries int
}

// NewStore opens (creating if needed) the database at dbPath. maxEntries
// <= 0 uses DefaultMaxEntries.
func NewStore(dbPath string, maxEntries int) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Errorf("cannot open history sqlite database: %w", err)
	}
	// One connection keeps in-memory databases shared across calls.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout=%d;", int64(dbBusyTimeout/time.Millisecond)),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("cannot set sqlite database parameter: %w", err)
		}
	}
	// The index needs its table, so order matters here.
	for _, ddl := range []struct{ name, stmt string }{
		{"paste_history", createHistoryTable},
		{"paste_history index", createHistoryIndex},
		{"explorer_meta", createExplorerMetaTable},
	} {
		if _, err := db.Exec(ddl.stmt); err != nil {
			_ = db.Close()
			return nil, errors.Errorf("cannot create %s: %w", ddl.name, err)
		}
	}

	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{db: db, maxEntries: maxEntries}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Preview returns the first PreviewRunes runes of text.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewRunes])
}

// List returns the wallet's history, newest first.
func (s *Store) List(ctx context.Context, chain, address string) ([]Entry, error) {
	var rows []entryRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT hash, preview, created_at_ms, chain FROM paste_history
		 WHERE chain = ? AND address = ?
		 ORDER BY created_at_ms DESC, rowid DESC`,
		chain, walletKey(chain, address))
	if err != nil {
		return nil, errors.Errorf("list history: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{Hash: r.Hash, Preview: r.Preview, CreatedAt: time.UnixMilli(r.CreatedAtMs), Chain: r.Chain})
	}
	return out, nil
}

// Add puts entry at the front of the wallet's history, replacing an older
// entry with the same hash and dropping the oldest beyond the cap.
func (s *Store) Add(ctx context.Context, chain, address string, entry Entry) error {
	if entry.Hash == "" {
		return errors.New("history entry needs a hash")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	key := walletKey(chain, address)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM paste_history WHERE chain = ? AND address = ? AND hash = ?`,
		chain, key, entry.Hash); err != nil {
		return errors.Errorf("dedupe history: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO paste_history (chain, address, hash, preview, created_at_ms) VALUES (?, ?, ?, ?, ?)`,
		chain, key, entry.Hash, Preview(entry.Preview), entry.CreatedAt.UnixMilli()); err != nil {
		return errors.Errorf("insert history: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM paste_history WHERE chain = ? AND address = ? AND hash NOT IN (
		   SELECT hash FROM paste_history WHERE chain = ? AND address = ?
		   ORDER BY created_at_ms DESC, rowid DESC LIMIT ?)`,
		chain, key, chain, key, s.maxEntries); err != nil {
		return errors.Errorf("cap history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Errorf("commit history: %w", err)
	}
	return nil
}

// Remove deletes hash from the wallet's history. It reports whether an
// entry was removed.
func (s *Store) Remove(ctx context.Context, chain, address, hash string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM paste_history WHERE chain = ? AND address = ? AND hash = ?`,
		chain, walletKey(chain, address), hash)
	if err != nil {
		return false, errors.Errorf("remove history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// PutExplorerMeta records the message metadata for fileHash.
func (s *Store) PutExplorerMeta(ctx context.Context, fileHash string, meta ExplorerMeta) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO explorer_meta (file_hash, item_hash, sender, chain) VALUES (?, ?, ?, ?)
		 ON CONFLICT(file_hash) DO UPDATE SET
		   item_hash=excluded.item_hash,
		   sender=excluded.sender,
		   chain=excluded.chain`,
		fileHash, meta.ItemHash, meta.Sender, meta.Chain)
	if err != nil {
		return errors.Errorf("upsert explorer_meta: %w", err)
	}
	return nil
}

// ExplorerMeta returns the metadata for fileHash. ok is false when this
// machine never created that paste.
func (s *Store) ExplorerMeta(ctx context.Context, fileHash string) (ExplorerMeta, bool, error) {
	var meta ExplorerMeta
	err := s.db.GetContext(ctx, &meta,
		`SELECT item_hash, sender, chain FROM explorer_meta WHERE file_hash = ?`, fileHash)
	if err == sql.ErrNoRows {
		return ExplorerMeta{}, false, nil
	}
	if err != nil {
		return ExplorerMeta{}, false, errors.Errorf("get explorer_meta: %w", err)
	}
	return meta, true, nil
}

// walletKey folds EVM addresses to lower case. Solana base58 is case-sensitive.
func walletKey(chain, address string) string {
	if chain == "ETH" {
		return strings.ToLower(address)
	}
	return address
}
