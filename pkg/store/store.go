// Package store persists tracked wallets and cached trader statistics in a
// local SQLite database. Stats payloads are msgpack blobs so the schema never
// has to chase the analysis shape; wallet rows stay relational because the
// tracker queries and mutates them field by field.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/walletscope/walletscope-go/pkg/analytics"
)

// StatsMaxAge is how long a cached analysis is served before a refresh is
// required.
const StatsMaxAge = 6 * time.Hour

// ErrNotTracked is returned for operations on a wallet that was never tracked.
var ErrNotTracked = errors.New("wallet is not tracked")

const schema = `
CREATE TABLE IF NOT EXISTS tracked_wallets (
	address          TEXT PRIMARY KEY,
	added_at         INTEGER NOT NULL,
	ghost_enabled    INTEGER NOT NULL DEFAULT 0,
	ghost_started_at INTEGER
);

CREATE TABLE IF NOT EXISTS trader_stats (
	wallet       TEXT PRIMARY KEY REFERENCES tracked_wallets(address) ON DELETE CASCADE,
	last_updated INTEGER NOT NULL,
	payload      BLOB NOT NULL
);
`

// ChangeKind labels a change notification.
type ChangeKind string

const (
	ChangeStatsUpdated    ChangeKind = "stats_updated"
	ChangeWalletTracked   ChangeKind = "wallet_tracked"
	ChangeWalletUntracked ChangeKind = "wallet_untracked"
	ChangeGhostMode       ChangeKind = "ghost_mode"
)

// Change is broadcast to subscribers after a successful write so long-lived
// consumers (the serve loop, a UI session) can react without polling.
type Change struct {
	Kind   ChangeKind
	Wallet string
}

// Store is the SQLite-backed repository. Safe for concurrent use.
type Store struct {
	conn *sql.DB
	path string
	log  zerolog.Logger

	mu   sync.Mutex
	subs []chan Change
}

// Open creates (or opens) the database at path and applies the schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL keeps readers unblocked while the refresh loop writes.
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &Store{
		conn: conn,
		path: path,
		log:  log.With().Str("component", "store").Logger(),
	}, nil
}

// Close closes the database and all subscriber channels.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()
	return s.conn.Close()
}

// Subscribe returns a channel of change notifications. Slow consumers drop
// notifications rather than block writers; the channel closes on Close.
func (s *Store) Subscribe() <-chan Change {
	ch := make(chan Change, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
		default:
			s.log.Warn().Str("kind", string(c.Kind)).Msg("subscriber lagging, notification dropped")
		}
	}
}

// Track registers a wallet. Tracking an already tracked wallet is a no-op.
func (s *Store) Track(ctx context.Context, address string) error {
	res, err := s.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO tracked_wallets (address, added_at) VALUES (?, ?)`,
		address, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to track wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.notify(Change{Kind: ChangeWalletTracked, Wallet: address})
	}
	return nil
}

// Untrack removes a wallet and its cached stats.
func (s *Store) Untrack(ctx context.Context, address string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM tracked_wallets WHERE address = ?`, address)
	if err != nil {
		return fmt.Errorf("failed to untrack wallet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotTracked
	}
	s.notify(Change{Kind: ChangeWalletUntracked, Wallet: address})
	return nil
}

// Wallet returns one tracked wallet.
func (s *Store) Wallet(ctx context.Context, address string) (analytics.Wallet, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT address, ghost_enabled, ghost_started_at FROM tracked_wallets WHERE address = ?`,
		address)
	w, err := scanWallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return analytics.Wallet{}, ErrNotTracked
	}
	if err != nil {
		return analytics.Wallet{}, fmt.Errorf("failed to load wallet: %w", err)
	}
	return w, nil
}

// Wallets returns every tracked wallet in tracking order.
func (s *Store) Wallets(ctx context.Context) ([]analytics.Wallet, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT address, ghost_enabled, ghost_started_at FROM tracked_wallets ORDER BY added_at, address`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []analytics.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (analytics.Wallet, error) {
	var (
		w       analytics.Wallet
		enabled int
		started sql.NullInt64
	)
	if err := row.Scan(&w.Address, &enabled, &started); err != nil {
		return analytics.Wallet{}, err
	}
	w.GhostMode = enabled != 0
	if started.Valid {
		t := time.UnixMilli(started.Int64).UTC()
		w.GhostStartedAt = &t
	}
	return w, nil
}

// SetGhostMode flips ghost mode for a tracked wallet. Enabling stamps the
// start time; disabling keeps the stamp so history stays reconstructible.
func (s *Store) SetGhostMode(ctx context.Context, address string, enabled bool, startedAt time.Time) error {
	var res sql.Result
	var err error
	if enabled {
		res, err = s.conn.ExecContext(ctx,
			`UPDATE tracked_wallets SET ghost_enabled = 1, ghost_started_at = ? WHERE address = ?`,
			startedAt.UnixMilli(), address)
	} else {
		res, err = s.conn.ExecContext(ctx,
			`UPDATE tracked_wallets SET ghost_enabled = 0 WHERE address = ?`, address)
	}
	if err != nil {
		return fmt.Errorf("failed to update ghost mode: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotTracked
	}
	s.notify(Change{Kind: ChangeGhostMode, Wallet: address})
	return nil
}

// PutStats upserts the cached analysis for a wallet.
func (s *Store) PutStats(ctx context.Context, stats analytics.TraderStats) error {
	payload, err := encodeStats(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO trader_stats (wallet, last_updated, payload) VALUES (?, ?, ?)
		 ON CONFLICT(wallet) DO UPDATE SET last_updated = excluded.last_updated, payload = excluded.payload`,
		stats.Wallet, stats.LastUpdated, payload)
	if err != nil {
		return fmt.Errorf("failed to store stats: %w", err)
	}
	s.notify(Change{Kind: ChangeStatsUpdated, Wallet: stats.Wallet})
	return nil
}

// Stats returns the cached analysis for a wallet, or ok=false when none is
// cached. Freshness is judged separately; see Fresh.
func (s *Store) Stats(ctx context.Context, address string) (analytics.TraderStats, bool, error) {
	var (
		lastUpdated int64
		payload     []byte
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT last_updated, payload FROM trader_stats WHERE wallet = ?`, address).
		Scan(&lastUpdated, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return analytics.TraderStats{}, false, nil
	}
	if err != nil {
		return analytics.TraderStats{}, false, fmt.Errorf("failed to load stats: %w", err)
	}

	stats, err := decodeStats(payload)
	if err != nil {
		return analytics.TraderStats{}, false, fmt.Errorf("failed to decode stats: %w", err)
	}
	stats.Wallet = address
	stats.LastUpdated = lastUpdated
	return stats, true, nil
}

// Fresh reports whether a cached entry is recent enough to serve without a
// refresh.
func Fresh(stats analytics.TraderStats, now time.Time) bool {
	return now.Sub(time.UnixMilli(stats.LastUpdated)) < StatsMaxAge
}
