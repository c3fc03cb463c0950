package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/thinksmartgroup/Search-AI/internal/types"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS vendors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    company_name TEXT,
    website TEXT UNIQUE,
    full_name TEXT,
    headline TEXT,
    email TEXT,
    phone TEXT,
    matched_token TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_vendors_website ON vendors(website);
CREATE INDEX IF NOT EXISTS idx_vendors_company_name ON vendors(company_name);
`

// Archive persists resolved candidates to a SQLite database for post-hoc
// querying. Like the file backup it is best-effort supporting storage; the
// in-memory sink remains the source of truth for matching.
type Archive struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenArchive creates or opens the SQLite database at path.
func OpenArchive(path string, logger *zap.Logger) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent resolves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply archive schema: %w", err)
	}
	return &Archive{db: db, logger: logger.Named("archive")}, nil
}

// SaveCandidate inserts a resolved candidate. Re-resolving the same website
// is a no-op (the first row wins), mirroring the sink's first-occurrence
// semantics.
func (a *Archive) SaveCandidate(ctx context.Context, c types.Candidate, token string) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO vendors
		 (company_name, website, full_name, headline, email, phone, matched_token)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyName, c.Website, c.FullName, c.HeadLine, c.Email(), c.Phone(), token)
	if err != nil {
		return fmt.Errorf("failed to archive candidate: %w", err)
	}
	return nil
}

// Count returns the number of archived vendors.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vendors: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
