package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/talent-matching/internal/persistence"
)

// SnapshotStore persists the matching state in SQLite tables.
type SnapshotStore struct {
	pool   *ConnectionPool
	retry  *RetryHelper
	mapper *ErrorMapper
	logger *slog.Logger
}

var _ persistence.SnapshotStore = (*SnapshotStore)(nil)

// Open connects to the database, applies migrations and returns a store that owns
// the connection pool.
func Open(ctx context.Context, config Config, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := NewConnectionPool(config)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool, logger.With("component", "sqlite.migrate")); err != nil {
		pool.Close()
		return nil, err
	}
	return NewSnapshotStore(pool, logger), nil
}

// NewSnapshotStore wraps an already migrated pool.
func NewSnapshotStore(pool *ConnectionPool, logger *slog.Logger) *SnapshotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		pool:   pool,
		retry:  NewRetryHelper(DefaultRetryConfig()),
		mapper: NewErrorMapper(),
		logger: logger.With("component", "sqlite.SnapshotStore"),
	}
}

// Close releases the connection pool.
func (s *SnapshotStore) Close() error {
	return s.pool.Close()
}

// SaveSnapshot replaces every stored row with the snapshot in one transaction.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot persistence.Snapshot) error {
	start := time.Now()
	err := s.retry.WithRetry(ctx, func() error {
		return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			return writeSnapshot(ctx, tx, snapshot)
		})
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot save failed", "error", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.DebugContext(ctx, "snapshot saved",
		"companies", len(snapshot.Companies),
		"candidates", len(snapshot.Candidates),
		"offers", len(snapshot.Offers),
		"applications", len(snapshot.Applications),
		"wishlist", len(snapshot.Wishlist),
		"duration", time.Since(start))
	return nil
}

// LoadSnapshot reads every table back in insertion order.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (persistence.Snapshot, error) {
	var snap persistence.Snapshot
	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		if snap.Companies, err = loadCompanies(ctx, tx); err != nil {
			return err
		}
		if snap.Candidates, err = loadCandidates(ctx, tx); err != nil {
			return err
		}
		if snap.Offers, err = loadOffers(ctx, tx); err != nil {
			return err
		}
		if snap.Applications, err = loadApplications(ctx, tx); err != nil {
			return err
		}
		snap.Wishlist, err = loadWishlist(ctx, tx)
		return err
	})
	if err != nil {
		return persistence.Snapshot{}, fmt.Errorf("load snapshot: %w", s.mapper.MapError(err))
	}
	return snap, nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, snap persistence.Snapshot) error {
	for _, table := range []string{"wishlist_entries", "applications", "offers", "candidates", "companies"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range snap.Companies {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO companies (id, name, sector, address, email, phone, secret_hash, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Sector, c.Address, c.Email, c.Phone, c.SecretHash, i); err != nil {
			return fmt.Errorf("insert company %s: %w", c.ID, err)
		}
	}

	for i, c := range snap.Candidates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (id, name, surname, email, phone, secret_hash, kind,
				level, field, institution, graduation_year, job_title, employer, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Surname, c.Email, c.Phone, c.SecretHash, c.Kind,
			c.Level, c.Field, c.Institution, c.GraduationYear, c.JobTitle, c.Employer, i); err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}

	for i, o := range snap.Offers {
		var expires sql.NullString
		if o.ExpiresAt != nil {
			expires = sql.NullString{String: formatTime(*o.ExpiresAt), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO offers (id, company_id, title, description, type, published_at, expires_at,
				duration_months, domain, rhythm, subject, technologies, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.CompanyID, o.Title, o.Description, o.Type, formatTime(o.PublishedAt), expires,
			o.DurationMonths, o.Domain, o.Rhythm, o.Subject, o.Technologies, i); err != nil {
			return fmt.Errorf("insert offer %s: %w", o.ID, err)
		}
	}

	for i, a := range snap.Applications {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO applications (candidate_id, offer_id, position) VALUES (?, ?, ?)`,
			a.CandidateID, a.OfferID, i); err != nil {
			return fmt.Errorf("insert application %s/%s: %w", a.CandidateID, a.OfferID, err)
		}
	}

	for i, w := range snap.Wishlist {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO wishlist_entries (company_id, candidate_id, position) VALUES (?, ?, ?)`,
			w.CompanyID, w.CandidateID, i); err != nil {
			return fmt.Errorf("insert wishlist entry %s/%s: %w", w.CompanyID, w.CandidateID, err)
		}
	}
	return nil
}

func loadCompanies(ctx context.Context, tx *sql.Tx) ([]persistence.Company, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, sector, address, email, phone, secret_hash
		FROM companies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []persistence.Company
	for rows.Next() {
		var c persistence.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Sector, &c.Address, &c.Email, &c.Phone, &c.SecretHash); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadCandidates(ctx context.Context, tx *sql.Tx) ([]persistence.Candidate, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, surname, email, phone, secret_hash, kind,
			level, field, institution, graduation_year, job_title, employer
		FROM candidates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []persistence.Candidate
	for rows.Next() {
		var c persistence.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &c.Phone, &c.SecretHash, &c.Kind,
			&c.Level, &c.Field, &c.Institution, &c.GraduationYear, &c.JobTitle, &c.Employer); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadOffers(ctx context.Context, tx *sql.Tx) ([]persistence.Offer, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, company_id, title, description, type, published_at, expires_at,
			duration_months, domain, rhythm, subject, technologies
		FROM offers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	var out []persistence.Offer
	for rows.Next() {
		var (
			o         persistence.Offer
			published string
			expires   sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Title, &o.Description, &o.Type, &published, &expires,
			&o.DurationMonths, &o.Domain, &o.Rhythm, &o.Subject, &o.Technologies); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		if o.PublishedAt, err = parseTime(published); err != nil {
			return nil, fmt.Errorf("offer %s published_at: %w", o.ID, err)
		}
		if expires.Valid {
			t, err := parseTime(expires.String)
			if err != nil {
				return nil, fmt.Errorf("offer %s expires_at: %w", o.ID, err)
			}
			o.ExpiresAt = &t
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func loadApplications(ctx context.Context, tx *sql.Tx) ([]persistence.Application, error) {
	rows, err := tx.QueryContext(ctx, `SELECT candidate_id, offer_id FROM applications ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var out []persistence.Application
	for rows.Next() {
		var a persistence.Application
		if err := rows.Scan(&a.CandidateID, &a.OfferID); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadWishlist(ctx context.Context, tx *sql.Tx) ([]persistence.WishlistEntry, error) {
	rows, err := tx.QueryContext(ctx, `SELECT company_id, candidate_id FROM wishlist_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var out []persistence.WishlistEntry
	for rows.Next() {
		var w persistence.WishlistEntry
		if err := rows.Scan(&w.CompanyID, &w.CandidateID); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// formatTime keeps the zone offset so that calendar days survive a reload.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
