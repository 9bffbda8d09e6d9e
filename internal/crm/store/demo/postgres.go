package demo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/pkg/domain"
	"pathcrm/pkg/platform/sentinel"
)

// PostgresStore persists demo bookings in the demos table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const demoColumns = "id, full_name, email, company, demo_date, service, notes, status, created_at"

func (s *PostgresStore) Create(ctx context.Context, d *models.Demo) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = domain.StatusPending
	}
	query := `
		INSERT INTO demos (id, full_name, email, company, demo_date, service, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		d.ID, d.FullName, d.Email, nullable(d.Company), d.DemoDate, nullable(d.Service), nullable(d.Notes), d.Status,
	).Scan(&d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert demo: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Demo, error) {
	query := `SELECT ` + demoColumns + ` FROM demos WHERE id = $1`
	d, err := scanDemo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find demo: %w", err)
	}
	return d, nil
}

// UpdateStatus is an unconditional single-row update keyed by id; concurrent
// writers race last-write-wins.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Demo, error) {
	query := `UPDATE demos SET status = $2 WHERE id = $1 RETURNING ` + demoColumns
	d, err := scanDemo(s.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update demo status: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*models.Demo, int, error) {
	opts = opts.Normalize()

	where := ""
	args := []any{opts.Limit, opts.Offset}
	countArgs := []any{}
	if opts.Status != "" {
		where = " WHERE status = $3"
		args = append(args, opts.Status)
		countArgs = append(countArgs, opts.Status)
	}

	query := `SELECT ` + demoColumns + ` FROM demos` + where + `
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list demos: %w", err)
	}
	defer rows.Close()

	var demos []*models.Demo
	for rows.Next() {
		d, err := scanDemo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan demo: %w", err)
		}
		demos = append(demos, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list demos: %w", err)
	}

	countWhere := ""
	if opts.Status != "" {
		countWhere = " WHERE status = $1"
	}
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM demos`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count demos: %w", err)
	}
	return demos, total, nil
}

func (s *PostgresStore) HasRecentByEmail(ctx context.Context, email string, within time.Duration) (bool, error) {
	query := `
		SELECT 1 FROM demos
		WHERE email = $1 AND created_at > NOW() - INTERVAL '1 second' * $2
		LIMIT 1
	`
	var one int
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(email), within.Seconds()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check recent demo: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM demos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete demo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete demo: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDemo(row rowScanner) (*models.Demo, error) {
	var d models.Demo
	var company, service, notes sql.NullString
	if err := row.Scan(&d.ID, &d.FullName, &d.Email, &company, &d.DemoDate, &service, &notes, &d.Status, &d.CreatedAt); err != nil {
		return nil, err
	}
	d.Company = company.String
	d.Service = service.String
	d.Notes = notes.String
	return &d, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
