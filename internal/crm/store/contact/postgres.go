package contact

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

// PostgresStore persists contacts in the contacts table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const contactColumns = "id, full_name, email, phone, company, message, status, created_at"

func (s *PostgresStore) Create(ctx context.Context, c *models.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = domain.StatusPending
	}
	query := `
		INSERT INTO contacts (id, full_name, email, phone, company, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		c.ID, c.FullName, c.Email, nullable(c.Phone), nullable(c.Company), c.Message, c.Status,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}

// UpdateStatus is an unconditional single-row update keyed by id. Two
// concurrent transitions on the same contact can both succeed with the last
// write winning; callers accept that.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*models.Contact, error) {
	query := `UPDATE contacts SET status = $2 WHERE id = $1 RETURNING ` + contactColumns
	c, err := scanContact(s.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("update contact status: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, opts ListOptions) ([]*models.Contact, int, error) {
	opts = opts.Normalize()

	where := ""
	args := []any{opts.Limit, opts.Offset}
	countArgs := []any{}
	if opts.Status != "" {
		where = " WHERE status = $3"
		args = append(args, opts.Status)
		countArgs = append(countArgs, opts.Status)
	}

	query := `SELECT ` + contactColumns + ` FROM contacts` + where + `
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	countWhere := ""
	if opts.Status != "" {
		countWhere = " WHERE status = $1"
	}
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	return contacts, total, nil
}

func (s *PostgresStore) HasRecentByEmail(ctx context.Context, email string, within time.Duration) (bool, error) {
	query := `
		SELECT 1 FROM contacts
		WHERE email = $1 AND created_at > NOW() - INTERVAL '1 second' * $2
		LIMIT 1
	`
	var one int
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(email), within.Seconds()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check recent contact: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	var phone, company sql.NullString
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &phone, &company, &c.Message, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Phone = phone.String
	c.Company = company.String
	return &c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
