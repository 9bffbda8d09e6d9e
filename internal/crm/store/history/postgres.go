package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pathcrm/internal/crm/models"
	"pathcrm/pkg/domain"
)

// PostgresStore persists transition records in the status_history table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, rec *models.TransitionRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `
		INSERT INTO status_history (id, entity_type, entity_id, old_status, new_status, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING updated_at
	`
	var updatedBy uuid.NullUUID
	if rec.UpdatedBy != nil {
		updatedBy = uuid.NullUUID{UUID: *rec.UpdatedBy, Valid: true}
	}
	err := s.db.QueryRowContext(ctx, query,
		rec.ID, rec.Kind, rec.EntityID, rec.OldStatus, rec.NewStatus, updatedBy,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListRecent returns a page of the feed ordered newest-first, joined with the
// owning entity's display name, plus the total record count. The seq tiebreak
// keeps records with equal timestamps in insertion order.
func (s *PostgresStore) ListRecent(ctx context.Context, opts FeedOptions) ([]*models.ActivityEntry, int, error) {
	opts = opts.Normalize()

	query := `
		SELECT h.id, h.entity_type, h.entity_id, h.old_status, h.new_status,
		       h.updated_by, h.updated_at,
		       COALESCE(c.full_name, d.full_name, 'Unknown') AS full_name
		FROM status_history h
		LEFT JOIN contacts c ON h.entity_type = 'contact' AND c.id = h.entity_id
		LEFT JOIN demos d ON h.entity_type = 'demo' AND d.id = h.entity_id
		ORDER BY h.updated_at DESC, h.seq ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		var e models.ActivityEntry
		var oldStatus sql.NullString
		var updatedBy uuid.NullUUID
		if err := rows.Scan(
			&e.ID, &e.Kind, &e.EntityID, &oldStatus, &e.NewStatus,
			&updatedBy, &e.UpdatedAt, &e.FullName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan status history: %w", err)
		}
		if oldStatus.Valid {
			st := domain.Status(oldStatus.String)
			e.OldStatus = &st
		}
		if updatedBy.Valid {
			id := updatedBy.UUID
			e.UpdatedBy = &id
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list status history: %w", err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_history`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count status history: %w", err)
	}
	return entries, total, nil
}
