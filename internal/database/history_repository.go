package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
)

// historySelectList is the column list for SELECT on history (single source
// for schema changes).
const historySelectList = `id, record_id, content, user_email, ai_agent_type, meta_data, created_at`

// HistoryRepository persists feature invocation records.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history record and returns its assigned id.
func (r *HistoryRepository) Create(ctx context.Context, rec *domain.HistoryRecord) (int64, error) {
	query := `
		INSERT INTO history (record_id, content, user_email, ai_agent_type, meta_data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rec.RecordID, []byte(rec.Content), rec.UserEmail, rec.AIAgentType, nullable(rec.MetaData),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}
	return id, nil
}

// ReplaceContent overwrites the content of every record with the given key.
// This is deliberately a filtered update, not an upsert: when no row matches
// the key the call succeeds with zero rows touched and nothing is created.
func (r *HistoryRepository) ReplaceContent(ctx context.Context, recordID string, content json.RawMessage) (int64, error) {
	query := `UPDATE history SET content = $2 WHERE record_id = $1`

	result, err := r.db.ExecContext(ctx, query, recordID, []byte(content))
	if err != nil {
		return 0, fmt.Errorf("replace history content: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return rows, nil
}

// GetByRecordID returns the first record matching the key.
// Returns domain.ErrNotFound when the key is unknown.
func (r *HistoryRepository) GetByRecordID(ctx context.Context, recordID string) (*domain.HistoryRecord, error) {
	query := `SELECT ` + historySelectList + ` FROM history WHERE record_id = $1 ORDER BY id LIMIT 1`

	rec, err := scanHistoryRecord(r.db.QueryRowContext(ctx, query, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get history by record id: %w", err)
	}
	return rec, nil
}

// ListByUserEmail returns all records owned by the given email, newest first.
func (r *HistoryRepository) ListByUserEmail(ctx context.Context, userEmail string) ([]domain.HistoryRecord, error) {
	query := `SELECT ` + historySelectList + ` FROM history WHERE user_email = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		rec, scanErr := scanHistoryRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan history row: %w", scanErr)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistoryRecord(row rowScanner) (*domain.HistoryRecord, error) {
	var (
		rec      domain.HistoryRecord
		content  []byte
		metaData sql.NullString
	)
	if err := row.Scan(
		&rec.ID, &rec.RecordID, &content, &rec.UserEmail, &rec.AIAgentType, &metaData, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Content = json.RawMessage(content)
	rec.MetaData = metaData.String
	return &rec, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
