package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// Find returns the record for one keyword, or nil if not found.
func (r *DBRepository) Find(ctx context.Context, userID, dramaID, keywordID string) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM progress_records WHERE user_id = ? AND drama_id = ? AND keyword_id = ?",
		userID, dramaID, keywordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(progress_record) > %w", err)
	}
	return &record, nil
}

// FindByUserAndDrama returns all of a user's records for one drama.
func (r *DBRepository) FindByUserAndDrama(ctx context.Context, userID, dramaID string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM progress_records WHERE user_id = ? AND drama_id = ? ORDER BY keyword_id",
		userID, dramaID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(progress_records) > %w", err)
	}
	return records, nil
}

// Upsert inserts or replaces the record for its (user, drama, keyword) key.
func (r *DBRepository) Upsert(ctx context.Context, record *Record) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_records (user_id, drama_id, keyword_id, status, attempts, correct_attempts, completed_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			attempts = VALUES(attempts),
			correct_attempts = VALUES(correct_attempts),
			completed_at = VALUES(completed_at),
			updated_at = VALUES(updated_at)`,
		record.UserID, record.DramaID, record.KeywordID, record.Status,
		record.Attempts, record.CorrectAttempts, record.CompletedAt, record.UpdatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(upsert progress_record) > %w", err)
	}
	return nil
}

// Delete removes the record for one keyword.
func (r *DBRepository) Delete(ctx context.Context, userID, dramaID, keywordID string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM progress_records WHERE user_id = ? AND drama_id = ? AND keyword_id = ?",
		userID, dramaID, keywordID); err != nil {
		return fmt.Errorf("db.ExecContext(delete progress_record) > %w", err)
	}
	return nil
}

// FindWatermark returns the milestone watermark for a user and drama, or nil.
func (r *DBRepository) FindWatermark(ctx context.Context, userID, dramaID string) (*Watermark, error) {
	var watermark Watermark
	err := r.db.GetContext(ctx, &watermark,
		"SELECT * FROM milestone_watermarks WHERE user_id = ? AND drama_id = ?",
		userID, dramaID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(milestone_watermark) > %w", err)
	}
	return &watermark, nil
}

// SaveWatermark inserts or replaces the milestone watermark.
func (r *DBRepository) SaveWatermark(ctx context.Context, watermark *Watermark) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO milestone_watermarks (user_id, drama_id, highest_threshold)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE highest_threshold = VALUES(highest_threshold)`,
		watermark.UserID, watermark.DramaID, watermark.HighestThresholdReached); err != nil {
		return fmt.Errorf("db.ExecContext(upsert milestone_watermark) > %w", err)
	}
	return nil
}
