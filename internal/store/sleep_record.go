package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sleeplog/apiserver/types"
)

const dateLayout = "2006-01-02"

// SleepRecordRepository handles persistence for sleep records. Every
// statement is scoped by owner, so records of other users behave as absent.
type SleepRecordRepository struct {
	db *sql.DB
}

func NewSleepRecordRepository(db *sql.DB) *SleepRecordRepository {
	return &SleepRecordRepository{db: db}
}

// ListByUser returns the user's records, newest date first.
func (r *SleepRecordRepository) ListByUser(ctx context.Context, userID int) ([]types.SleepRecord, error) {
	const query = `
		SELECT id, user_id, sleep_time, wake_time, hours, quality, notes, sleep_date, created_at
		FROM sleep_records
		WHERE user_id = $1
		ORDER BY sleep_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]types.SleepRecord, 0)
	for rows.Next() {
		record, err := scanSleepRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetForUser returns record id if userID owns it.
func (r *SleepRecordRepository) GetForUser(ctx context.Context, userID int, id int64) (types.SleepRecord, error) {
	const query = `
		SELECT id, user_id, sleep_time, wake_time, hours, quality, notes, sleep_date, created_at
		FROM sleep_records
		WHERE id = $1 AND user_id = $2`
	record, err := scanSleepRecord(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SleepRecord{}, ErrNotFound
		}
		return types.SleepRecord{}, err
	}
	return record, nil
}

func (r *SleepRecordRepository) Create(ctx context.Context, record types.SleepRecord) (types.SleepRecord, error) {
	const query = `
		INSERT INTO sleep_records (user_id, sleep_time, wake_time, hours, quality, notes, sleep_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		record.UserID,
		record.SleepTime,
		record.WakeTime,
		record.Hours,
		nullableQuality(record.Quality),
		record.Notes,
		record.Date,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return types.SleepRecord{}, err
	}
	return record, nil
}

// Update overwrites the editable fields of a record owned by
// record.UserID. ErrNotFound covers both missing and foreign records.
func (r *SleepRecordRepository) Update(ctx context.Context, record types.SleepRecord) (types.SleepRecord, error) {
	const query = `
		UPDATE sleep_records
		SET sleep_time = $1,
			wake_time = $2,
			hours = $3,
			quality = $4,
			notes = $5,
			sleep_date = $6
		WHERE id = $7 AND user_id = $8
		RETURNING created_at`
	err := r.db.QueryRowContext(
		ctx,
		query,
		record.SleepTime,
		record.WakeTime,
		record.Hours,
		nullableQuality(record.Quality),
		record.Notes,
		record.Date,
		record.ID,
		record.UserID,
	).Scan(&record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SleepRecord{}, ErrNotFound
		}
		return types.SleepRecord{}, err
	}
	return record, nil
}

func (r *SleepRecordRepository) Delete(ctx context.Context, userID int, id int64) error {
	const query = `DELETE FROM sleep_records WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSleepRecord(row rowScanner) (types.SleepRecord, error) {
	var (
		record  types.SleepRecord
		quality sql.NullString
		date    time.Time
	)
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.SleepTime,
		&record.WakeTime,
		&record.Hours,
		&quality,
		&record.Notes,
		&date,
		&record.CreatedAt,
	); err != nil {
		return types.SleepRecord{}, err
	}
	record.Quality = types.Quality(quality.String)
	record.Date = date.Format(dateLayout)
	return record, nil
}

func nullableQuality(q types.Quality) sql.NullString {
	return sql.NullString{String: string(q), Valid: q != ""}
}
