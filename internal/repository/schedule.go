package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

type ScheduleRepository struct {
	db DBTX
}

func NewScheduleRepository(db DBTX) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListWeekly returns the recurring weekly rules a psychologist has published.
func (r *ScheduleRepository) ListWeekly(ctx context.Context, psychologistID uuid.UUID) ([]model.ScheduleEntry, error) {
	query := `
		SELECT id, day, start_time::text, end_time::text
		FROM psychologist_weekly_schedules
		WHERE psychologist_id = $1
		ORDER BY start_time ASC
	`
	rows, err := r.db.Query(ctx, query, psychologistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListDated returns date-specific entries on or after the given date.
func (r *ScheduleRepository) ListDated(ctx context.Context, psychologistID uuid.UUID, fromDate string) ([]model.ScheduleEntry, error) {
	query := `
		SELECT id, date::text, start_time::text, end_time::text
		FROM psychologist_dated_schedules
		WHERE psychologist_id = $1 AND date >= $2::date
		ORDER BY date ASC, start_time ASC
	`
	rows, err := r.db.Query(ctx, query, psychologistID, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScheduleEntry
	for rows.Next() {
		var e model.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.StartTime, &e.EndTime); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindConflict returns the booked slot overlapping [startTime, endTime] on
// the given date, or (nil, nil) when the window is free.
func (r *ScheduleRepository) FindConflict(ctx context.Context, psychologistID uuid.UUID, date, startTime, endTime string) (*model.BookedSchedule, error) {
	query := `
		SELECT id, psychologist_id, counseling_id, date::text, start_time::text, end_time::text, created_at
		FROM booked_schedules
		WHERE psychologist_id = $1
		  AND date = $2::date
		  AND start_time <= $4::time
		  AND end_time > $3::time
		LIMIT 1
	`
	var b model.BookedSchedule
	err := r.db.QueryRow(ctx, query, psychologistID, date, startTime, endTime).Scan(
		&b.ID, &b.PsychologistID, &b.CounselingID, &b.Date, &b.StartTime, &b.EndTime, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ReleaseByCounseling frees the slot held for a counseling and reports how
// many rows it removed. Zero is not an error: on_demand sessions never hold
// a slot.
func (r *ScheduleRepository) ReleaseByCounseling(ctx context.Context, counselingID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM booked_schedules WHERE counseling_id = $1`, counselingID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
