package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

var ErrNotFound = errors.New("record not found")

const counselingColumns = `
	id, patient_id, psychologist_id, conversation_id,
	schedule_date::text, start_time::text, end_time::text,
	access_type, status, payment_status,
	price, payment_proof, payment_note, created_at`

const counselingDetailQuery = `
	SELECT
		c.id, c.patient_id, c.psychologist_id, c.conversation_id,
		c.schedule_date::text, c.start_time::text, c.end_time::text,
		c.access_type, c.status, c.payment_status,
		c.price, c.payment_proof, c.payment_note, c.created_at,
		pu.name, pu.email, pu.phone_number,
		su.name, su.email, su.phone_number
	FROM counselings c
	JOIN patients pa ON pa.id = c.patient_id
	JOIN users pu ON pu.id = pa.user_id
	JOIN psychologists ps ON ps.id = c.psychologist_id
	JOIN users su ON su.id = ps.user_id`

type CounselingRepository struct {
	db DBTX
}

func NewCounselingRepository(db DBTX) *CounselingRepository {
	return &CounselingRepository{db: db}
}

func scanCounseling(row pgx.Row) (model.Counseling, error) {
	var c model.Counseling
	err := row.Scan(
		&c.ID, &c.PatientID, &c.PsychologistID, &c.ConversationID,
		&c.ScheduleDate, &c.StartTime, &c.EndTime,
		&c.AccessType, &c.Status, &c.PaymentStatus,
		&c.Price, &c.PaymentProof, &c.PaymentNote, &c.CreatedAt,
	)
	return c, err
}

func scanCounselingDetail(row pgx.Row) (model.CounselingDetail, error) {
	var d model.CounselingDetail
	err := row.Scan(
		&d.ID, &d.PatientID, &d.PsychologistID, &d.ConversationID,
		&d.ScheduleDate, &d.StartTime, &d.EndTime,
		&d.AccessType, &d.Status, &d.PaymentStatus,
		&d.Price, &d.PaymentProof, &d.PaymentNote, &d.CreatedAt,
		&d.PatientName, &d.PatientEmail, &d.PatientPhone,
		&d.PsychologistName, &d.PsychologistEmail, &d.PsychologistPhone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, ErrNotFound
	}
	return d, err
}

// ListByStatus returns every counseling whose status is in statuses, oldest
// first. It is the reconciler's per-sweep snapshot fetch.
func (r *CounselingRepository) ListByStatus(ctx context.Context, statuses ...model.CounselingStatus) ([]model.Counseling, error) {
	in := make([]string, len(statuses))
	for i, s := range statuses {
		in[i] = string(s)
	}

	query := fmt.Sprintf(`SELECT %s FROM counselings WHERE status = ANY($1) ORDER BY created_at ASC, id ASC`, counselingColumns)

	rows, err := r.db.Query(ctx, query, in)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Counseling
	for rows.Next() {
		c, err := scanCounseling(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateStatus sets the lifecycle status and returns the updated row,
// including the conversation_id a previous sweep may have stamped.
func (r *CounselingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CounselingStatus) (model.Counseling, error) {
	query := fmt.Sprintf(`UPDATE counselings SET status = $2 WHERE id = $1 RETURNING %s`, counselingColumns)

	c, err := scanCounseling(r.db.QueryRow(ctx, query, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (r *CounselingRepository) SetConversationID(ctx context.Context, id, conversationID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE counselings SET conversation_id = $2 WHERE id = $1`, id, conversationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDetail returns the admin view of one counseling joined with both
// participants' user records.
func (r *CounselingRepository) GetDetail(ctx context.Context, id uuid.UUID) (model.CounselingDetail, error) {
	return scanCounselingDetail(r.db.QueryRow(ctx, counselingDetailQuery+` WHERE c.id = $1`, id))
}

type ListFilter struct {
	Status        *model.CounselingStatus
	PaymentStatus *model.PaymentStatus
	Page          int
	PerPage       int
}

func (r *CounselingRepository) List(ctx context.Context, filter ListFilter) ([]model.CounselingDetail, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("c.status = $%d", len(args)))
	}
	if filter.PaymentStatus != nil {
		args = append(args, string(*filter.PaymentStatus))
		where = append(where, fmt.Sprintf("c.payment_status = $%d", len(args)))
	}

	query := counselingDetailQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.created_at DESC"

	args = append(args, filter.PerPage)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, (filter.Page-1)*filter.PerPage)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CounselingDetail
	for rows.Next() {
		d, err := scanCounselingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PaymentUpdate carries the fields the payment workflow may change in one
// write. Nil fields are left untouched.
type PaymentUpdate struct {
	Status model.PaymentStatus
	Note   *string

	// Set together when approving an on_demand session: the session is
	// stamped to start immediately.
	ScheduleDate *string
	StartTime    *string
	EndTime      *string
}

// UpdatePayment applies the payment decision and returns the updated detail
// view for notification delivery.
func (r *CounselingRepository) UpdatePayment(ctx context.Context, id uuid.UUID, upd PaymentUpdate) (model.CounselingDetail, error) {
	sets := []string{"payment_status = $2", "payment_note = $3"}
	args := []any{id, string(upd.Status), upd.Note}

	if upd.ScheduleDate != nil {
		args = append(args, *upd.ScheduleDate)
		sets = append(sets, fmt.Sprintf("schedule_date = $%d::date", len(args)))
	}
	if upd.StartTime != nil {
		args = append(args, *upd.StartTime)
		sets = append(sets, fmt.Sprintf("start_time = $%d::time", len(args)))
	}
	if upd.EndTime != nil {
		args = append(args, *upd.EndTime)
		sets = append(sets, fmt.Sprintf("end_time = $%d::time", len(args)))
	}

	query := fmt.Sprintf(`UPDATE counselings c SET %s WHERE c.id = $1`, strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return model.CounselingDetail{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.CounselingDetail{}, ErrNotFound
	}

	return r.GetDetail(ctx, id)
}
