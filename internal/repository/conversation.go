package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aninkinaa/mentalwell1.0-api/internal/model"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindActive returns the active conversation for the pair, or (nil, nil)
// when none exists. At most one can be active at a time.
func (r *ConversationRepository) FindActive(ctx context.Context, patientID, psychologistID uuid.UUID) (*model.Conversation, error) {
	query := `
		SELECT id, patient_id, psychologist_id, status, created_at
		FROM conversations
		WHERE patient_id = $1 AND psychologist_id = $2 AND status = 'active'
		LIMIT 1
	`
	var c model.Conversation
	err := r.db.QueryRow(ctx, query, patientID, psychologistID).Scan(
		&c.ID, &c.PatientID, &c.PsychologistID, &c.Status, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepository) Create(ctx context.Context, patientID, psychologistID uuid.UUID) (model.Conversation, error) {
	query := `
		INSERT INTO conversations (patient_id, psychologist_id, status)
		VALUES ($1, $2, 'active')
		RETURNING id, patient_id, psychologist_id, status, created_at
	`
	var c model.Conversation
	err := r.db.QueryRow(ctx, query, patientID, psychologistID).Scan(
		&c.ID, &c.PatientID, &c.PsychologistID, &c.Status, &c.CreatedAt,
	)
	return c, err
}

func (r *ConversationRepository) Close(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE conversations SET status = 'closed' WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
