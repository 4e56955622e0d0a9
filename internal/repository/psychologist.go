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

type PsychologistRepository struct {
	db DBTX
}

func NewPsychologistRepository(db DBTX) *PsychologistRepository {
	return &PsychologistRepository{db: db}
}

const psychologistColumns = `
	p.id, p.user_id, u.name, u.email, u.phone_number, u.profile_image,
	p.bio, p.topics, p.price, p.availability`

// SetAvailability flips the availability flag. Last write wins: concurrent
// sessions for the same psychologist are an upstream scheduling guarantee,
// not enforced here.
func (r *PsychologistRepository) SetAvailability(ctx context.Context, psychologistID uuid.UUID, availability model.Availability) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE psychologists SET availability = $2 WHERE id = $1`,
		psychologistID, string(availability),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type PsychologistFilter struct {
	Name         *string
	Topic        *string
	Availability *model.Availability
}

func (r *PsychologistRepository) List(ctx context.Context, filter PsychologistFilter) ([]model.Psychologist, error) {
	var (
		where []string
		args  []any
	)
	if filter.Name != nil {
		args = append(args, "%"+*filter.Name+"%")
		where = append(where, fmt.Sprintf("u.name ILIKE $%d", len(args)))
	}
	if filter.Topic != nil {
		args = append(args, *filter.Topic)
		where = append(where, fmt.Sprintf("$%d = ANY(p.topics)", len(args)))
	}
	if filter.Availability != nil {
		args = append(args, string(*filter.Availability))
		where = append(where, fmt.Sprintf("p.availability = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM psychologists p JOIN users u ON u.id = p.user_id`, psychologistColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.name ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Psychologist
	for rows.Next() {
		var p model.Psychologist
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.ProfileImage,
			&p.Bio, &p.Topics, &p.Price, &p.Availability,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProfile returns one psychologist with the joined user fields.
func (r *PsychologistRepository) GetProfile(ctx context.Context, psychologistID uuid.UUID) (model.Psychologist, error) {
	query := fmt.Sprintf(`SELECT %s FROM psychologists p JOIN users u ON u.id = p.user_id WHERE p.id = $1`, psychologistColumns)

	var p model.Psychologist
	err := r.db.QueryRow(ctx, query, psychologistID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.ProfileImage,
		&p.Bio, &p.Topics, &p.Price, &p.Availability,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}
