package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the full DDL, idempotent so the migrate command can be re-run.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name          text NOT NULL,
		email         text UNIQUE,
		phone_number  text,
		profile_image text,
		role          text NOT NULL DEFAULT 'patient',
		is_active     boolean NOT NULL DEFAULT true,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS patients (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id    uuid NOT NULL REFERENCES users(id),
		birthdate  date,
		gender     text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS psychologists (
		id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id      uuid NOT NULL REFERENCES users(id),
		bio          text,
		topics       text[] NOT NULL DEFAULT '{}',
		price        bigint NOT NULL DEFAULT 0,
		availability text NOT NULL DEFAULT 'available',
		created_at   timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id      uuid NOT NULL REFERENCES patients(id),
		psychologist_id uuid NOT NULL REFERENCES psychologists(id),
		status          text NOT NULL DEFAULT 'active',
		created_at      timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS counselings (
		id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id      uuid NOT NULL REFERENCES patients(id),
		psychologist_id uuid NOT NULL REFERENCES psychologists(id),
		conversation_id uuid REFERENCES conversations(id),
		schedule_date   date,
		start_time      time,
		end_time        time,
		access_type     text NOT NULL DEFAULT 'scheduled',
		status          text NOT NULL DEFAULT 'waiting',
		payment_status  text NOT NULL DEFAULT 'waiting',
		price           bigint NOT NULL DEFAULT 0,
		payment_proof   text,
		payment_note    text,
		created_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS counselings_status_idx ON counselings (status)`,
	`CREATE INDEX IF NOT EXISTS counselings_payment_status_idx ON counselings (payment_status)`,

	`CREATE TABLE IF NOT EXISTS psychologist_weekly_schedules (
		id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		psychologist_id uuid NOT NULL REFERENCES psychologists(id),
		day             text NOT NULL,
		start_time      time NOT NULL,
		end_time        time NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS psychologist_dated_schedules (
		id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		psychologist_id uuid NOT NULL REFERENCES psychologists(id),
		date            date NOT NULL,
		start_time      time NOT NULL,
		end_time        time NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS booked_schedules (
		id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		psychologist_id uuid NOT NULL REFERENCES psychologists(id),
		counseling_id   uuid NOT NULL REFERENCES counselings(id),
		date            date NOT NULL,
		start_time      time NOT NULL,
		end_time        time NOT NULL,
		created_at      timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS booked_schedules_counseling_idx ON booked_schedules (counseling_id)`,

	`CREATE TABLE IF NOT EXISTS categories (
		id   uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name text NOT NULL UNIQUE
	)`,

	`CREATE TABLE IF NOT EXISTS articles (
		id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		title      text NOT NULL,
		content    text NOT NULL,
		"references" text,
		image      text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS article_categories (
		article_id  uuid NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
		category_id uuid NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (article_id, category_id)
	)`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
