package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Tables map one-to-one onto the entity
// collections; location and medical history are kept as JSONB documents.
// The partial unique index backs the one-active-request-per-(user,animal)
// rule so concurrent duplicate submissions cannot both land.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	bio           TEXT NOT NULL DEFAULT '',
	website       TEXT NOT NULL DEFAULT '',
	profile_pic   TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL REFERENCES users(id),
	type        TEXT NOT NULL,
	description TEXT NOT NULL,
	city        TEXT NOT NULL,
	address     TEXT NOT NULL DEFAULT '',
	location    JSONB,
	image_url   TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS rescued_animals (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL DEFAULT '',
	age             TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	image_url       TEXT NOT NULL,
	rescued_by      TEXT NOT NULL REFERENCES users(id),
	report_id       TEXT,
	rescued_at      TIMESTAMPTZ NOT NULL,
	status          TEXT NOT NULL,
	medical_history JSONB NOT NULL DEFAULT '[]',
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS adoption_animals (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	breed           TEXT NOT NULL DEFAULT '',
	age             TEXT NOT NULL DEFAULT '',
	gender          TEXT NOT NULL DEFAULT '',
	weight          TEXT NOT NULL DEFAULT '',
	color           TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL,
	address         TEXT NOT NULL,
	images          JSONB NOT NULL DEFAULT '[]',
	medical_images  JSONB NOT NULL DEFAULT '[]',
	video_url       TEXT NOT NULL DEFAULT '',
	medical_history JSONB NOT NULL DEFAULT '[]',
	vaccinated      BOOLEAN NOT NULL DEFAULT FALSE,
	status          TEXT NOT NULL,
	created_by      TEXT NOT NULL REFERENCES users(id),
	rescued_id      TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS adoption_requests (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	animal_id  TEXT NOT NULL REFERENCES adoption_animals(id),
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	adopted_at TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS adoption_requests_active_uidx
	ON adoption_requests (user_id, animal_id)
	WHERE status IN ('pending', 'in_process', 'adopted');
`

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
