// Package storage owns the relational schema for the admission core and
// applies it on boot and in integration tests.
package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema is idempotent DDL for the admission tables.
const Schema = `
CREATE TABLE IF NOT EXISTS clubs (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT        NOT NULL DEFAULT '',
	statut        TEXT        NOT NULL DEFAULT 'pending',
	affiliated_at TIMESTAMPTZ,
	quota_total   INTEGER     NOT NULL DEFAULT 0,
	quota_used    INTEGER     NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS club_documents (
	club_id   BIGINT NOT NULL REFERENCES clubs (id) ON DELETE CASCADE,
	doc_type  TEXT   NOT NULL,
	reference TEXT   NOT NULL,
	PRIMARY KEY (club_id, doc_type)
);

CREATE TABLE IF NOT EXISTS licences (
	id             BIGSERIAL PRIMARY KEY,
	club_id        BIGINT      NOT NULL REFERENCES clubs (id),
	last_name      TEXT        NOT NULL,
	first_name     TEXT        NOT NULL,
	last_name_key  TEXT        NOT NULL,
	first_name_key TEXT        NOT NULL,
	sex            TEXT        NOT NULL DEFAULT '',
	birth_date     DATE,
	email          TEXT        NOT NULL DEFAULT '',
	mobile_phone   TEXT        NOT NULL DEFAULT '',
	landline_phone TEXT        NOT NULL DEFAULT '',
	statut         TEXT        NOT NULL DEFAULT 'pending',
	is_included    BOOLEAN     NOT NULL DEFAULT FALSE,
	payment_status TEXT        NOT NULL DEFAULT 'pending',
	categorie      TEXT        NOT NULL DEFAULT 'unknown',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS licences_duplicate_match
	ON licences (club_id, last_name_key, first_name_key);

CREATE TABLE IF NOT EXISTS audit_events (
	id          UUID PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	action      TEXT        NOT NULL,
	club_id     BIGINT,
	licence_id  BIGINT,
	caller      TEXT        NOT NULL DEFAULT '',
	request_id  TEXT        NOT NULL DEFAULT '',
	client_ip   TEXT        NOT NULL DEFAULT '',
	user_agent  TEXT        NOT NULL DEFAULT '',
	detail      TEXT        NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_club
	ON audit_events (club_id, occurred_at);
`

// EnsureSchema applies the schema. Safe to run on every boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
