package data

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

type Database struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS words (
	id BIGSERIAL PRIMARY KEY,
	word VARCHAR(255) NOT NULL,
	freq INTEGER NOT NULL DEFAULT 1,
	user_id BIGINT NOT NULL,
	chat_id BIGINT NOT NULL,
	UNIQUE (word, user_id, chat_id)
);

CREATE TABLE IF NOT EXISTS words_24h (
	id BIGSERIAL PRIMARY KEY,
	word VARCHAR(255) NOT NULL,
	freq INTEGER NOT NULL DEFAULT 1,
	user_id BIGINT NOT NULL,
	chat_id BIGINT NOT NULL,
	UNIQUE (word, user_id, chat_id)
);

CREATE TABLE IF NOT EXISTS change_events (
	id BIGSERIAL PRIMARY KEY,
	word_counts JSONB NOT NULL,
	user_id BIGINT NOT NULL,
	chat_id BIGINT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS change_events_occurred_at ON change_events (occurred_at);

CREATE TABLE IF NOT EXISTS consent (
	user_id BIGINT PRIMARY KEY,
	can_save BOOLEAN NOT NULL
);`

func Connection(connectionString string) (*Database, error) {
	db, err := sql.Open("postgres", connectionString)
	if nil != err {
		return nil, errors.Wrap(err, "unable to establish connection to database")
	}

	if err := db.Ping(); nil != err {
		return nil, errors.Wrap(err, "unable to ping database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); nil != err {
		return nil, errors.Wrap(err, "unable to create tables")
	}

	return &Database{db: db}, nil
}

// New wraps an already opened connection, skipping the schema bootstrap.
func New(db *sql.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	if nil != d.db {
		return d.db.Close()
	}
	return nil
}
