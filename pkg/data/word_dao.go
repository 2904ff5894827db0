package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// RecordMessage stores one message's contribution: the change event plus the
// frequency increments for both scopes, all in a single transaction.
func (d *Database) RecordMessage(ctx context.Context, userID, chatID int64, counts []WordCount, occurredAt time.Time) error {
	if len(counts) == 0 {
		return nil
	}

	payload, err := json.Marshal(counts)
	if nil != err {
		return errors.Wrap(err, "unable to encode word counts")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if nil != err {
		return errors.Wrap(err, "unable to begin transaction")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO change_events (word_counts, user_id, chat_id, occurred_at)
		 VALUES ($1, $2, $3, $4)`,
		payload, userID, chatID, occurredAt,
	); nil != err {
		tx.Rollback()
		return errors.Wrap(err, "unable to insert change event")
	}

	for _, scope := range []Scope{AllTime, Rolling24h} {
		for _, wc := range counts {
			if err := addFreq(ctx, tx, scope, userID, chatID, wc); nil != err {
				tx.Rollback()
				return err
			}
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit message contribution")
}

func addFreq(ctx context.Context, tx *sql.Tx, scope Scope, userID, chatID int64, wc WordCount) error {
	table := scope.table()
	query := fmt.Sprintf(
		`INSERT INTO %v (word, freq, user_id, chat_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (word, user_id, chat_id)
		 DO UPDATE SET freq = %v.freq + EXCLUDED.freq`,
		table, table,
	)
	_, err := tx.ExecContext(ctx, query, wc.Word, wc.Freq, userID, chatID)
	return errors.Wrap(err, "unable to upsert frequency for "+wc.Word)
}

// TopWords returns the user's words ranked by summed frequency.
// A chatID of 0 aggregates across every chat the user has written in.
func (d *Database) TopWords(ctx context.Context, scope Scope, userID, chatID int64, limit int) ([]WordCount, error) {
	query := fmt.Sprintf(`SELECT word, SUM(freq) FROM %v WHERE user_id = $1`, scope.table())
	args := []interface{}{userID}
	if chatID != 0 {
		args = append(args, chatID)
		query += fmt.Sprintf(` AND chat_id = $%v`, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(
		` GROUP BY word HAVING SUM(freq) > 0 ORDER BY SUM(freq) DESC, word ASC LIMIT $%v`,
		len(args),
	)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if nil != err {
		return nil, errors.Wrap(err, "unable to get top words for user")
	}
	defer rows.Close()
	return scanWordCounts(rows)
}

// ChatWords returns the chat-wide ranking summed across users, leaving out
// private-chat rows (user_id = chat_id) so one-on-one conversations with the
// bot never leak into a chat aggregate.
func (d *Database) ChatWords(ctx context.Context, scope Scope, chatID int64, limit int) ([]WordCount, error) {
	query := fmt.Sprintf(
		`SELECT word, SUM(freq) FROM %v
		 WHERE chat_id = $1 AND user_id <> chat_id
		 GROUP BY word HAVING SUM(freq) > 0
		 ORDER BY SUM(freq) DESC, word ASC LIMIT $2`,
		scope.table(),
	)

	rows, err := d.db.QueryContext(ctx, query, chatID, limit)
	if nil != err {
		return nil, errors.Wrap(err, "unable to get top words for chat")
	}
	defer rows.Close()
	return scanWordCounts(rows)
}

// DistinctChats lists every group chat present in the scope.
func (d *Database) DistinctChats(ctx context.Context, scope Scope) ([]int64, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT chat_id FROM %v WHERE user_id <> chat_id`,
		scope.table(),
	)

	rows, err := d.db.QueryContext(ctx, query)
	if nil != err {
		return nil, errors.Wrap(err, "unable to list chats")
	}
	defer rows.Close()

	var chats []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); nil != err {
			return nil, errors.Wrap(err, "unable to scan chat id")
		}
		chats = append(chats, chatID)
	}
	return chats, errors.Wrap(rows.Err(), "unable to read chat ids")
}

func scanWordCounts(rows *sql.Rows) ([]WordCount, error) {
	var counts []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Freq); nil != err {
			return nil, errors.Wrap(err, "unable to scan word count")
		}
		counts = append(counts, wc)
	}
	return counts, errors.Wrap(rows.Err(), "unable to read word counts")
}
