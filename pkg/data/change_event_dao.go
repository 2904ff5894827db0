package data

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/pkg/errors"
)

// StaleEvents returns every change event older than the given cutoff, with
// the word counts already decoded. A corrupt payload still has to leave the
// log eventually, so it is logged and handed over with nothing to reverse.
func (d *Database) StaleEvents(ctx context.Context, before time.Time) ([]ChangeEvent, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, word_counts, user_id, chat_id, occurred_at
		 FROM change_events WHERE occurred_at < $1`,
		before,
	)
	if nil != err {
		return nil, errors.Wrap(err, "unable to select stale change events")
	}
	defer rows.Close()

	var events []ChangeEvent
	for rows.Next() {
		var ev ChangeEvent
		var payload []byte
		if err := rows.Scan(&ev.ID, &payload, &ev.UserID, &ev.ChatID, &ev.OccurredAt); nil != err {
			return nil, errors.Wrap(err, "unable to scan change event")
		}
		if err := json.Unmarshal(payload, &ev.WordCounts); nil != err {
			log.Println("unable to decode word counts for change event", ev.ID, err)
			ev.WordCounts = nil
		}
		events = append(events, ev)
	}
	return events, errors.Wrap(rows.Err(), "unable to read change events")
}

// ExpireEvent reverses one event's rolling-window contribution and deletes
// the event, atomically. Frequencies are clamped at zero and the rows are
// kept, only the consent cascade removes them.
func (d *Database) ExpireEvent(ctx context.Context, ev ChangeEvent) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if nil != err {
		return errors.Wrap(err, "unable to begin transaction")
	}

	for _, wc := range ev.WordCounts {
		if _, err := tx.ExecContext(ctx,
			`UPDATE words_24h SET freq = GREATEST(freq - $1, 0)
			 WHERE word = $2 AND user_id = $3 AND chat_id = $4`,
			wc.Freq, wc.Word, ev.UserID, ev.ChatID,
		); nil != err {
			tx.Rollback()
			return errors.Wrap(err, "unable to reverse contribution for "+wc.Word)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM change_events WHERE id = $1`, ev.ID,
	); nil != err {
		tx.Rollback()
		return errors.Wrap(err, "unable to delete change event")
	}

	return errors.Wrap(tx.Commit(), "unable to commit expiry")
}
