package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

// CanSave reports whether new contributions may be recorded for the user.
func (d *Database) CanSave(ctx context.Context, userID int64) (bool, error) {
	var canSave bool
	err := d.db.QueryRowContext(ctx,
		`SELECT can_save FROM consent WHERE user_id = $1`, userID,
	).Scan(&canSave)
	if err == sql.ErrNoRows {
		// No row means the user never opted out.
		return true, nil
	}
	if nil != err {
		return false, errors.Wrap(err, "unable to look up consent")
	}
	return canSave, nil
}

// SetConsent upserts the flag. Withdrawing consent also deletes every saved
// frequency row and change event for the user, in the same transaction.
func (d *Database) SetConsent(ctx context.Context, userID int64, canSave bool) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if nil != err {
		return errors.Wrap(err, "unable to begin transaction")
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO consent (user_id, can_save) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET can_save = EXCLUDED.can_save`,
		userID, canSave,
	); nil != err {
		tx.Rollback()
		return errors.Wrap(err, "unable to upsert consent flag")
	}

	if !canSave {
		for _, table := range []string{"words", "words_24h", "change_events"} {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %v WHERE user_id = $1`, table), userID,
			); nil != err {
				tx.Rollback()
				return errors.Wrap(err, "unable to delete saved data from "+table)
			}
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit consent change")
}
