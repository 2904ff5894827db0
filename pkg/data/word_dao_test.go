package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestRecordMessageSingleTransaction(t *testing.T) {
	d, mock := newMock(t)
	occurredAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO change_events").
		WithArgs(sqlmock.AnyArg(), int64(1), int64(-2), occurredAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO words ").
		WithArgs("hello", 2, int64(1), int64(-2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO words ").
		WithArgs("world", 1, int64(1), int64(-2)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO words_24h ").
		WithArgs("hello", 2, int64(1), int64(-2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO words_24h ").
		WithArgs("world", 1, int64(1), int64(-2)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := d.RecordMessage(context.Background(), 1, -2, []WordCount{
		{Word: "hello", Freq: 2},
		{Word: "world", Freq: 1},
	}, occurredAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMessageRollsBackOnFailure(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO change_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO words ").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := d.RecordMessage(context.Background(), 1, -2, []WordCount{
		{Word: "hello", Freq: 1},
	}, time.Now())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordMessageNothingToRecord(t *testing.T) {
	d, mock := newMock(t)

	require.NoError(t, d.RecordMessage(context.Background(), 1, -2, nil, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopWordsForUser(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery("SELECT word, SUM\\(freq\\) FROM words ").
		WithArgs(int64(1), 100).
		WillReturnRows(sqlmock.NewRows([]string{"word", "sum"}).
			AddRow("hello", 5).
			AddRow("world", 3))

	counts, err := d.TopWords(context.Background(), AllTime, 1, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []WordCount{
		{Word: "hello", Freq: 5},
		{Word: "world", Freq: 3},
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopWordsRestrictedToChat(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery("SELECT word, SUM\\(freq\\) FROM words_24h ").
		WithArgs(int64(1), int64(-2), 10).
		WillReturnRows(sqlmock.NewRows([]string{"word", "sum"}))

	counts, err := d.TopWords(context.Background(), Rolling24h, 1, -2, 10)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatWordsExcludesPrivateRows(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery("user_id <> chat_id").
		WithArgs(int64(-2), 100).
		WillReturnRows(sqlmock.NewRows([]string{"word", "sum"}).
			AddRow("hello", 9))

	counts, err := d.ChatWords(context.Background(), AllTime, -2, 100)
	require.NoError(t, err)
	assert.Equal(t, []WordCount{{Word: "hello", Freq: 9}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistinctChats(t *testing.T) {
	d, mock := newMock(t)

	mock.ExpectQuery("SELECT DISTINCT chat_id FROM words_24h").
		WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).
			AddRow(int64(-2)).
			AddRow(int64(-3)))

	chats, err := d.DistinctChats(context.Background(), Rolling24h)
	require.NoError(t, err)
	assert.Equal(t, []int64{-2, -3}, chats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
