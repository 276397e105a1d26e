// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1010adigupta/volition-da/celestia/types"
)

func testPointer() *types.BlobPointer {
	return &types.BlobPointer{
		Span:       types.SequenceSpan{Height: 1234, StartIndex: 5, DataLen: 5},
		Commitment: common.HexToHash("0xc0ffee"),
		DataRoot:   common.HexToHash("0x3d96b7d238e7e0456f6af8e7cdf0a67bd6cf9c2089ecb559c659dcaa1f880353"),
	}
}

func fixedClock() time.Time {
	return time.Unix(1700000000, 0)
}

func TestInsertAndFetchSubmissions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger.db")
	d, err := NewDatabase(path)
	require.NoError(t, err)
	d.now = fixedClock
	t.Cleanup(func() { require.NoError(t, d.Close()) })

	first, err := d.InsertSubmission(testPointer(), 1234)
	require.NoError(t, err)
	second, err := d.InsertSubmission(testPointer(), 1235)
	require.NoError(t, err)
	require.Greater(t, second, first)

	txHash := common.HexToHash("0xabcdef")
	require.NoError(t, d.UpdateOutcome(first, &Outcome{Stage: "confirmed", Nonce: 77, Confirmed: true, TxHash: txHash}))
	require.NoError(t, d.UpdateOutcome(second, &Outcome{Stage: "simulated", Err: errors.New("execution reverted")}))

	got, err := d.Submission(first)
	require.NoError(t, err)
	require.Equal(t, testPointer(), got.Pointer())
	require.Equal(t, uint64(1234), got.BlockNumber)
	require.Equal(t, uint64(77), got.Nonce)
	require.True(t, got.Confirmed)
	require.Equal(t, txHash.Hex(), got.TxHash)
	require.Empty(t, got.Error)
	require.Equal(t, fixedClock().Unix(), got.UpdatedAt)

	atHeight, err := d.SubmissionsAtHeight(1234)
	require.NoError(t, err)
	require.Len(t, atHeight, 2)
	require.Equal(t, "execution reverted", atHeight[1].Error)
	require.False(t, atHeight[1].Confirmed)
	require.Empty(t, atHeight[1].TxHash)

	none, err := d.SubmissionsAtHeight(1)
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = d.Submission(999)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
	require.ErrorIs(t, d.UpdateOutcome(999, &Outcome{Stage: "built"}), ErrSubmissionNotFound)
}

func TestReopenKeepsSchemaVersion(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ledger.db")
	d, err := NewDatabase(path)
	require.NoError(t, err)
	_, err = d.InsertSubmission(testPointer(), 1)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	d, err = NewDatabase(path)
	require.NoError(t, err)
	defer d.Close()
	version, err := fetchVersion(d.sqlDB)
	require.NoError(t, err)
	require.Equal(t, len(schemaList), version)
	rows, err := d.SubmissionsAtHeight(1234)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestInsertSubmissionMock(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	d := &SqliteDatabase{sqlDB: sqlx.NewDb(sqlDB, "sqlmock"), now: fixedClock}
	ptr := testPointer()
	mock.ExpectExec("INSERT INTO Submissions").WithArgs(
		ptr.Span.Height,
		ptr.Span.StartIndex,
		ptr.Span.DataLen,
		common.Hash(ptr.Commitment).Hex(),
		common.Hash(ptr.DataRoot).Hex(),
		uint64(1234),
		fixedClock().Unix(),
	).WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := d.InsertSubmission(ptr, 1234)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOutcomeMock(t *testing.T) {
	t.Parallel()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	d := &SqliteDatabase{sqlDB: sqlx.NewDb(sqlDB, "sqlmock"), now: fixedClock}
	mock.ExpectExec("UPDATE Submissions SET").WithArgs(
		"sent", uint64(9), false, common.HexToHash("0x01").Hex(), "nonce too low", fixedClock().Unix(), int64(3),
	).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE Submissions SET").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, d.UpdateOutcome(3, &Outcome{Stage: "sent", Nonce: 9, TxHash: common.HexToHash("0x01"), Err: errors.New("nonce too low")}))
	assert.ErrorIs(t, d.UpdateOutcome(4, &Outcome{Stage: "built"}), ErrSubmissionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigEnabled(t *testing.T) {
	require.False(t, DefaultConfig.Enabled())
	cfg := Config{Path: "ledger.db"}
	require.True(t, cfg.Enabled())
}
