// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

// Package db keeps a sqlite ledger of blobs posted to Celestia and the
// outcome of settling each of them on L1.
package db

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/1010adigupta/volition-da/celestia/types"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// Outcome is what settlement made of a submission.
type Outcome struct {
	Stage     string
	Nonce     uint64
	Confirmed bool
	TxHash    common.Hash
	Err       error
}

// Ledger records submissions. SqliteDatabase is the only implementation
// outside tests.
type Ledger interface {
	InsertSubmission(ptr *types.BlobPointer, blockNumber uint64) (int64, error)
	UpdateOutcome(id int64, outcome *Outcome) error
}

// Submission is one row of the Submissions table.
type Submission struct {
	Id             int64  `db:"Id"`
	CelestiaHeight uint64 `db:"CelestiaHeight"`
	StartIndex     uint64 `db:"StartIndex"`
	DataLen        uint64 `db:"DataLen"`
	Commitment     string `db:"Commitment"`
	DataRoot       string `db:"DataRoot"`
	BlockNumber    uint64 `db:"BlockNumber"`
	Nonce          uint64 `db:"Nonce"`
	Stage          string `db:"Stage"`
	Confirmed      bool   `db:"Confirmed"`
	TxHash         string `db:"TxHash"`
	Error          string `db:"Error"`
	CreatedAt      int64  `db:"CreatedAt"`
	UpdatedAt      int64  `db:"UpdatedAt"`
}

// Pointer rebuilds the blob pointer the row was recorded from.
func (s *Submission) Pointer() *types.BlobPointer {
	return &types.BlobPointer{
		Span: types.SequenceSpan{
			Height:     s.CelestiaHeight,
			StartIndex: s.StartIndex,
			DataLen:    s.DataLen,
		},
		Commitment: common.HexToHash(s.Commitment),
		DataRoot:   common.HexToHash(s.DataRoot),
	}
}

type SqliteDatabase struct {
	sqlDB *sqlx.DB
	lock  sync.Mutex
	now   func() time.Time
}

func NewDatabase(path string) (*SqliteDatabase, error) {
	//#nosec G304
	if _, err := os.Stat(path); err != nil {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := dbInit(db, schemaList); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteDatabase{sqlDB: db, now: time.Now}, nil
}

func dbInit(db *sqlx.DB, schemaList []string) error {
	version, err := fetchVersion(db)
	if err != nil {
		return err
	}
	for index, schema := range schemaList {
		if index+1 > version {
			if err := executeSchema(db, schema, index+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func fetchVersion(db *sqlx.DB) (int, error) {
	flagValue := make([]int, 0)
	err := db.Select(&flagValue, "SELECT FlagValue FROM Flags WHERE FlagName = 'CurrentVersion'")
	if err != nil {
		if !strings.Contains(err.Error(), "no such table") {
			return 0, err
		}
		if _, err = db.Exec(flagSetup); err != nil {
			return 0, err
		}
		if err = db.Select(&flagValue, "SELECT FlagValue FROM Flags WHERE FlagName = 'CurrentVersion'"); err != nil {
			return 0, err
		}
	}
	if len(flagValue) == 0 {
		return 0, errors.New("no version found")
	}
	return flagValue[0], nil
}

// executeSchema applies schema and bumps the version in one transaction.
func executeSchema(db *sqlx.DB, schema string, version int) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(schema); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err = tx.Exec("UPDATE Flags SET FlagValue = ? WHERE FlagName = 'CurrentVersion'", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// InsertSubmission records a freshly posted blob and returns its row id.
func (d *SqliteDatabase) InsertSubmission(ptr *types.BlobPointer, blockNumber uint64) (int64, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	query := `INSERT INTO Submissions (
		CelestiaHeight, StartIndex, DataLen, Commitment, DataRoot, BlockNumber, CreatedAt
	) VALUES (
		:CelestiaHeight, :StartIndex, :DataLen, :Commitment, :DataRoot, :BlockNumber, :CreatedAt
	)`
	params := map[string]interface{}{
		"CelestiaHeight": ptr.Span.Height,
		"StartIndex":     ptr.Span.StartIndex,
		"DataLen":        ptr.Span.DataLen,
		"Commitment":     common.Hash(ptr.Commitment).Hex(),
		"DataRoot":       common.Hash(ptr.DataRoot).Hex(),
		"BlockNumber":    blockNumber,
		"CreatedAt":      d.now().Unix(),
	}
	res, err := d.sqlDB.NamedExec(query, params)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateOutcome stores how far settlement of submission id got.
func (d *SqliteDatabase) UpdateOutcome(id int64, outcome *Outcome) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	errText := ""
	if outcome.Err != nil {
		errText = outcome.Err.Error()
	}
	txHash := ""
	if outcome.TxHash != (common.Hash{}) {
		txHash = outcome.TxHash.Hex()
	}
	query := `UPDATE Submissions SET
		Stage = :Stage, Nonce = :Nonce, Confirmed = :Confirmed, TxHash = :TxHash, Error = :Error, UpdatedAt = :UpdatedAt
	WHERE Id = :Id`
	params := map[string]interface{}{
		"Stage":     outcome.Stage,
		"Nonce":     outcome.Nonce,
		"Confirmed": outcome.Confirmed,
		"TxHash":    txHash,
		"Error":     errText,
		"UpdatedAt": d.now().Unix(),
		"Id":        id,
	}
	res, err := d.sqlDB.NamedExec(query, params)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrSubmissionNotFound, id)
	}
	return nil
}

func (d *SqliteDatabase) Submission(id int64) (*Submission, error) {
	var rows []*Submission
	if err := d.sqlDB.Select(&rows, "SELECT * FROM Submissions WHERE Id = ?", id); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: id %d", ErrSubmissionNotFound, id)
	}
	return rows[0], nil
}

// SubmissionsAtHeight lists every submission posted at a Celestia height, oldest first.
func (d *SqliteDatabase) SubmissionsAtHeight(height uint64) ([]*Submission, error) {
	rows := make([]*Submission, 0)
	err := d.sqlDB.Select(&rows, "SELECT * FROM Submissions WHERE CelestiaHeight = ? ORDER BY Id", height)
	return rows, err
}

func (d *SqliteDatabase) Close() error {
	return d.sqlDB.Close()
}
