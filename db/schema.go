// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package db

var (
	flagSetup = `
CREATE TABLE IF NOT EXISTS Flags (
	FlagName TEXT NOT NULL PRIMARY KEY,
	FlagValue INTEGER NOT NULL
);
INSERT OR IGNORE INTO Flags (FlagName, FlagValue) VALUES ('CurrentVersion', 0);
`
	version1 = `
CREATE TABLE IF NOT EXISTS Submissions (
	Id INTEGER PRIMARY KEY AUTOINCREMENT,
	CelestiaHeight INTEGER NOT NULL,
	StartIndex INTEGER NOT NULL,
	DataLen INTEGER NOT NULL,
	Commitment TEXT NOT NULL,
	DataRoot TEXT NOT NULL,
	BlockNumber INTEGER NOT NULL,
	Stage TEXT NOT NULL DEFAULT 'posted',
	Confirmed BOOLEAN NOT NULL DEFAULT FALSE,
	TxHash TEXT NOT NULL DEFAULT '',
	Error TEXT NOT NULL DEFAULT '',
	CreatedAt INTEGER NOT NULL
);
CREATE INDEX idx_submissions_height ON Submissions(CelestiaHeight);
`
	version2 = `
ALTER TABLE Submissions ADD COLUMN Nonce INTEGER NOT NULL DEFAULT 0;
ALTER TABLE Submissions ADD COLUMN UpdatedAt INTEGER NOT NULL DEFAULT 0;
`
	schemaList = []string{version1, version2}
)
