package db

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/groupwallet/gate/internal/storage"
	"github.com/groupwallet/gate/pkg/multisig"
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbBaseFolder   = "data"
	dbConfigString = "cache=private&_journal=WAL&mode=rwc&_txlock=immediate&_busy_timeout=10000"
)

// DB aggregates the wallet's record tables. The suffix is the wallet
// address, so several wallets can share one database.
type DB struct {
	suffix string
	mu     sync.Mutex
	db     *sql.DB
	rdb    *sql.DB

	ExecutionDB *ExecutionDB
	FundingDB   *FundingDB
}

// NewDB instantiates a sqlite backed DB for local mode
func NewDB(suffix, basePath string) (*DB, error) {
	folderPath := fmt.Sprintf("%s/%s", basePath, dbBaseFolder)
	path := fmt.Sprintf("%s/gate.db", folderPath)

	if !storage.Exists(folderPath) {
		err := storage.CreateDir(folderPath)
		if err != nil {
			return nil, err
		}
	}

	sqldb, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, dbConfigString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = sqldb.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqldb.SetMaxOpenConns(1)

	return newDB(suffix, sqldb, sqldb)
}

func newDB(suffix string, sqldb, rdb *sql.DB) (*DB, error) {
	executionDB, err := NewExecutionDB(sqldb, rdb, suffix)
	if err != nil {
		return nil, err
	}

	fundingDB, err := NewFundingDB(sqldb, rdb, suffix)
	if err != nil {
		return nil, err
	}

	d := &DB{
		suffix:      suffix,
		db:          sqldb,
		rdb:         rdb,
		ExecutionDB: executionDB,
		FundingDB:   fundingDB,
	}

	if err := executionDB.ensureExists(); err != nil {
		return nil, err
	}

	if err := fundingDB.ensureExists(); err != nil {
		return nil, err
	}

	return d, nil
}

// AddExecution implements multisig.RecordStore
func (d *DB) AddExecution(r *multisig.ExecutionRecord) error {
	return d.ExecutionDB.AddExecution(r)
}

// AddFunding implements multisig.RecordStore
func (d *DB) AddFunding(r *multisig.FundingRecord) error {
	return d.FundingDB.AddFunding(r)
}

// Close closes the db and the read db
func (d *DB) Close() error {
	if d.rdb != d.db {
		if err := d.rdb.Close(); err != nil {
			return err
		}
	}

	return d.db.Close()
}
