package db

import (
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	icommon "github.com/groupwallet/gate/internal/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

type FundingDB struct {
	suffix string
	db     *sql.DB
	rdb    *sql.DB
}

// NewFundingDB creates a new DB
func NewFundingDB(db, rdb *sql.DB, suffix string) (*FundingDB, error) {
	return &FundingDB{
		suffix: suffix,
		db:     db,
		rdb:    rdb,
	}, nil
}

// CreateFundingTable creates a table to store funding records in the given db
func (db *FundingDB) CreateFundingTable() error {
	_, err := db.db.Exec(fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS t_fundings_%s(
		giver text NOT NULL,
		amount text NOT NULL,
		created_at timestamp NOT NULL
	);
	`, db.suffix))

	return err
}

// CreateFundingTableIndexes creates the indexes for funding records in the given db
func (db *FundingDB) CreateFundingTableIndexes() error {
	suffix := icommon.ShortenName(db.suffix, 6)

	_, err := db.db.Exec(fmt.Sprintf(`
	CREATE INDEX IF NOT EXISTS idx_fundings_%s_created_at ON t_fundings_%s (created_at);
	`, suffix, db.suffix))
	if err != nil {
		return err
	}

	_, err = db.db.Exec(fmt.Sprintf(`
	CREATE INDEX IF NOT EXISTS idx_fundings_%s_giver ON t_fundings_%s (giver);
	`, suffix, db.suffix))
	if err != nil {
		return err
	}

	return nil
}

func (db *FundingDB) ensureExists() error {
	if err := db.CreateFundingTable(); err != nil {
		return err
	}

	return db.CreateFundingTableIndexes()
}

// AddFunding adds a funding record to the db
func (db *FundingDB) AddFunding(r *multisig.FundingRecord) error {
	_, err := db.db.Exec(fmt.Sprintf(`
	INSERT INTO t_fundings_%s (giver, amount, created_at)
	VALUES ($1, $2, $3)
	`, db.suffix), r.Giver.Hex(), r.Amount.String(), r.CreatedAt)

	return err
}

// GetFundings returns the most recent funding records
func (db *FundingDB) GetFundings(limit, offset int) ([]*multisig.FundingRecord, int, error) {
	var total int
	err := db.rdb.QueryRow(fmt.Sprintf(`
	SELECT COUNT(*) FROM t_fundings_%s
	`, db.suffix)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.rdb.Query(fmt.Sprintf(`
	SELECT giver, amount, created_at
	FROM t_fundings_%s
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
	`, db.suffix), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recs := []*multisig.FundingRecord{}
	for rows.Next() {
		var rec multisig.FundingRecord
		var giver, amount string

		if err := rows.Scan(&giver, &amount, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}

		rec.Giver = common.HexToAddress(giver)

		a, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, 0, fmt.Errorf("invalid amount in funding record: %s", amount)
		}
		rec.Amount = a

		recs = append(recs, &rec)
	}

	return recs, total, nil
}
