package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	icommon "github.com/groupwallet/gate/internal/common"
	"github.com/groupwallet/gate/pkg/multisig"
)

type ExecutionDB struct {
	suffix string
	db     *sql.DB
	rdb    *sql.DB
}

// NewExecutionDB creates a new DB
func NewExecutionDB(db, rdb *sql.DB, suffix string) (*ExecutionDB, error) {
	return &ExecutionDB{
		suffix: suffix,
		db:     db,
		rdb:    rdb,
	}, nil
}

// CreateExecutionTable creates a table to store execution records in the given db
func (db *ExecutionDB) CreateExecutionTable() error {
	_, err := db.db.Exec(fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS t_executions_%s(
		target text NOT NULL,
		signature text NOT NULL,
		args text NOT NULL,
		value text NOT NULL,
		created_at timestamp NOT NULL,
		executor text NOT NULL,
		executed_at timestamp NOT NULL,
		success boolean NOT NULL,
		data text NOT NULL
	);
	`, db.suffix))

	return err
}

// CreateExecutionTableIndexes creates the indexes for execution records in the given db
func (db *ExecutionDB) CreateExecutionTableIndexes() error {
	suffix := icommon.ShortenName(db.suffix, 6)

	_, err := db.db.Exec(fmt.Sprintf(`
	CREATE INDEX IF NOT EXISTS idx_executions_%s_executed_at ON t_executions_%s (executed_at);
	`, suffix, db.suffix))
	if err != nil {
		return err
	}

	// filtering by target
	_, err = db.db.Exec(fmt.Sprintf(`
	CREATE INDEX IF NOT EXISTS idx_executions_%s_target ON t_executions_%s (target);
	`, suffix, db.suffix))
	if err != nil {
		return err
	}

	return nil
}

func (db *ExecutionDB) ensureExists() error {
	if err := db.CreateExecutionTable(); err != nil {
		return err
	}

	return db.CreateExecutionTableIndexes()
}

// AddExecution adds an execution record to the db
func (db *ExecutionDB) AddExecution(r *multisig.ExecutionRecord) error {
	args, err := json.Marshal(r.Args)
	if err != nil {
		return err
	}

	_, err = db.db.Exec(fmt.Sprintf(`
	INSERT INTO t_executions_%s (target, signature, args, value, created_at, executor, executed_at, success, data)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, db.suffix), r.Target.Hex(), r.Signature, string(args), r.Value.String(), r.CreatedAt, r.Executor.Hex(), r.ExecutedAt, r.Success, hexutil.Encode(r.Data))

	return err
}

// GetExecutions returns the most recent execution records
func (db *ExecutionDB) GetExecutions(limit, offset int) ([]*multisig.ExecutionRecord, int, error) {
	var total int
	err := db.rdb.QueryRow(fmt.Sprintf(`
	SELECT COUNT(*) FROM t_executions_%s
	`, db.suffix)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.rdb.Query(fmt.Sprintf(`
	SELECT target, signature, args, value, created_at, executor, executed_at, success, data
	FROM t_executions_%s
	ORDER BY executed_at DESC
	LIMIT $1 OFFSET $2
	`, db.suffix), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recs := []*multisig.ExecutionRecord{}
	for rows.Next() {
		rec, err := scanExecution(rows)
		if err != nil {
			return nil, 0, err
		}

		recs = append(recs, rec)
	}

	return recs, total, nil
}

func scanExecution(rows *sql.Rows) (*multisig.ExecutionRecord, error) {
	var rec multisig.ExecutionRecord
	var target, args, value, executor, data string

	err := rows.Scan(&target, &rec.Signature, &args, &value, &rec.CreatedAt, &executor, &rec.ExecutedAt, &rec.Success, &data)
	if err != nil {
		return nil, err
	}

	rec.Target = common.HexToAddress(target)
	rec.Executor = common.HexToAddress(executor)

	if err := json.Unmarshal([]byte(args), &rec.Args); err != nil {
		return nil, err
	}

	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid value in execution record: %s", value)
	}
	rec.Value = v

	d, err := hexutil.Decode(data)
	if err != nil {
		return nil, err
	}
	rec.Data = d

	return &rec, nil
}
