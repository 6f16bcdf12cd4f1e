package mocks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync/atomic"
)

var errNoQueries = errors.New("mocks: TxDB does not execute queries")

// TxDB wraps a *sql.DB backed by a driver that only supports transactions.
type TxDB struct {
	*sql.DB
	commits   atomic.Int64
	rollbacks atomic.Int64
	BeginErr  error
}

// NewTxDB creates a TxDB.
func NewTxDB() *TxDB {
	t := &TxDB{}
	t.DB = sql.OpenDB(txConnector{db: t})
	return t
}

// Commits returns the number of committed transactions.
func (t *TxDB) Commits() int64 { return t.commits.Load() }

// Rollbacks returns the number of rolled back transactions.
func (t *TxDB) Rollbacks() int64 { return t.rollbacks.Load() }

type txConnector struct{ db *TxDB }

func (c txConnector) Connect(context.Context) (driver.Conn, error) { return &txConn{db: c.db}, nil }
func (c txConnector) Driver() driver.Driver                        { return txDriver{c} }

type txDriver struct{ c txConnector }

func (d txDriver) Open(string) (driver.Conn, error) { return &txConn{db: d.c.db}, nil }

type txConn struct{ db *TxDB }

func (c *txConn) Prepare(string) (driver.Stmt, error) { return nil, errNoQueries }
func (c *txConn) Close() error                        { return nil }

func (c *txConn) Begin() (driver.Tx, error) {
	if c.db.BeginErr != nil {
		return nil, c.db.BeginErr
	}
	return &tx{db: c.db}, nil
}

type tx struct{ db *TxDB }

func (t *tx) Commit() error {
	t.db.commits.Add(1)
	return nil
}

func (t *tx) Rollback() error {
	t.db.rollbacks.Add(1)
	return nil
}
