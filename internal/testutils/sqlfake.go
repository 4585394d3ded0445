// Package testutils provides test doubles shared by several packages.
package testutils

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
)

// FakeSQL is a database/sql backend that records statements instead of
// running them, so transaction handling can be tested without PostgreSQL.
// The first argument of every statement is recorded as its key.
type FakeSQL struct {
	mu        sync.Mutex
	beginErr  error
	failKey   string
	execErr   error
	keys      []string
	commits   int
	rollbacks int
}

// NewFakeSQL returns an empty FakeSQL.
func NewFakeSQL() *FakeSQL {
	return &FakeSQL{}
}

// DB opens a *sql.DB backed by f.
func (f *FakeSQL) DB() *sql.DB {
	return sql.OpenDB(fakeConnector{f})
}

// FailBegin makes every new transaction fail with err.
func (f *FakeSQL) FailBegin(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beginErr = err
}

// FailKey makes statements whose key is key fail with err.
func (f *FakeSQL) FailKey(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failKey, f.execErr = key, err
}

// Keys returns the keys of executed statements in order.
func (f *FakeSQL) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

// Commits returns the number of committed transactions.
func (f *FakeSQL) Commits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

// Rollbacks returns the number of rolled back transactions.
func (f *FakeSQL) Rollbacks() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rollbacks
}

type fakeConnector struct{ f *FakeSQL }

func (c fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeConn{f: c.f}, nil
}

func (c fakeConnector) Driver() driver.Driver { return fakeDriver{c.f} }

type fakeDriver struct{ f *FakeSQL }

func (d fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{f: d.f}, nil }

type fakeConn struct{ f *FakeSQL }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{f: c.f}, nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	if c.f.beginErr != nil {
		return nil, c.f.beginErr
	}
	return fakeTx{c.f}, nil
}

type fakeTx struct{ f *FakeSQL }

func (t fakeTx) Commit() error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.commits++
	return nil
}

func (t fakeTx) Rollback() error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.rollbacks++
	return nil
}

type fakeStmt struct{ f *FakeSQL }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()

	var key string
	if len(args) > 0 {
		key, _ = args[0].(string)
	}
	if s.f.execErr != nil && key == s.f.failKey {
		return nil, s.f.execErr
	}
	s.f.keys = append(s.f.keys, key)
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("testutils: queries are not supported")
}
