package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// --- Mock DBTX ---

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// --- Mock Row ---

type mockRow struct {
	scanErr error
	scanFn  func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.scanFn != nil {
		return r.scanFn(dest...)
	}
	return r.scanErr
}

// --- Mock Rows ---

// stringMockRows implements pgx.Rows for queries returning rows that the
// test populates via scanFns, one per row.
type stringMockRows struct {
	scanFns []func(dest ...any) error
	idx     int
	errVal  error
}

func (r *stringMockRows) Next() bool {
	r.idx++
	return r.idx <= len(r.scanFns)
}

func (r *stringMockRows) Scan(dest ...any) error {
	return r.scanFns[r.idx-1](dest...)
}

func (r *stringMockRows) Close()     {}
func (r *stringMockRows) Err() error { return r.errVal }

func (r *stringMockRows) CommandTag() pgconn.CommandTag           { return pgconn.CommandTag{} }
func (r *stringMockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stringMockRows) Values() ([]any, error)                  { return nil, nil }
func (r *stringMockRows) RawValues() [][]byte                     { return nil }
func (r *stringMockRows) Conn() *pgx.Conn                         { return nil }
