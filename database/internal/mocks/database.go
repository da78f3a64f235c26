package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/reddwarf-io/reddwarf/database/types"
)

// MockDatabase is a testify mock of types.Interface.
//
//	db := &mocks.MockDatabase{}
//	db.On("Begin", mock.Anything).Return(nil, errors.New("pool exhausted"))
type MockDatabase struct {
	mock.Mock
}

var _ types.Interface = (*MockDatabase)(nil)

func (m *MockDatabase) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	arguments := m.Called(append([]any{ctx, query}, args...)...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

func (m *MockDatabase) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	arguments := m.Called(append([]any{ctx, query}, args...)...)
	res, _ := arguments.Get(0).(sql.Result)
	return res, arguments.Error(1)
}

func (m *MockDatabase) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	arguments := m.Called(ctx, query)
	stmt, _ := arguments.Get(0).(types.PreparedStatement)
	return stmt, arguments.Error(1)
}

func (m *MockDatabase) Begin(ctx context.Context) (types.Tx, error) {
	arguments := m.Called(ctx)
	tx, _ := arguments.Get(0).(types.Tx)
	return tx, arguments.Error(1)
}

func (m *MockDatabase) BeginTx(ctx context.Context, opts *sql.TxOptions) (types.Tx, error) {
	arguments := m.Called(ctx, opts)
	tx, _ := arguments.Get(0).(types.Tx)
	return tx, arguments.Error(1)
}

func (m *MockDatabase) Health(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDatabase) Stats() (map[string]any, error) {
	arguments := m.Called()
	stats, _ := arguments.Get(0).(map[string]any)
	return stats, arguments.Error(1)
}

func (m *MockDatabase) Close() error {
	return m.Called().Error(0)
}

func (m *MockDatabase) DatabaseType() string {
	return m.Called().String(0)
}

func (m *MockDatabase) Dialect() types.Dialect {
	return m.Called().Get(0).(types.Dialect)
}

// MockTx is a testify mock of types.Tx.
type MockTx struct {
	mock.Mock
}

var _ types.Tx = (*MockTx)(nil)

func (m *MockTx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	arguments := m.Called(append([]any{ctx, query}, args...)...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

func (m *MockTx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	arguments := m.Called(append([]any{ctx, query}, args...)...)
	res, _ := arguments.Get(0).(sql.Result)
	return res, arguments.Error(1)
}

func (m *MockTx) Prepare(ctx context.Context, query string) (types.PreparedStatement, error) {
	arguments := m.Called(ctx, query)
	stmt, _ := arguments.Get(0).(types.PreparedStatement)
	return stmt, arguments.Error(1)
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// MockStatement is a testify mock of types.PreparedStatement.
type MockStatement struct {
	mock.Mock
}

var _ types.PreparedStatement = (*MockStatement)(nil)

func (m *MockStatement) Query(ctx context.Context, args ...any) (*sql.Rows, error) {
	arguments := m.Called(append([]any{ctx}, args...)...)
	rows, _ := arguments.Get(0).(*sql.Rows)
	return rows, arguments.Error(1)
}

func (m *MockStatement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	arguments := m.Called(append([]any{ctx}, args...)...)
	res, _ := arguments.Get(0).(sql.Result)
	return res, arguments.Error(1)
}

func (m *MockStatement) Close() error {
	return m.Called().Error(0)
}
