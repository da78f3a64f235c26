package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reddwarf-io/reddwarf/config"
	"github.com/reddwarf-io/reddwarf/database/internal/mocks"
	"github.com/reddwarf-io/reddwarf/database/types"
)

func TestNewConnectionInMemory(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Type: types.VendorSQLite,
		Path: MemoryPath,
		Pool: config.PoolConfig{Max: config.PoolMaxConfig{Connections: 10}},
	}

	conn, err := NewConnection(cfg, &mocks.Logger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	assert.Equal(t, types.VendorSQLite, conn.DatabaseType())
	assert.Equal(t, types.MySQL, conn.Dialect())
	assert.Equal(t, 1, conn.DB().Stats().MaxOpenConnections)
	assert.Equal(t, int32(10), cfg.Pool.Max.Connections, "caller config must not be modified")

	ctx := context.Background()
	_, err = conn.Exec(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "INSERT INTO items (id, name) VALUES (?, ?)", 1, "a")
	require.NoError(t, err)

	var name string
	require.NoError(t, conn.DB().QueryRowContext(ctx, "SELECT name FROM items WHERE id = ?", 1).Scan(&name))
	assert.Equal(t, "a", name)
	require.NoError(t, conn.Health(ctx))
}

func TestNewConnectionFile(t *testing.T) {
	path := t.TempDir() + "/app.db"

	conn, err := NewConnection(&config.DatabaseConfig{Type: types.VendorSQLite, Path: path}, &mocks.Logger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Health(context.Background()))
}

func TestNewConnectionEmptyPath(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: types.VendorSQLite}, &mocks.Logger{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is empty")
}
