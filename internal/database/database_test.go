package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/pkg/config"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.DatabaseConfig
		wantErr     bool
		checkResult func(*testing.T, *DB)
	}{
		{
			name: "in-memory database",
			cfg:  config.DatabaseConfig{Path: ":memory:"},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NotNil(t, conn.DB)
				assert.Equal(t, "sqlite", conn.Dialect())
			},
		},
		{
			name: "file database in a nested directory",
			cfg:  config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "nested", "fraza.db")},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NoError(t, conn.HealthCheck(context.Background()))
			},
		},
		{
			name: "empty path creates in-memory database",
			cfg:  config.DatabaseConfig{},
			checkResult: func(t *testing.T, conn *DB) {
				assert.NotNil(t, conn)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer conn.Close()

			if tt.checkResult != nil {
				tt.checkResult(t, conn)
			}
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func() (*DB, func())
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				return conn, func() { conn.Close() }
			},
		},
		{
			name: "closed connection",
			setupConn: func() (*DB, func()) {
				conn, _ := Initialize(config.DatabaseConfig{Path: ":memory:"})
				conn.Close()
				return conn, func() {}
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func() (*DB, func()) {
				return nil, func() {}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, cleanup := tt.setupConn()
			defer cleanup()

			err := conn.HealthCheck(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_MigrateAndStatus(t *testing.T) {
	conn, err := Initialize(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	before, err := conn.Status()
	require.NoError(t, err)
	require.Len(t, before, 3)
	for _, s := range before {
		assert.False(t, s.Exists, s.Table)
	}

	require.NoError(t, conn.Migrate(zap.NewNop()))
	// Idempotent
	require.NoError(t, conn.Migrate(zap.NewNop()))

	after, err := conn.Status()
	require.NoError(t, err)
	tables := make([]string, 0, len(after))
	for _, s := range after {
		assert.True(t, s.Exists, s.Table)
		tables = append(tables, s.Table)
	}
	assert.Equal(t, []string{"scripts", "script_chunks", "user_profiles"}, tables)
}
