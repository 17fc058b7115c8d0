package infra

import (
	"testing"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "inventario.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"data.db", "data.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x?mode=memory", "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"data.db?_pragma=journal_mode(WAL)", "data.db?_pragma=journal_mode(WAL)"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sqliteDSN(tc.in), tc.in)
	}
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase("mysql", "x")
	assert.Error(t, err)
}

func TestNewDatabase_SqliteMigratesAndIsIdempotent(t *testing.T) {
	db, err := NewDatabase("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	require.NoError(t, RunMigrations(db), "migrations run twice without error")
}
