package database

import (
	"io/fs"
	"testing"

	"clinic-scheduling/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL_EscapesCredentials(t *testing.T) {
	got := migrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "p@ss/word",
		Name:     "scheduling",
	})

	assert.Equal(t, "pgx5://clinic:p%40ss%2Fword@db:5432/scheduling?sslmode=disable", got)
}

func TestMigrationFiles_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.Len(t, ups, 4)
	assert.Len(t, downs, len(ups))
}

func TestDSN_UsesConfiguredTimeZone(t *testing.T) {
	got := dsn(config.DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", TimeZone: "UTC"})

	assert.Contains(t, got, "TimeZone=UTC")
	assert.Contains(t, got, "dbname=n")
}
