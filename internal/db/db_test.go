package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestRunMigrationsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0002_second.up.sql", "CREATE TABLE second (id INT);")
	writeMigration(t, dir, "0001_first.up.sql", "CREATE TABLE first (id INT);")
	writeMigration(t, dir, "0001_first.down.sql", "DROP TABLE first;")
	writeMigration(t, dir, "0003_blank.up.sql", "   \n")

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(q("CREATE TABLE first")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("CREATE TABLE second")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), sqlx.NewDb(mockDB, "sqlmock"), dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnError(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0001_first.up.sql", "CREATE TABLE first (id INT);")
	writeMigration(t, dir, "0002_second.up.sql", "CREATE TABLE second (id INT);")

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(q("CREATE TABLE first")).WillReturnError(errors.New("syntax error"))

	err = RunMigrations(context.Background(), sqlx.NewDb(mockDB, "sqlmock"), dir)
	assert.ErrorContains(t, err, "0001_first.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsEmptyDir(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	assert.NoError(t, RunMigrations(context.Background(), sqlx.NewDb(mockDB, "sqlmock"), t.TempDir()))
}

func TestInitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Init(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
