package database

import (
	"testing"

	"moneybook/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock, func() { sqlDB.Close() }
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(config.DatabaseConfig{
		Host: "db", Port: "3306", Username: "root", Password: "pw", DBName: "moneybook",
	})
	assert.Equal(t, "root:pw@tcp(db:3306)/moneybook?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", dsn)
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{
		Host: "pg", Port: "5432", Username: "app", Password: "pw", DBName: "moneybook",
	})
	assert.Equal(t, "host=pg port=5432 user=app password=pw dbname=moneybook sslmode=disable", dsn)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.DatabaseConfig{Driver: "mysql"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir() + "/data/test.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)

	_, err = Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedCategories(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories` WHERE user_id IS NULL").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").WillReturnResult(sqlmock.NewResult(1, 9))
	mock.ExpectCommit()

	require.NoError(t, SeedCategories(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedCategories_AlreadySeeded(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	require.NoError(t, SeedCategories(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
