package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"peerprep/interview/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	openSQLite = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	}
	migrateSchema       = func(db *gorm.DB) error { return db.AutoMigrate(models.All()...) }
	dropQuestionTableFn = func(db *gorm.DB) error { return db.Migrator().DropTable(&models.Question{}) }
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	// one connection keeps the in-memory database alive and serialises
	// writers the way a row lock would
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })
	}
	return db
}

// DropQuestionTable removes the questions table to force repository errors.
func DropQuestionTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := dropQuestionTableFn(db); err != nil {
		panic(fmt.Sprintf("failed to drop question table: %v", err))
	}
}
