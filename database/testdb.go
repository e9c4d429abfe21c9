package database

import (
	"fmt"
	"log"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDbSeq atomic.Int64

// ConnectTestDb opens a fresh in-memory SQLite database, runs migrations and
// installs it as the global instance. Used by package tests only.
func ConnectTestDb() *gorm.DB {
	// A named shared-cache DB keeps all pooled connections on the same
	// in-memory database; the sequence isolates tests from each other.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}

	RunMigrations(db)
	Database = DbInstance{Db: db}
	return db
}
