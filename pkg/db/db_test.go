package db

import (
	"sync"
	"testing"

	"liyu1981.xyz/medical-device-tracker/pkg/common"
	_ "liyu1981.xyz/medical-device-tracker/pkg/testing"

	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	if !tableExists(instance.Conn, "snapshots") {
		t.Errorf("Expected table %q to exist after migration", "snapshots")
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instance := GetInstance(UseMemorySqliteDialector())
			instances <- instance
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestPostgresDialectorReadsDSN(t *testing.T) {
	t.Setenv(common.EnvKeyPostgresDSN, "host=localhost user=tracker dbname=tracker sslmode=disable")

	if name := UsePostgresDialector().Name(); name != "postgres" {
		t.Errorf("Expected postgres dialector, got %q", name)
	}
}
