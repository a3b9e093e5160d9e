package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"crowdfund/internal/models"

	"gorm.io/gorm"
)

type captureWriter struct {
	lines []string
}

func (w *captureWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	w := &captureWriter{}
	l := newGormLogger(w)
	query := func() (string, int64) { return "SELECT * FROM id_counters", 0 }

	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	if len(w.lines) != 0 {
		t.Fatalf("expected record-not-found to be silent, got %q", w.lines)
	}

	l.Trace(context.Background(), time.Now(), query, errors.New("disk I/O error"))
	if len(w.lines) != 1 {
		t.Errorf("expected one logged error, got %d", len(w.lines))
	}
}

func TestOpenMigrateAndSeed(t *testing.T) {
	db, err := Open("sqlite", "file:database_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedCategories(db); err != nil {
			t.Fatalf("SeedCategories failed: %v", err)
		}
	}

	var count int64
	db.Table("categories").Count(&count)
	if count != int64(len(models.CategoryNames)) {
		t.Errorf("expected %d categories after reseeding, got %d", len(models.CategoryNames), count)
	}

	if _, err := Open("mysql", ""); err == nil {
		t.Error("expected an error for an unsupported driver")
	}
}
