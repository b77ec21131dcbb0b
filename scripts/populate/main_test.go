package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rango/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPopulateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:populate-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestPopulateSeedsTutorialData(t *testing.T) {
	gdb := setupPopulateTestDB(t)

	var out bytes.Buffer
	if err := populate(gdb, &out); err != nil {
		t.Fatalf("populate returned error: %v", err)
	}

	var categories []db.Category
	if err := gdb.Order("likes desc").Find(&categories).Error; err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	if categories[0].Slug != "python" || categories[2].Slug != "other-frameworks" {
		t.Fatalf("unexpected category order/slugs: %s, %s", categories[0].Slug, categories[2].Slug)
	}

	var pages int64
	gdb.Model(&db.Page{}).Count(&pages)
	if pages != 8 {
		t.Fatalf("expected 8 pages, got %d", pages)
	}

	if !strings.Contains(out.String(), "- Django: How to Tango with Django") {
		t.Fatalf("expected summary output, got %q", out.String())
	}
}

func TestPopulateIsIdempotent(t *testing.T) {
	gdb := setupPopulateTestDB(t)

	for i := 0; i < 2; i++ {
		if err := populate(gdb, &bytes.Buffer{}); err != nil {
			t.Fatalf("populate run %d returned error: %v", i+1, err)
		}
	}

	var categories, pages int64
	gdb.Model(&db.Category{}).Count(&categories)
	gdb.Model(&db.Page{}).Count(&pages)
	if categories != 3 || pages != 8 {
		t.Fatalf("expected 3 categories and 8 pages after rerun, got %d and %d", categories, pages)
	}
}
