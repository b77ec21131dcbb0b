package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rango/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return gdb
}

func seedCategory(t *testing.T, gdb *gorm.DB, name string, likes int) db.Category {
	t.Helper()
	category := db.Category{Name: name, Likes: likes}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return category
}

func seedPage(t *testing.T, gdb *gorm.DB, category db.Category, title string, views int) db.Page {
	t.Helper()
	page := db.Page{CategoryID: category.ID, Title: title, URL: "http://example.com/" + title, Views: views}
	if err := gdb.Omit("Category").Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page %s: %v", title, err)
	}
	return page
}
