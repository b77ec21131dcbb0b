package service

import (
	"errors"
	"testing"

	"github.com/rango/internal/db"
)

func TestTopByViewsAcrossCategories(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	python := seedCategory(t, gdb, "Python", 0)
	django := seedCategory(t, gdb, "Django", 0)
	seedPage(t, gdb, python, "a", 5)
	seedPage(t, gdb, django, "b", 50)
	seedPage(t, gdb, python, "c", 20)
	seedPage(t, gdb, django, "d", 1)
	seedPage(t, gdb, python, "e", 30)
	seedPage(t, gdb, django, "f", 40)

	pages, err := svc.TopByViews(5)
	if err != nil {
		t.Fatalf("TopByViews returned error: %v", err)
	}

	want := []string{"b", "f", "e", "c", "a"}
	if len(pages) != len(want) {
		t.Fatalf("expected %d pages, got %d", len(want), len(pages))
	}
	for i, page := range pages {
		if page.Title != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], page.Title)
		}
	}
}

func TestListByCategoryOnlyReturnsOwnPages(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)

	python := seedCategory(t, gdb, "Python", 0)
	django := seedCategory(t, gdb, "Django", 0)
	seedPage(t, gdb, python, "tutorial", 1)
	seedPage(t, gdb, python, "docs", 9)
	seedPage(t, gdb, django, "django-docs", 100)

	pages, err := svc.ListByCategory(python.ID)
	if err != nil {
		t.Fatalf("ListByCategory returned error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 python pages, got %d", len(pages))
	}
	if pages[0].Title != "docs" {
		t.Fatalf("expected most viewed page first, got %s", pages[0].Title)
	}

	empty, err := svc.ListByCategory(9999)
	if err != nil {
		t.Fatalf("ListByCategory returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no pages, got %d", len(empty))
	}
}

func TestCreatePageStartsWithZeroViews(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)
	python := seedCategory(t, gdb, "Python", 0)

	page, err := svc.Create(&python, PageInput{Title: " Official Tutorial ", URL: "http://docs.python.org/3/tutorial/"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if page.Views != 0 || page.CategoryID != python.ID {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Title != "Official Tutorial" {
		t.Fatalf("expected trimmed title, got %q", page.Title)
	}

	var categories int64
	gdb.Model(&db.Category{}).Count(&categories)
	if categories != 1 {
		t.Fatalf("creating a page must not create categories, found %d", categories)
	}
}

func TestCreatePageRequiresCategory(t *testing.T) {
	svc := NewPageService(setupServiceTestDB(t))

	if _, err := svc.Create(nil, PageInput{Title: "x", URL: "http://x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := svc.Create(&db.Category{}, PageInput{Title: "x", URL: "http://x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for unsaved category, got %v", err)
	}
}

func TestCreatePageRejectsBlankFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)
	python := seedCategory(t, gdb, "Python", 0)

	if _, err := svc.Create(&python, PageInput{Title: " ", URL: "http://x"}); !errors.Is(err, ErrPageInvalid) {
		t.Fatalf("expected ErrPageInvalid, got %v", err)
	}
}

func TestRecordVisit(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewPageService(gdb)
	python := seedCategory(t, gdb, "Python", 0)
	page := seedPage(t, gdb, python, "docs", 41)

	visited, err := svc.RecordVisit(page.ID)
	if err != nil {
		t.Fatalf("RecordVisit returned error: %v", err)
	}
	if visited.Views != 42 {
		t.Fatalf("expected 42 views, got %d", visited.Views)
	}
	if visited.URL != page.URL {
		t.Fatalf("expected url %q, got %q", page.URL, visited.URL)
	}

	if _, err := svc.RecordVisit(page.ID + 100); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}
