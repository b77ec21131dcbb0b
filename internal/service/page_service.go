package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rango/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageInvalid  = errors.New("page title and url are required")
)

// PageService provides access to pages filed under categories.
type PageService struct {
	db *gorm.DB
}

// PageInput represents fields accepted when creating a page.
type PageInput struct {
	Title string
	URL   string
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// TopByViews returns the most viewed pages across all categories.
func (s *PageService) TopByViews(limit int) ([]db.Page, error) {
	query := s.db.Model(&db.Page{}).Order("views desc").Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var pages []db.Page
	if err := query.Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// ListByCategory returns every page that belongs to the category, most viewed first.
func (s *PageService) ListByCategory(categoryID uint) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Where("category_id = ?", categoryID).
		Order("views desc").
		Order("id asc").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list category pages: %w", err)
	}
	return pages, nil
}

// Create files a new page under the category with a zero view count.
func (s *PageService) Create(category *db.Category, input PageInput) (*db.Page, error) {
	if category == nil || category.ID == 0 {
		return nil, ErrCategoryNotFound
	}

	title := strings.TrimSpace(input.Title)
	url := strings.TrimSpace(input.URL)
	if title == "" || url == "" {
		return nil, ErrPageInvalid
	}

	page := db.Page{
		CategoryID: category.ID,
		Title:      title,
		URL:        url,
		Views:      0,
	}
	if err := s.db.Omit(clause.Associations).Create(&page).Error; err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &page, nil
}

// RecordVisit increments the page view counter and returns the updated page.
func (s *PageService) RecordVisit(id uint) (*db.Page, error) {
	var page db.Page
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Page{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPageNotFound
		}
		return tx.First(&page, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("record page visit: %w", err)
	}
	return &page, nil
}
