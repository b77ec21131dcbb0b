package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rango/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryName     = errors.New("category name is required")
	ErrCategorySlug     = errors.New("category name has no url-safe characters")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// TopByLikes 返回点赞数最多的分类，limit <= 0 时返回全部
func (s *CategoryService) TopByLikes(limit int) ([]db.Category, error) {
	query := s.db.Model(&db.Category{}).Order("likes desc").Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var categories []db.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetBySlug 根据 slug 查找分类
func (s *CategoryService) GetBySlug(slug string) (*db.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrCategoryNotFound
	}

	var category db.Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// Create 新建分类，名称或 slug 与已有分类冲突时返回 ErrCategoryExists
func (s *CategoryService) Create(name string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryName
	}
	slug := db.MakeSlug(name)
	if slug == "" {
		return nil, ErrCategorySlug
	}

	var count int64
	if err := s.db.Model(&db.Category{}).
		Where("name = ? OR slug = ?", name, slug).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name}
	if err := createCategory(s.db, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// createCategory 写入分类；并发创建撞上唯一索引时同样返回 ErrCategoryExists
func createCategory(tx *gorm.DB, category *db.Category) error {
	if err := tx.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCategoryExists
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Like 将分类点赞数加一并返回最新值
func (s *CategoryService) Like(id uint) (int, error) {
	return s.increment(id, "likes")
}

// RecordView 将分类浏览数加一并返回最新值
func (s *CategoryService) RecordView(id uint) (int, error) {
	return s.increment(id, "views")
}

func (s *CategoryService) increment(id uint, column string) (int, error) {
	var category db.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&db.Category{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("update category %s: %w", column, err)
	}

	if column == "views" {
		return category.Views, nil
	}
	return category.Likes, nil
}
