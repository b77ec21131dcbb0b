package db

import "gorm.io/gorm"

const (
	// PageTitleMaxLength 限制页面标题长度
	PageTitleMaxLength = 128
	// PageURLMaxLength 限制页面链接长度
	PageURLMaxLength = 200
)

// Page represents a link filed under a category.
type Page struct {
	gorm.Model
	CategoryID uint     `gorm:"index;not null"`
	Category   Category `gorm:"constraint:OnDelete:CASCADE"`
	Title      string   `gorm:"size:128;not null"`
	URL        string   `gorm:"size:200;not null"`
	Views      int      `gorm:"not null;default:0"`
}
