package db

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CategoryNameMaxLength 限制分类名称长度
const CategoryNameMaxLength = 128

// Category 定义了分类模型
type Category struct {
	gorm.Model
	Name  string `gorm:"size:128;uniqueIndex;not null"`
	Slug  string `gorm:"size:160;uniqueIndex;not null"`
	Views int    `gorm:"not null;default:0"`
	Likes int    `gorm:"not null;default:0"`
	Pages []Page
}

// BeforeSave 在每次保存前根据名称重新生成 slug
func (c *Category) BeforeSave(*gorm.DB) error {
	c.Slug = MakeSlug(c.Name)
	return nil
}

// MakeSlug 将分类名称转换为 URL 安全的标识
func MakeSlug(name string) string {
	return slug.Make(name)
}
