package form

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CategoryForm 对应新增分类表单
type CategoryForm struct {
	Name   string `form:"name" binding:"required,max=128"`
	Errors Errors `form:"-"`
}

// NewCategoryForm 返回空表单
func NewCategoryForm() *CategoryForm {
	return &CategoryForm{Errors: Errors{}}
}

// BindCategoryForm 从请求中读取并校验分类表单
func BindCategoryForm(c *gin.Context) *CategoryForm {
	f := NewCategoryForm()
	f.Errors = bind(c, f)
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" && !f.Errors.Has("name") {
		f.Errors.Add("name", "This field is required.")
	}
	return f
}

// Valid 判断表单是否通过校验
func (f *CategoryForm) Valid() bool {
	return !f.Errors.Any()
}
