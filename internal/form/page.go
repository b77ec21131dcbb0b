package form

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// PageForm 对应新增页面表单
type PageForm struct {
	Title  string `form:"title" binding:"required,max=128"`
	URL    string `form:"url" binding:"required,max=200,url"`
	Errors Errors `form:"-"`
}

// NewPageForm 返回空表单
func NewPageForm() *PageForm {
	return &PageForm{Errors: Errors{}}
}

// BindPageForm 读取页面表单；链接缺少协议时补全 http:// 后再校验。
func BindPageForm(c *gin.Context) *PageForm {
	f := NewPageForm()
	f.Title = strings.TrimSpace(c.PostForm("title"))
	f.URL = NormalizeURL(c.PostForm("url"))
	f.Errors = validate(f)
	return f
}

// Valid 判断表单是否通过校验
func (f *PageForm) Valid() bool {
	return !f.Errors.Any()
}

// NormalizeURL 去除空白并在缺少 http(s) 协议时补全 http://
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	return "http://" + trimmed
}
