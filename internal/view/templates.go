package view

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap 返回模板中可用的辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"pluralize": func(count int) string {
			if count == 1 {
				return ""
			}
			return "s"
		},
	}
}

// Templates 解析内嵌的全部页面模板；模板名为文件名，例如 index.html
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
