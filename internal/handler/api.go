package handler

import (
	"html/template"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rango/internal/service"
	"github.com/rango/internal/view"
	"gorm.io/gorm"
)

// Options 汇总构造 API 时需要的外部配置
type Options struct {
	MediaDir      string
	MediaURL      string
	AboutMarkdown string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	categories *service.CategoryService
	pages      *service.PageService
	users      *service.UserService
	aboutHTML  template.HTML
	now        func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	pictures := service.NewPictureStore(opts.MediaDir, opts.MediaURL)

	about, err := view.RenderMarkdown(opts.AboutMarkdown)
	if err != nil {
		log.Printf("[rango] failed to render about markdown: %v", err)
		about = ""
	}

	return &API{
		db:         gdb,
		categories: service.NewCategoryService(gdb),
		pages:      service.NewPageService(gdb),
		users:      service.NewUserService(gdb, pictures),
		aboutHTML:  about,
		now:        time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// renderHTML 在渲染模板时自动附加当前用户与访问次数
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["user"]; !exists {
		if user := currentUser(c); user != nil {
			payload["user"] = user
		}
	}
	if _, exists := payload["visits"]; !exists {
		payload["visits"] = sessionVisits(c)
	}

	c.HTML(status, template, payload)
}
