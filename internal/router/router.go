package router

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rango/internal/config"
	"github.com/rango/internal/handler"
	"github.com/rango/internal/view"
	"gorm.io/gorm"
)

const sessionMaxAge = 14 * 24 * 60 * 60

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if cfg.EnableSSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	r.Use(secure.New(secureConfig))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.EnableSSL,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("rango_session", store))

	r.SetHTMLTemplate(template.Must(view.Templates()))

	// 用户上传的头像
	mediaURL := cfg.MediaURLPath
	if mediaURL == "" {
		mediaURL = "/media"
	}
	mediaDir := cfg.MediaDir
	if mediaDir == "" {
		mediaDir = "media"
	}
	r.Static(mediaURL, mediaDir)

	api := handler.NewAPI(gdb, handler.Options{
		MediaDir:      mediaDir,
		MediaURL:      mediaURL,
		AboutMarkdown: cfg.AboutMarkdown,
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/rango/")
	})

	rango := r.Group("/rango")
	rango.Use(api.CurrentUser())
	{
		rango.GET("/", api.Index)
		rango.GET("/about/", api.About)
		rango.GET("/category/:slug/", api.ShowCategory)
		rango.GET("/register/", api.Register)
		rango.POST("/register/", api.Register)
		rango.GET("/login/", api.UserLogin)
		rango.POST("/login/", api.UserLogin)
		rango.GET("/goto/", api.GotoURL)

		// 需要登录的路由
		auth := rango.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/add_category/", api.AddCategory)
			auth.POST("/add_category/", api.AddCategory)
			auth.GET("/category/:slug/add_page/", api.AddPage)
			auth.POST("/category/:slug/add_page/", api.AddPage)
			auth.GET("/like_category/", api.LikeCategory)
			auth.GET("/logout/", api.UserLogout)
			auth.GET("/restricted/", api.Restricted)
		}
	}

	return r
}
