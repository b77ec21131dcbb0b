package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/rango/internal/db"
	"github.com/rango/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubHTMLRender 记录最近一次渲染的模板名与数据，不输出真实 HTML
type stubHTMLRender struct {
	name string
	data gin.H
}

type stubHTMLInstance struct {
	render *stubHTMLRender
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.name = name
	r.data, _ = data.(gin.H)
	return &stubHTMLInstance{render: r}
}

func (r *stubHTMLInstance) Render(w http.ResponseWriter) error {
	_, err := w.Write([]byte(r.render.name))
	return err
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type handlerSuite struct {
	api    *API
	db     *gorm.DB
	router *gin.Engine
	html   *stubHTMLRender
	cookie []*http.Cookie
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:handler-%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return gdb
}

func newHandlerSuite(t *testing.T) *handlerSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	api := NewAPI(gdb, Options{MediaDir: t.TempDir(), MediaURL: "/media", AboutMarkdown: "Made with **Go**"})

	html := &stubHTMLRender{}
	router := gin.New()
	router.HTMLRender = html
	router.Use(sessions.Sessions("rango_session", cookie.NewStore([]byte("test-secret"))))
	router.Use(api.CurrentUser())

	// 测试专用：直接为指定用户建立会话
	router.GET("/test/login/:username", func(c *gin.Context) {
		var user db.User
		if err := gdb.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
			c.String(http.StatusNotFound, "")
			return
		}
		if err := login(c, &user); err != nil {
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		c.String(http.StatusOK, "ok")
	})

	router.GET("/rango/", api.Index)
	router.GET("/rango/about/", api.About)
	router.GET("/rango/category/:slug/", api.ShowCategory)
	router.GET("/rango/register/", api.Register)
	router.POST("/rango/register/", api.Register)
	router.GET("/rango/login/", api.UserLogin)
	router.POST("/rango/login/", api.UserLogin)
	router.GET("/rango/goto/", api.GotoURL)

	auth := router.Group("/rango")
	auth.Use(AuthRequired())
	auth.GET("/add_category/", api.AddCategory)
	auth.POST("/add_category/", api.AddCategory)
	auth.GET("/category/:slug/add_page/", api.AddPage)
	auth.POST("/category/:slug/add_page/", api.AddPage)
	auth.GET("/like_category/", api.LikeCategory)
	auth.GET("/logout/", api.UserLogout)
	auth.GET("/restricted/", api.Restricted)

	return &handlerSuite{api: api, db: gdb, router: router, html: html}
}

func (s *handlerSuite) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range s.cookie {
		req.AddCookie(c)
	}
	s.html.name = ""
	s.html.data = nil

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		s.cookie = s.cookie[:0]
		for _, c := range cookies {
			if c.MaxAge >= 0 {
				s.cookie = append(s.cookie, c)
			}
		}
	}
	return w
}

func (s *handlerSuite) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

func (s *handlerSuite) postForm(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *handlerSuite) seedUser(t *testing.T, username, password string, active bool) db.User {
	t.Helper()
	user := db.User{Username: username, IsActive: active}
	if err := user.SetPassword(password); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := s.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func (s *handlerSuite) loginAs(t *testing.T, username string) {
	t.Helper()
	if w := s.get(t, "/test/login/"+username); w.Code != http.StatusOK {
		t.Fatalf("failed to log in as %s: %d", username, w.Code)
	}
}

func (s *handlerSuite) seedCategory(t *testing.T, name string, likes int) db.Category {
	t.Helper()
	category, err := service.NewCategoryService(s.db).Create(name)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	if likes > 0 {
		if err := s.db.Model(category).UpdateColumn("likes", likes).Error; err != nil {
			t.Fatalf("failed to set likes: %v", err)
		}
		category.Likes = likes
	}
	return *category
}

func (s *handlerSuite) seedPage(t *testing.T, category db.Category, title string, views int) db.Page {
	t.Helper()
	page := db.Page{CategoryID: category.ID, Title: title, URL: "http://example.com/" + title, Views: views}
	if err := s.db.Omit("Category").Create(&page).Error; err != nil {
		t.Fatalf("failed to seed page: %v", err)
	}
	return page
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func toString(value interface{}) string {
	return fmt.Sprintf("%v", value)
}
