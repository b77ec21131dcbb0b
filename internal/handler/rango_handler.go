package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rango/internal/form"
	"github.com/rango/internal/service"
)

const (
	indexMessage = "Crunchy, creamy, cookie, candy, cupcake!"
	aboutMessage = "This tutorial has been put together by Claire."
	topLimit     = 5
)

// Index renders the five most liked categories and the five most viewed pages.
func (a *API) Index(c *gin.Context) {
	a.trackVisit(c)

	categories, err := a.categories.TopByLikes(topLimit)
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "index.html", gin.H{
			"boldmessage": indexMessage,
			"error":       "Unable to load categories right now.",
		})
		return
	}

	pages, err := a.pages.TopByViews(topLimit)
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "index.html", gin.H{
			"boldmessage": indexMessage,
			"categories":  categories,
			"error":       "Unable to load pages right now.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"boldmessage": indexMessage,
		"categories":  categories,
		"pages":       pages,
	})
}

// About renders the about page.
func (a *API) About(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":       "About",
		"boldmessage": aboutMessage,
		"aboutHTML":   a.aboutHTML,
	})
}

// ShowCategory 渲染分类及其页面；分类不存在时以空上下文渲染同一模板
func (a *API) ShowCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.renderHTML(c, http.StatusOK, "category.html", gin.H{
				"category": nil,
				"pages":    nil,
			})
			return
		}
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "category.html", gin.H{
			"category": nil,
			"pages":    nil,
			"error":    "Unable to load this category right now.",
		})
		return
	}

	if views, err := a.categories.RecordView(category.ID); err != nil {
		log.Printf("[rango] failed to record view for category %d: %v", category.ID, err)
	} else {
		category.Views = views
	}

	pages, err := a.pages.ListByCategory(category.ID)
	if err != nil {
		c.Error(err)
		a.renderHTML(c, http.StatusInternalServerError, "category.html", gin.H{
			"title":    category.Name,
			"category": category,
			"pages":    nil,
			"error":    "Unable to load pages right now.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "category.html", gin.H{
		"title":    category.Name,
		"category": category,
		"pages":    pages,
	})
}

// AddCategory 展示或处理新增分类表单
func (a *API) AddCategory(c *gin.Context) {
	if !isPost(c) {
		a.renderHTML(c, http.StatusOK, "add_category.html", gin.H{
			"title": "Add a Category",
			"form":  form.NewCategoryForm(),
		})
		return
	}

	f := form.BindCategoryForm(c)
	if f.Valid() {
		_, err := a.categories.Create(f.Name)
		switch {
		case err == nil:
			c.Redirect(http.StatusFound, indexPath)
			return
		case errors.Is(err, service.ErrCategoryExists):
			f.Errors.Add("name", "Category with this Name already exists.")
		case errors.Is(err, service.ErrCategoryName):
			f.Errors.Add("name", "This field is required.")
		case errors.Is(err, service.ErrCategorySlug):
			f.Errors.Add("name", "Enter a name containing at least one letter or number.")
		default:
			c.Error(err)
			a.renderHTML(c, http.StatusInternalServerError, "add_category.html", gin.H{
				"title": "Add a Category",
				"form":  f,
				"error": "Unable to save the category right now.",
			})
			return
		}
	}

	log.Printf("[rango] category form errors: %s", f.Errors)
	a.renderHTML(c, http.StatusOK, "add_category.html", gin.H{
		"title": "Add a Category",
		"form":  f,
	})
}

// AddPage 展示或处理新增页面表单；分类不存在时直接回到首页
func (a *API) AddPage(c *gin.Context) {
	slug := c.Param("slug")
	category, err := a.categories.GetBySlug(slug)
	if err != nil {
		if !errors.Is(err, service.ErrCategoryNotFound) {
			c.Error(err)
		}
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	if !isPost(c) {
		a.renderHTML(c, http.StatusOK, "add_page.html", gin.H{
			"title":    "Add a Page",
			"form":     form.NewPageForm(),
			"category": category,
		})
		return
	}

	f := form.BindPageForm(c)
	if f.Valid() {
		_, err := a.pages.Create(category, service.PageInput{Title: f.Title, URL: f.URL})
		if err == nil {
			c.Redirect(http.StatusFound, "/rango/category/"+category.Slug+"/")
			return
		}
		if !errors.Is(err, service.ErrPageInvalid) {
			c.Error(err)
			a.renderHTML(c, http.StatusInternalServerError, "add_page.html", gin.H{
				"title":    "Add a Page",
				"form":     f,
				"category": category,
				"error":    "Unable to save the page right now.",
			})
			return
		}
		f.Errors.Add(form.NonFieldErrors, "Please enter a title and a URL.")
	}

	log.Printf("[rango] page form errors: %s", f.Errors)
	a.renderHTML(c, http.StatusOK, "add_page.html", gin.H{
		"title":    "Add a Page",
		"form":     f,
		"category": category,
	})
}

// GotoURL 记录页面访问次数后跳转到目标链接
func (a *API) GotoURL(c *gin.Context) {
	id, err := parseUintQuery(c, "page_id")
	if err != nil {
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	page, err := a.pages.RecordVisit(id)
	if err != nil {
		if !errors.Is(err, service.ErrPageNotFound) {
			c.Error(err)
		}
		c.Redirect(http.StatusFound, indexPath)
		return
	}

	c.Redirect(http.StatusFound, page.URL)
}

// LikeCategory 为分类点赞并以纯文本返回最新点赞数
func (a *API) LikeCategory(c *gin.Context) {
	id, err := parseUintQuery(c, "category_id")
	if err != nil {
		c.String(http.StatusBadRequest, "")
		return
	}

	likes, err := a.categories.Like(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.String(http.StatusNotFound, "")
			return
		}
		c.Error(err)
		c.String(http.StatusInternalServerError, "")
		return
	}

	c.String(http.StatusOK, strconv.Itoa(likes))
}
