package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rango/internal/form"
	"github.com/rango/internal/service"
)

const (
	disabledAccountMessage = "Your Rango account is disabled."
	invalidLoginMessage    = "Invalid login details supplied."
)

// Register 同时校验账号表单与资料表单，两者都有效才会创建用户
func (a *API) Register(c *gin.Context) {
	registered := false
	userForm := form.NewUserForm()
	profileForm := form.NewUserProfileForm()

	if isPost(c) {
		userForm = form.BindUserForm(c)
		profileForm = form.BindUserProfileForm(c)

		if userForm.Valid() && profileForm.Valid() {
			_, err := a.users.Register(service.RegistrationInput{
				Username: userForm.Username,
				Email:    userForm.Email,
				Password: userForm.Password,
				Website:  profileForm.Website,
				Picture:  profileForm.Picture,
			})
			switch {
			case err == nil:
				registered = true
			case errors.Is(err, service.ErrUserExists):
				userForm.Errors.Add("username", "A user with that username already exists.")
			case errors.Is(err, service.ErrPasswordTooLong):
				userForm.Errors.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes.", form.PasswordMaxBytes))
			case errors.Is(err, service.ErrInvalidPicture):
				profileForm.Errors.Add("picture", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			default:
				c.Error(err)
				a.renderHTML(c, http.StatusInternalServerError, "register.html", gin.H{
					"title":        "Register",
					"user_form":    userForm,
					"profile_form": profileForm,
					"registered":   false,
					"error":        "Unable to complete registration right now.",
				})
				return
			}
		}

		if !registered {
			log.Printf("[rango] registration errors: user_form={%s} profile_form={%s}", userForm.Errors, profileForm.Errors)
		}
	}

	// 密码不回显到模板
	userForm.Password = ""
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title":        "Register",
		"user_form":    userForm,
		"profile_form": profileForm,
		"registered":   registered,
	})
}

// UserLogin 渲染登录页或处理登录请求；失败时返回纯文本提示
func (a *API) UserLogin(c *gin.Context) {
	if !isPost(c) {
		a.renderHTML(c, http.StatusOK, "login.html", gin.H{"title": "Login"})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("[rango] invalid login details for username %q", username)
			c.String(http.StatusUnauthorized, invalidLoginMessage)
			return
		}
		c.Error(err)
		c.String(http.StatusInternalServerError, "Unable to log in right now.")
		return
	}

	if !user.IsActive {
		c.String(http.StatusForbidden, disabledAccountMessage)
		return
	}

	if err := login(c, user); err != nil {
		c.Error(err)
		c.String(http.StatusInternalServerError, "Unable to log in right now.")
		return
	}
	if err := a.users.RecordLogin(user, a.now()); err != nil {
		log.Printf("[rango] failed to record login for %s: %v", user.Username, err)
	}

	c.Redirect(http.StatusFound, indexPath)
}

// UserLogout 清空会话并回到首页
func (a *API) UserLogout(c *gin.Context) {
	if err := logout(c); err != nil {
		log.Printf("[rango] failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, indexPath)
}

// Restricted 仅登录用户可见
func (a *API) Restricted(c *gin.Context) {
	user := currentUser(c)
	a.renderHTML(c, http.StatusOK, "restricted.html", gin.H{
		"title":      "Restricted",
		"pictureURL": a.users.PictureURL(user),
	})
}
