package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rango/internal/db"
	"github.com/rango/internal/service"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	currentUserKey     = "__current_user"

	loginPath = "/rango/login/"
	indexPath = "/rango/"
)

// CurrentUser 从会话中恢复登录用户；账号不存在或被禁用时清理会话
func (a *API) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionUserIDKey).(uint)
		if !ok || id == 0 {
			c.Next()
			return
		}

		user, err := a.users.Get(id)
		switch {
		case err == nil && user.IsActive:
			c.Set(currentUserKey, user)
		case err == nil || errors.Is(err, service.ErrUserNotFound):
			session.Delete(sessionUserIDKey)
			session.Delete(sessionUsernameKey)
			if saveErr := session.Save(); saveErr != nil {
				log.Printf("[rango] failed to save session: %v", saveErr)
			}
		default:
			c.Error(err)
		}
		c.Next()
	}
}

// AuthRequired 未登录时跳转到登录页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*db.User)
	return user
}

func login(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		return err
	}
	c.Set(currentUserKey, user)
	return nil
}

func logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	c.Set(currentUserKey, (*db.User)(nil))
	return session.Save()
}
