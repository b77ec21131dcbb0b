package form

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PasswordMaxBytes 为 bcrypt 可处理的最大密码长度
const PasswordMaxBytes = 72

// UserForm 对应注册表单中的账号部分
type UserForm struct {
	Username string `form:"username" binding:"required,max=150,username"`
	Email    string `form:"email" binding:"omitempty,max=254,email"`
	Password string `form:"password" binding:"required"`
	Errors   Errors `form:"-"`
}

// UserProfileForm 对应注册表单中的个人资料部分
type UserProfileForm struct {
	Website string                `form:"website" binding:"omitempty,max=200,url"`
	Picture *multipart.FileHeader `form:"-"`
	Errors  Errors                `form:"-"`
}

// NewUserForm 返回空的账号表单
func NewUserForm() *UserForm {
	return &UserForm{Errors: Errors{}}
}

// NewUserProfileForm 返回空的资料表单
func NewUserProfileForm() *UserProfileForm {
	return &UserProfileForm{Errors: Errors{}}
}

// BindUserForm 读取并校验账号表单，用户名与邮箱会去除首尾空白
func BindUserForm(c *gin.Context) *UserForm {
	f := NewUserForm()
	f.Username = strings.TrimSpace(c.PostForm("username"))
	f.Email = strings.TrimSpace(c.PostForm("email"))
	f.Password = c.PostForm("password")
	f.Errors = validate(f)
	// bcrypt 只接受 72 字节以内的密码
	if len(f.Password) > PasswordMaxBytes && !f.Errors.Has("password") {
		f.Errors.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes.", PasswordMaxBytes))
	}
	return f
}

// BindUserProfileForm 读取资料表单与可选的头像文件
func BindUserProfileForm(c *gin.Context) *UserProfileForm {
	f := NewUserProfileForm()
	if website := strings.TrimSpace(c.PostForm("website")); website != "" {
		f.Website = NormalizeURL(website)
	}
	f.Errors = validate(f)

	file, err := c.FormFile("picture")
	switch {
	case err == nil:
		f.Picture = file
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		f.Errors.Add("picture", "The submitted file could not be read.")
	}
	return f
}

// Valid 判断表单是否通过校验
func (f *UserForm) Valid() bool {
	return !f.Errors.Any()
}

// Valid 判断表单是否通过校验
func (f *UserProfileForm) Valid() bool {
	return !f.Errors.Any()
}
