package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型，Password 只保存 bcrypt 哈希
type User struct {
	gorm.Model
	Username  string `gorm:"size:150;uniqueIndex;not null"`
	Email     string `gorm:"size:254"`
	Password  string `gorm:"not null"`
	IsActive  bool   `gorm:"not null"`
	IsStaff   bool   `gorm:"not null"`
	LastLogin *time.Time
	Profile   *UserProfile
}

// UserProfile 扩展用户的个人信息，与 User 一对一
type UserProfile struct {
	gorm.Model
	UserID  uint   `gorm:"uniqueIndex;not null"`
	Website string `gorm:"size:200"`
	Picture string `gorm:"size:255"`
}

// TableName 返回自定义表名
func (UserProfile) TableName() string {
	return "user_profiles"
}

// SetPassword 对明文密码做 bcrypt 哈希
func (u *User) SetPassword(raw string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword 校验明文密码与存储的哈希是否匹配
func (u *User) CheckPassword(raw string) bool {
	if u == nil || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

// EnsureUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员用户。
func EnsureUser(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := User{Username: trimmedUser, IsActive: true, IsStaff: true}
		if err := user.SetPassword(trimmedPassword); err != nil {
			return err
		}

		return gdb.Create(&user).Error
	}

	return nil
}
