package service

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rango/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid login details")
	ErrRegistrationInvalid = errors.New("username and password are required")
	ErrPasswordTooLong     = errors.New("password is longer than 72 bytes")
)

// UserService 负责注册、认证与用户查询
type UserService struct {
	db       *gorm.DB
	pictures *PictureStore
}

// RegistrationInput 汇总注册时账号表单与资料表单的数据
type RegistrationInput struct {
	Username string
	Email    string
	Password string
	Website  string
	Picture  *multipart.FileHeader
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB, pictures *PictureStore) *UserService {
	return &UserService{db: gdb, pictures: pictures}
}

// Register 创建用户及其资料；两者在同一事务中写入，失败时清理已写入的头像文件
func (s *UserService) Register(input RegistrationInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrRegistrationInvalid
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	picture := ""
	if input.Picture != nil && s.pictures != nil {
		saved, err := s.pictures.Save(input.Picture)
		if err != nil {
			return nil, err
		}
		picture = saved
	}

	user := db.User{
		Username: username,
		Email:    strings.TrimSpace(input.Email),
		IsActive: true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		s.discardPicture(picture)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, &user); err != nil {
			return err
		}

		profile := db.UserProfile{
			UserID:  user.ID,
			Website: strings.TrimSpace(input.Website),
			Picture: picture,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		return nil
	})
	if err != nil {
		s.discardPicture(picture)
		if errors.Is(err, ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	return &user, nil
}

// createUser 写入用户行；唯一索引冲突视为用户名已存在
func createUser(tx *gorm.DB, user *db.User) error {
	if err := tx.Omit("Profile").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Authenticate 校验用户名与密码；账号被禁用时仍返回用户，由调用方判断 IsActive
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// RecordLogin 记录最近一次登录时间
func (s *UserService) RecordLogin(user *db.User, now time.Time) error {
	if user == nil || user.ID == 0 {
		return ErrUserNotFound
	}
	if err := s.db.Model(&db.User{}).Where("id = ?", user.ID).UpdateColumn("last_login", now).Error; err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	user.LastLogin = &now
	return nil
}

// Get 根据主键加载用户及其资料
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// PictureURL 返回用户头像的访问地址，未上传时为空
func (s *UserService) PictureURL(user *db.User) string {
	if user == nil || user.Profile == nil || s.pictures == nil {
		return ""
	}
	return s.pictures.URL(user.Profile.Picture)
}

func (s *UserService) discardPicture(relative string) {
	if relative == "" || s.pictures == nil {
		return
	}
	if err := s.pictures.Remove(relative); err != nil {
		log.Printf("[rango] failed to remove picture %s: %v", relative, err)
	}
}
