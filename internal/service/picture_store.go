package service

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// ErrInvalidPicture 在上传文件无法识别为图片时返回
var ErrInvalidPicture = errors.New("upload a valid image")

const profileImageDir = "profile_images"

var pictureExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// PictureStore 负责把用户头像写入媒体目录
type PictureStore struct {
	root    string
	urlPath string
}

// NewPictureStore 创建 PictureStore，root 为媒体根目录，urlPath 为对外访问前缀
func NewPictureStore(root, urlPath string) *PictureStore {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "media"
	}
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	return &PictureStore{root: root, urlPath: urlPath}
}

// Save 校验上传的图片并写入 profile_images/，返回相对于媒体根目录的路径
func (s *PictureStore) Save(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	_, format, err := image.DecodeConfig(src)
	if err != nil {
		return "", ErrInvalidPicture
	}
	ext, ok := pictureExtensions[format]
	if !ok {
		return "", ErrInvalidPicture
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(s.root, profileImageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create picture: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write picture: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close picture: %w", err)
	}

	return path.Join(profileImageDir, name), nil
}

// Remove 删除已保存的头像，文件不存在时忽略
func (s *PictureStore) Remove(relative string) error {
	relative = strings.TrimSpace(relative)
	if relative == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(relative)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL 返回头像的对外访问地址
func (s *PictureStore) URL(relative string) string {
	relative = strings.TrimSpace(relative)
	if relative == "" {
		return ""
	}
	return path.Join(s.urlPath, relative)
}
