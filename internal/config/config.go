package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DriverSQLite 为默认数据库驱动
	DriverSQLite = "sqlite"
	// DriverPostgres 使用 DATABASE_PATH 作为 PostgreSQL DSN
	DriverPostgres = "postgres"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	MediaDir          string
	MediaURLPath      string
	EnableSSL         bool
	AboutMarkdown     string
	SuperRootUserName string
	SuperRootPassword string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DATABASE_DRIVER")))
	switch driver {
	case DriverPostgres, "postgresql", "pg":
		driver = DriverPostgres
	default:
		driver = DriverSQLite
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" && driver == DriverSQLite {
		databasePath = "rango.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "rango-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	mediaDir := strings.TrimSpace(os.Getenv("MEDIA_DIR"))
	if mediaDir == "" {
		mediaDir = "media"
	}

	mediaURLPath := strings.TrimSpace(os.Getenv("MEDIA_URL_PATH"))
	if mediaURLPath == "" {
		mediaURLPath = "/media"
	}
	mediaURLPath = "/" + strings.Trim(mediaURLPath, "/")

	enableSSL, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("ENABLE_SSL")))

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabaseDriver:    driver,
		DatabasePath:      databasePath,
		SessionSecret:     sessionSecret,
		GinMode:           ginMode,
		MediaDir:          mediaDir,
		MediaURLPath:      mediaURLPath,
		EnableSSL:         enableSSL,
		AboutMarkdown:     strings.TrimSpace(os.Getenv("ABOUT_MARKDOWN")),
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
	}
}
