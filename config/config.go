// Package config loads server settings from the environment (and an optional
// .env file) and opens the database.
package config

import (
	"fmt"
	"os"
	"strings"

	"click-collect/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultJWTSecret = "click_collect_dev_secret"

type Config struct {
	Port        string
	Env         string
	DBDriver    string // sqlite or postgres
	DBDSN       string
	JWTSecret   []byte
	RabbitMQURL string // empty disables event publishing
	CORSOrigins []string

	SuperAdminEmail    string
	SuperAdminPassword string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:              getEnv("DB_DSN", "click_collect.db"),
		JWTSecret:          []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		RabbitMQURL:        os.Getenv("RABBITMQ_URL"),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
		SuperAdminEmail:    os.Getenv("SUPERADMIN_EMAIL"),
		SuperAdminPassword: os.Getenv("SUPERADMIN_PASSWORD"),
	}
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the server must not start with.
func (c Config) Validate() error {
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if !c.IsDevelopment() && string(c.JWTSecret) == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when ENV=%s", c.Env)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// OpenDB connects with the configured driver and migrates all models.
func OpenDB(c Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.DBDriver {
	case "postgres":
		dialector = postgres.Open(c.DBDSN)
	default:
		dialector = sqlite.Open(c.DBDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if c.DBDriver != "postgres" {
		// sqlite allows one writer; a single connection also keeps ":memory:" databases shared
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// NewLogger returns a development logger for ENV=development and a JSON
// production logger otherwise.
func NewLogger(c Config) (*zap.SugaredLogger, error) {
	build := zap.NewProduction
	if c.IsDevelopment() {
		build = zap.NewDevelopment
	}
	l, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l.Sugar(), nil
}
