package database

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schemetrack_backend/internals/configs"
	groupModel "schemetrack_backend/internals/features/schemes/groups/model"
	schemeModel "schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/helpers/logger"
)

var DB *gorm.DB

func ConnectDB() error {
	log := logger.Named("db")
	log.Info("🔌 connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schemetrack&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // PgBouncer transaction pooling
	}), &gorm.Config{
		Logger: configs.NewGormLogger(logger.L()),
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	DB = db
	log.Info("✅ DB connected")
	return nil
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		logger.Named("db").Warn("pool tune", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate keeps the schema in sync for the scheme tables.
func Migrate() error {
	if os.Getenv("DB_AUTO_MIGRATE") == "false" {
		return nil
	}
	return DB.AutoMigrate(
		&groupModel.GroupModel{},
		&schemeModel.SchemeModel{},
		&schemeModel.PaymentModel{},
		&schemeModel.SchemeEventModel{},
	)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			logger.Named("db").Warn("warm-up ping", zap.Error(err))
		}
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("db not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
