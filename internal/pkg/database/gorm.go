package database

import (
	"NewsDesk/internal/api/config"
	"NewsDesk/internal/model"
	"NewsDesk/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 连接日报快照所在的 MySQL，配置连接池并完成表结构迁移
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	dialector := mysql.New(mysql.Config{
		DSN: cfg.DSN,
		// utf8mb4 下唯一索引列不超过 191 字符
		DefaultStringSize: 191,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.NewGormLogger(),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("metrics database ping failed: %w", err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Metrics database connected", "max_open", cfg.MaxOpen, "max_idle", cfg.MaxIdle)
	return db, nil
}

// Migrate 同步 article_daily_metrics 表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.ArticleMetric{}); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
