package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"moneybook/config"
	"moneybook/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// MySQLDSN 构建 MySQL 连接串。clientFoundRows 让无变化的 UPDATE 也返回匹配行数，游标写回依赖这一点
func MySQLDSN(cfg config.DatabaseConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
}

// PostgresDSN 构建 PostgreSQL 连接串
func PostgresDSN(cfg config.DatabaseConfig) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, sslmode)
}

// Dialector 按配置选择数据库驱动
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "postgres", "postgresql":
		return postgres.Open(PostgresDSN(cfg)), nil
	case "sqlite", "sqlite3":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite 需要配置 database.path")
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// Init 初始化数据库连接
func Init(cfg *config.Config, log *logrus.Logger) error {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return err
	}

	level := logger.Warn
	if cfg.Database.LogMode {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "sqlite" || cfg.Database.Driver == "sqlite3" {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}
	if err := SeedCategories(db); err != nil {
		return fmt.Errorf("初始化默认类别失败: %w", err)
	}

	DB = db
	log.WithField("driver", cfg.Database.Driver).Info("数据库初始化成功")
	return nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Tag{},
		&models.Transaction{},
		&models.Recurring{},
		&models.TransactionTemplate{},
		&models.Debt{},
		&models.Goal{},
		&models.Budget{},
		&models.PlannedExpense{},
	)
}

// SeedCategories 初始化共享的默认类别（仅当没有共享类别时）
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("user_id IS NULL").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	cats := models.DefaultCategories()
	for i := range cats {
		cats[i].Sort = (i + 1) * 10
	}
	return db.Create(&cats).Error
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
