package mysql

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. debug模式打印SQL(输出到zerolog),其他模式只记录慢查询与错误
// 4. 自动迁移books表
//
// 返回的cleanup关闭连接池
func NewDB(cfg *config.Config) (*gorm.DB, func(), error) {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.New(gormWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true, // GetByID查不到是正常情况
		}),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("dbname", cfg.Database.DBName).
		Msg("✓ 数据库连接成功")

	// 注意:生产环境应使用版本化迁移脚本,不要依赖AutoMigrate
	if err := db.AutoMigrate(&BookModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("关闭数据库连接失败")
		}
	}

	return db, cleanup, nil
}

// BookModel GORM图书模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag;domain/book.Book不依赖GORM
// 2. ID使用UUID字符串,由应用层生成
// 3. ISBN按输入原样保存,ISBNKey存规范形式并建唯一索引;字段长度与领域校验规则一致
// 4. 没有DeletedAt字段,删除为硬删除
type BookModel struct {
	ID        string    `gorm:"primaryKey;type:char(36);comment:图书ID(UUID)"`
	Title     string    `gorm:"size:150;not null;comment:书名"`
	Author    string    `gorm:"size:100;not null;comment:作者"`
	ISBN      string    `gorm:"size:32;not null;comment:ISBN-13(原样)"`
	ISBNKey   string    `gorm:"column:isbn_key;uniqueIndex;size:13;not null;comment:ISBN-13规范形式"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"` // GetAll按此排序
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// gormWriter 把GORM日志转发到zerolog
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	log.Debug().Str("component", "gorm").Msgf(format, args...)
}
