package storage

import (
	"context"
	"fmt"
	"time"

	"talent-match-go/internal/config"
	"talent-match-go/internal/constants"
	"talent-match-go/internal/storage/models"
	"talent-match-go/internal/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer(constants.ServiceName + "/storage/mysql")

// MySQL 关系型存储：职位目录表与匹配结果表。
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL连接并按需迁移表结构。
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	if err := db.Use(&gormTracingPlugin{tracer: mysqlTracer, dbName: cfg.Database}); err != nil {
		return nil, fmt.Errorf("注册GORM追踪插件失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.JobPosting{}, &models.MatchRecord{}); err != nil {
			return nil, fmt.Errorf("表结构迁移失败: %w", err)
		}
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

// DB 返回底层gorm句柄（测试和迁移工具使用）。
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// ListJobPostings 读取全部职位，目录构建时调用一次。
func (m *MySQL) ListJobPostings(ctx context.Context) ([]models.JobPosting, error) {
	ctx, span := mysqlTracer.Start(ctx, "mysql.ListJobPostings",
		trace.WithAttributes(semconv.DBSystemMySQL))
	defer span.End()

	var postings []models.JobPosting
	if err := m.db.WithContext(ctx).Order("id ASC").Find(&postings).Error; err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, fmt.Errorf("查询职位列表失败: %w", err)
	}
	span.SetAttributes(attribute.Int("db.rows", len(postings)))
	return postings, nil
}

// SaveMatchRecord 持久化一次打分结果，主键冲突时覆盖更新。
func (m *MySQL) SaveMatchRecord(ctx context.Context, record *models.MatchRecord) error {
	ctx, span := mysqlTracer.Start(ctx, "mysql.SaveMatchRecord",
		trace.WithAttributes(semconv.DBSystemMySQL))
	defer span.End()

	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return fmt.Errorf("保存匹配结果失败: %w", err)
	}
	return nil
}

// Close 关闭连接池。
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// gormTracingPlugin 在GORM回调中打OpenTelemetry追踪点。
type gormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

func (p *gormTracingPlugin) Name() string {
	return "otelTracingPlugin"
}

func (p *gormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("CREATE")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after()); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("SELECT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after()); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("UPDATE")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after()); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before("DELETE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after()); err != nil {
		return err
	}
	return nil
}

func (p *gormTracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		// span 随 context 传递，在 after 回调中取出并结束
		ctx, _ := p.tracer.Start(db.Statement.Context, "gorm."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
			))
		db.Statement.Context = ctx
	}
}

func (p *gormTracingPlugin) after() func(*gorm.DB) {
	return func(db *gorm.DB) {
		span := trace.SpanFromContext(db.Statement.Context)
		if !span.IsRecording() {
			return
		}
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Error != nil {
			tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
		}
		span.End()
	}
}
