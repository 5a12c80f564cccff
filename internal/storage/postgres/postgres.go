// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rovshanmuradov/bonding-curve/internal/storage"
	"github.com/rovshanmuradov/bonding-curve/internal/storage/models"
	"github.com/rovshanmuradov/bonding-curve/internal/types"
)

const (
	configKey     = "curve"
	migrationLock = 101
)

// gormLogger реализует интерфейс logger.Interface для GORM
type gormLogger struct {
	zapLogger     *zap.Logger
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

// newGormLogger создает новый логгер для GORM
func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{
		zapLogger:     zapLogger,
		logLevel:      logger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
}

// LogMode реализация интерфейса logger.Interface
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info реализация интерфейса logger.Interface
func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

// Warn реализация интерфейса logger.Interface
func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

// Error реализация интерфейса logger.Interface
func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

// Trace реализация интерфейса logger.Interface
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
	case elapsed > l.slowThreshold && l.logLevel >= logger.Warn:
		l.zapLogger.Warn("slow query", fields...)
	case l.logLevel >= logger.Info:
		l.zapLogger.Info("trace", fields...)
	}
}

// Options настраивают подключение к базе
type Options struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnectTries    uint
}

// postgresStorage реализует интерфейс storage.Store
type postgresStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStorage открывает соединение, повторяя попытки с экспоненциальной задержкой.
func NewStorage(ctx context.Context, dsn string, opts Options, zapLogger *zap.Logger) (storage.Store, error) {
	zapLogger = zapLogger.Named("postgres")
	gormLog := newGormLogger(zapLogger.Named("gorm"))

	if opts.ConnectTries == 0 {
		opts.ConnectTries = 5
	}

	notify := func(err error, d time.Duration) {
		zapLogger.Warn("Database is not ready, retrying", zap.Error(err), zap.Duration("backoff", d))
	}

	operation := func() (*gorm.DB, error) {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLog,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			DisableForeignKeyConstraintWhenMigrating: true,
			SkipDefaultTransaction:                   true,
		})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to get database instance: %w", err))
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(opts.ConnectTries),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Настройка пула соединений
	sqlDB.SetMaxIdleConns(orDefault(opts.MaxIdleConns, 10))
	sqlDB.SetMaxOpenConns(orDefault(opts.MaxOpenConns, 100))
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)

	return &postgresStorage{db: db, logger: zapLogger}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// RunMigrations использует GORM AutoMigrate под advisory lock
func (p *postgresStorage) RunMigrations(ctx context.Context) error {
	db := p.db.WithContext(ctx)

	var lockObtained bool
	if err := db.Raw("SELECT pg_try_advisory_lock(?)", migrationLock).Scan(&lockObtained).Error; err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer db.Exec("SELECT pg_advisory_unlock(?)", migrationLock)

	if err := db.AutoMigrate(
		&models.CurveConfiguration{},
		&models.LiquidityPool{},
		&models.Trade{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (p *postgresStorage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (p *postgresStorage) GetConfig(ctx context.Context) (*types.CurveConfiguration, error) {
	var row models.CurveConfiguration
	err := p.db.WithContext(ctx).Where("key = ?", configKey).First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return configFromModel(&row)
}

func (p *postgresStorage) SaveConfig(ctx context.Context, cfg *types.CurveConfiguration) error {
	row := configToModel(cfg)
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns(configColumns),
	}).Create(row).Error
}

func (p *postgresStorage) GetPool(ctx context.Context, address solana.PublicKey) (*types.LiquidityPool, error) {
	var row models.LiquidityPool
	err := p.db.WithContext(ctx).Where("address = ?", address.String()).First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	return poolFromModel(&row)
}

func (p *postgresStorage) SavePool(ctx context.Context, pool *types.LiquidityPool) error {
	row := poolToModel(pool)
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_supply", "reserve_token", "reserve_exchange", "updated_at"}),
	}).Create(row).Error
}

func (p *postgresStorage) ListPools(ctx context.Context) ([]*types.LiquidityPool, error) {
	var rows []*models.LiquidityPool
	if err := p.db.WithContext(ctx).Order("address asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*types.LiquidityPool, 0, len(rows))
	for _, row := range rows {
		pool, err := poolFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, pool)
	}
	return out, nil
}

func (p *postgresStorage) SaveTrade(ctx context.Context, trade *types.TradeRecord) error {
	return p.db.WithContext(ctx).Create(tradeToModel(trade)).Error
}

func (p *postgresStorage) ListTrades(ctx context.Context, pool solana.PublicKey, limit, offset int) ([]*types.TradeRecord, error) {
	limit, offset = storage.NormalizePage(limit, offset)

	var rows []*models.Trade
	err := p.db.WithContext(ctx).
		Where("pool = ?", pool.String()).
		Order("executed_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*types.TradeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := tradeFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}
