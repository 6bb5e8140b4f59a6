package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateManufacturers,
		migrationCreateVehicleModels,
		migrationCreateVariants,
		migrationTimestampsNotNull,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateManufacturers = `
CREATE TABLE IF NOT EXISTS manufacturers (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    country VARCHAR(100),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

const migrationCreateVehicleModels = `
CREATE TABLE IF NOT EXISTS vehicle_models (
    id BIGSERIAL PRIMARY KEY,
    manufacturer_id BIGINT NOT NULL REFERENCES manufacturers(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    body_type VARCHAR(50),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    UNIQUE (manufacturer_id, name)
);
CREATE INDEX IF NOT EXISTS idx_vehicle_models_manufacturer_id ON vehicle_models(manufacturer_id);
`

// 续航与充电参数允许为空
const migrationCreateVariants = `
CREATE TABLE IF NOT EXISTS variants (
    id BIGSERIAL PRIMARY KEY,
    model_id BIGINT NOT NULL REFERENCES vehicle_models(id) ON DELETE CASCADE,
    name VARCHAR(255) NOT NULL,
    real_world_range_km DOUBLE PRECISION,
    weight_kg DOUBLE PRECISION,
    usable_battery_capacity_kwh DOUBLE PRECISION,
    fast_charging_time_min DOUBLE PRECISION,
    price BIGINT,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_variants_model_id ON variants(model_id);
`

// 旧表的时间戳列允许为空，补齐后加上 NOT NULL
const migrationTimestampsNotNull = `
UPDATE variants SET created_at = NOW() WHERE created_at IS NULL;
UPDATE variants SET updated_at = NOW() WHERE updated_at IS NULL;
ALTER TABLE variants ALTER COLUMN created_at SET NOT NULL;
ALTER TABLE variants ALTER COLUMN updated_at SET NOT NULL;
`
