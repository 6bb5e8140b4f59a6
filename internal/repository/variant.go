package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/evrange/internal/models"
)

// VariantRepository 车型版本数据仓库（只读）
type VariantRepository struct {
	db *DB
}

// NewVariantRepository 创建车型版本仓库
func NewVariantRepository(db *DB) *VariantRepository {
	return &VariantRepository{db: db}
}

const variantColumns = `
	v.id, v.model_id, mf.name, vm.name, v.name,
	v.real_world_range_km, v.weight_kg, v.usable_battery_capacity_kwh, v.fast_charging_time_min,
	v.price, v.created_at, v.updated_at
`

const variantFrom = `
	FROM variants v
	JOIN vehicle_models vm ON vm.id = v.model_id
	JOIN manufacturers mf ON mf.id = vm.manufacturer_id
`

func scanVariant(row pgx.Row) (*models.Variant, error) {
	v := &models.Variant{}
	err := row.Scan(
		&v.ID,
		&v.ModelID,
		&v.ManufacturerName,
		&v.ModelName,
		&v.Name,
		&v.RealWorldRangeKm,
		&v.WeightKg,
		&v.UsableBatteryCapacityKwh,
		&v.FastChargingTimeMin,
		&v.Price,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// GetByID 通过 ID 获取车型版本
func (r *VariantRepository) GetByID(ctx context.Context, id int64) (*models.Variant, error) {
	query := `SELECT ` + variantColumns + variantFrom + ` WHERE v.id = $1`

	v, err := scanVariant(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get variant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get variant by id: %w", err)
	}
	return v, nil
}

// List 获取所有车型版本
func (r *VariantRepository) List(ctx context.Context) ([]*models.Variant, error) {
	query := `SELECT ` + variantColumns + variantFrom + ` ORDER BY mf.name, vm.name, v.name, v.id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var variants []*models.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variants: %w", err)
	}

	return variants, nil
}
