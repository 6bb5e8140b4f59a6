package repository

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/langchou/evrange/internal/models"
)

// MemoryVariantRepository 内存中的车型目录（未配置数据库时使用）
type MemoryVariantRepository struct {
	mu       sync.RWMutex
	variants map[int64]*models.Variant
}

// catalogFile 种子文件格式
type catalogFile struct {
	Variants []*models.Variant `yaml:"variants"`
}

// NewMemoryVariantRepository 创建内存仓库
func NewMemoryVariantRepository(variants ...*models.Variant) *MemoryVariantRepository {
	r := &MemoryVariantRepository{variants: make(map[int64]*models.Variant)}
	for _, v := range variants {
		r.put(v)
	}
	return r
}

// LoadCatalogFile 从 YAML 种子文件加载
func LoadCatalogFile(path string) (*MemoryVariantRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog 解析 YAML 目录
func ParseCatalog(data []byte) (*MemoryVariantRepository, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	r := NewMemoryVariantRepository()
	for i, v := range file.Variants {
		if v == nil {
			continue
		}
		if v.ID == 0 {
			return nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, exists := r.variants[v.ID]; exists {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %d", i, v.ID)
		}
		if err := checkFinite(v); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		r.put(v)
	}
	return r, nil
}

// checkFinite 拒绝 .inf / .nan 这类非有限数值
func checkFinite(v *models.Variant) error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"real_world_range_km", v.RealWorldRangeKm},
		{"weight_kg", v.WeightKg},
		{"usable_battery_capacity_kwh", v.UsableBatteryCapacityKwh},
		{"fast_charging_time_min", v.FastChargingTimeMin},
	}
	for _, f := range fields {
		if f.value != nil && (math.IsNaN(*f.value) || math.IsInf(*f.value, 0)) {
			return fmt.Errorf("%s: non-finite value", f.name)
		}
	}
	return nil
}

func (r *MemoryVariantRepository) put(v *models.Variant) {
	now := time.Now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}
	r.variants[v.ID] = v
}

// GetByID 通过 ID 获取车型版本
func (r *MemoryVariantRepository) GetByID(_ context.Context, id int64) (*models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.variants[id]
	if !ok {
		return nil, fmt.Errorf("get variant %d: %w", id, ErrNotFound)
	}
	// 返回副本
	vCopy := *v
	return &vCopy, nil
}

// List 获取所有车型版本
func (r *MemoryVariantRepository) List(_ context.Context) ([]*models.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	variants := make([]*models.Variant, 0, len(r.variants))
	for _, v := range r.variants {
		vCopy := *v
		variants = append(variants, &vCopy)
	}
	sort.Slice(variants, func(i, j int) bool {
		a, b := variants[i], variants[j]
		if a.ManufacturerName != b.ManufacturerName {
			return a.ManufacturerName < b.ManufacturerName
		}
		if a.ModelName != b.ModelName {
			return a.ModelName < b.ModelName
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return variants, nil
}

// Len 目录中的车型数量
func (r *MemoryVariantRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.variants)
}
