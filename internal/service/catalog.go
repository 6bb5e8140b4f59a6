package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/metrics"
	"github.com/langchou/evrange/internal/models"
	"github.com/langchou/evrange/internal/rating"
)

// MaxCompare 最多同时对比的车型数
const MaxCompare = 3

var (
	// ErrInsufficientData 缺少实测续航，无法计算
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNoVehicles 对比列表为空
	ErrNoVehicles = errors.New("no vehicles to compare")
	// ErrTooManyVehicles 对比车型超过上限
	ErrTooManyVehicles = fmt.Errorf("at most %d vehicles can be compared", MaxCompare)
)

// VariantStore 车型数据来源
type VariantStore interface {
	GetByID(ctx context.Context, id int64) (*models.Variant, error)
	List(ctx context.Context) ([]*models.Variant, error)
}

// VariantSummary 列表项
type VariantSummary struct {
	*models.Variant
	DisplayName    string   `json:"display_name"`
	StarRating     *float64 `json:"star_rating"`
	OneStopRangeKm *float64 `json:"one_stop_range_km"`
}

// VariantDetail 车型详情
type VariantDetail struct {
	Variant      *models.Variant  `json:"variant"`
	DisplayName  string           `json:"display_name"`
	LongDistance *rating.Metrics  `json:"long_distance"`
	Estimate     estimator.Result `json:"baseline_estimate"`
}

// Comparison 对比中的一项
type Comparison struct {
	Variant      *models.Variant  `json:"variant"`
	DisplayName  string           `json:"display_name"`
	Estimate     estimator.Result `json:"estimate"`
	LongDistance *rating.Metrics  `json:"long_distance"`
}

// CatalogService 车型目录服务：查找车型并运行续航估算和长途评分
type CatalogService struct {
	logger  *zap.Logger
	store   VariantStore
	metrics *metrics.Metrics
}

// NewCatalogService 创建目录服务
func NewCatalogService(logger *zap.Logger, store VariantStore, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		logger:  logger,
		store:   store,
		metrics: m,
	}
}

// ListVariants 获取车型列表（附带长途评分）
func (s *CatalogService) ListVariants(ctx context.Context) ([]*VariantSummary, error) {
	variants, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	summaries := make([]*VariantSummary, 0, len(variants))
	for _, v := range variants {
		sum := &VariantSummary{Variant: v, DisplayName: v.DisplayName()}
		if m, ok := rating.Calculate(v.Profile()); ok {
			sum.StarRating = &m.StarRating
			sum.OneStopRangeKm = &m.OneStopRangeKm
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// GetVariant 获取车型详情
func (s *CatalogService) GetVariant(ctx context.Context, id int64) (*VariantDetail, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &VariantDetail{
		Variant:     v,
		DisplayName: v.DisplayName(),
		Estimate:    s.compute(v, estimator.DefaultInputs()),
	}
	detail.LongDistance = s.longDistance(v)
	return detail, nil
}

// Profile 获取车型的续航参数（估算会话使用）
func (s *CatalogService) Profile(ctx context.Context, id int64) (*models.Variant, models.RangeProfile, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, models.RangeProfile{}, err
	}
	return v, v.Profile(), nil
}

// Estimate 在给定条件下估算续航
func (s *CatalogService) Estimate(ctx context.Context, id int64, in estimator.Inputs) (estimator.Result, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return estimator.Result{}, err
	}
	return s.compute(v, in), nil
}

// LongDistance 计算长途指标；缺少实测续航时返回 ErrInsufficientData
func (s *CatalogService) LongDistance(ctx context.Context, id int64) (*rating.Metrics, error) {
	v, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := s.longDistance(v)
	if m == nil {
		return nil, fmt.Errorf("variant %d: %w", id, ErrInsufficientData)
	}
	return m, nil
}

// Compare 对比 1~3 款车型，估算使用同一组输入
func (s *CatalogService) Compare(ctx context.Context, ids []int64, in estimator.Inputs) ([]*Comparison, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, ErrNoVehicles
	}
	if len(ids) > MaxCompare {
		return nil, ErrTooManyVehicles
	}

	out := make([]*Comparison, 0, len(ids))
	for _, id := range ids {
		v, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, &Comparison{
			Variant:      v,
			DisplayName:  v.DisplayName(),
			Estimate:     s.compute(v, in),
			LongDistance: s.longDistance(v),
		})
	}

	s.logger.Debug("Compared variants", zap.Int64s("variant_ids", ids))
	return out, nil
}

// ObserveSessionResult 记录估算会话中的一次计算
func (s *CatalogService) ObserveSessionResult(res estimator.Result) {
	s.metrics.ObserveEstimate(res.EstimatedRangeKm != nil)
}

func (s *CatalogService) compute(v *models.Variant, in estimator.Inputs) estimator.Result {
	res := estimator.Compute(v.Profile(), in)
	s.metrics.ObserveEstimate(res.EstimatedRangeKm != nil)
	if res.EstimatedRangeKm == nil {
		s.logger.Debug("Range estimate unavailable",
			zap.Int64("variant_id", v.ID),
			zap.Bool("has_range", v.Profile().HasRange()),
			zap.Bool("has_weight", v.Profile().HasWeight()),
		)
	}
	return res
}

func (s *CatalogService) longDistance(v *models.Variant) *rating.Metrics {
	m, ok := rating.Calculate(v.Profile())
	s.metrics.ObserveRating(ok)
	if !ok {
		return nil
	}
	return m
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
