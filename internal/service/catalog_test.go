package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/metrics"
	"github.com/langchou/evrange/internal/models"
	"github.com/langchou/evrange/internal/repository"
)

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	store := repository.NewMemoryVariantRepository(
		&models.Variant{
			ID:                       1,
			ManufacturerName:         "Tata",
			ModelName:                "Nexon EV",
			Name:                     "LR",
			RealWorldRangeKm:         models.Float64(350),
			WeightKg:                 models.Float64(1600),
			UsableBatteryCapacityKwh: models.Float64(50),
			FastChargingTimeMin:      models.Float64(30),
		},
		&models.Variant{
			ID:               2,
			ManufacturerName: "MG",
			ModelName:        "ZS EV",
			RealWorldRangeKm: models.Float64(400),
		},
		&models.Variant{ID: 3, ManufacturerName: "BYD", ModelName: "Atto 3"},
		&models.Variant{ID: 4, ManufacturerName: "Hyundai", ModelName: "Kona", RealWorldRangeKm: models.Float64(300), WeightKg: models.Float64(1500)},
	)
	return NewCatalogService(zap.NewNop(), store, m)
}

func TestListVariants(t *testing.T) {
	svc := newTestService(t)
	list, err := svc.ListVariants(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)

	// BYD, Hyundai, MG, Tata
	assert.Equal(t, int64(3), list[0].ID)
	assert.Nil(t, list[0].StarRating)
	assert.Equal(t, "Tata Nexon EV LR", list[3].DisplayName)
	require.NotNil(t, list[3].StarRating)
	assert.Equal(t, 3.0, *list[3].StarRating)
}

func TestGetVariant(t *testing.T) {
	svc := newTestService(t)

	detail, err := svc.GetVariant(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, detail.LongDistance)
	assert.Equal(t, 437.5, detail.LongDistance.OneStopRangeKm)
	require.NotNil(t, detail.Estimate.EstimatedRangeKm)
	assert.Equal(t, 350, *detail.Estimate.EstimatedRangeKm)

	detail, err = svc.GetVariant(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, detail.LongDistance)
	assert.Nil(t, detail.Estimate.EstimatedRangeKm)

	_, err = svc.GetVariant(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEstimate(t *testing.T) {
	svc := newTestService(t)

	in := estimator.DefaultInputs()
	in.TemperatureC = 5
	res, err := svc.Estimate(context.Background(), 1, in)
	require.NoError(t, err)
	require.NotNil(t, res.EstimatedRangeKm)
	assert.Less(t, *res.EstimatedRangeKm, 350)

	// 缺少整备质量时不给出估算
	res, err = svc.Estimate(context.Background(), 2, estimator.DefaultInputs())
	require.NoError(t, err)
	assert.Nil(t, res.EstimatedRangeKm)
}

func TestLongDistance(t *testing.T) {
	svc := newTestService(t)

	m, err := svc.LongDistance(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, m.CanFastCharge)
	assert.Equal(t, 360.0, m.OneStopRangeKm)

	_, err = svc.LongDistance(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCompare(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	out, err := svc.Compare(ctx, []int64{1, 4, 1}, estimator.DefaultInputs())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].Variant.ID)
	assert.Equal(t, 300, *out[1].Estimate.EstimatedRangeKm)

	_, err = svc.Compare(ctx, nil, estimator.DefaultInputs())
	assert.ErrorIs(t, err, ErrNoVehicles)

	_, err = svc.Compare(ctx, []int64{1, 2, 3, 4}, estimator.DefaultInputs())
	assert.ErrorIs(t, err, ErrTooManyVehicles)

	_, err = svc.Compare(ctx, []int64{1, 99}, estimator.DefaultInputs())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
