package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polibest/api/internal/models"
)

type fakeCounter struct {
	count int
	err   error
}

func (f *fakeCounter) Count(ctx context.Context) (int, error) {
	return f.count, f.err
}

type fakeCalcStats struct {
	count   int
	revenue float64
	recent  []models.Calculation
}

func (f *fakeCalcStats) IncludedStats(ctx context.Context) (int, float64, error) {
	return f.count, f.revenue, nil
}

func (f *fakeCalcStats) RecentIncluded(ctx context.Context, limit int) ([]models.Calculation, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func TestDashboard_Aggregates(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(
		&fakeCounter{count: 12},
		&fakeCalcStats{count: 4, revenue: 150000.50, recent: []models.Calculation{{ID: "calc1"}}},
		&fakeCounter{count: 7},
		nil,
		zerolog.Nop(),
	)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.ProductsCount)
	assert.Equal(t, 4, stats.CalculationsCount)
	assert.Equal(t, 7, stats.DocumentsCount)
	assert.Equal(t, 150000.50, stats.TotalRevenue)
	require.Len(t, stats.RecentCalculations, 1)
	assert.Equal(t, "calc1", stats.RecentCalculations[0].ID)
}

func TestDashboard_EmptyRecentIsNotNull(t *testing.T) {
	t.Parallel()

	svc := NewStatsService(
		&fakeCounter{},
		&fakeCalcStats{},
		&fakeCounter{},
		nil,
		zerolog.Nop(),
	)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats.RecentCalculations)
	assert.Empty(t, stats.RecentCalculations)
}

func TestDashboard_PropagatesCountErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("relation does not exist")
	svc := NewStatsService(
		&fakeCounter{err: boom},
		&fakeCalcStats{},
		&fakeCounter{},
		nil,
		zerolog.Nop(),
	)

	_, err := svc.Dashboard(context.Background())
	require.ErrorIs(t, err, boom)
}
