package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"polibest/api/internal/models"
)

const (
	dashboardCacheKey = "stats:dashboard"
	dashboardCacheTTL = 60 * time.Second
	recentCalcsLimit  = 5
)

type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
}

type CalculationStats interface {
	IncludedStats(ctx context.Context) (count int, totalRevenue float64, err error)
	RecentIncluded(ctx context.Context, limit int) ([]models.Calculation, error)
}

type DashboardStats struct {
	ProductsCount      int                  `json:"products_count"`
	CalculationsCount  int                  `json:"calculations_count"`
	DocumentsCount     int                  `json:"documents_count"`
	TotalRevenue       float64              `json:"total_revenue"`
	RecentCalculations []models.Calculation `json:"recent_calculations"`
}

// StatsService builds the dashboard snapshot, with a short Redis
// cache-aside in front of the aggregate queries. A nil cache disables
// caching.
type StatsService struct {
	products     ProductCounter
	calculations CalculationStats
	documents    DocumentCounter
	cache        *redis.Client
	log          zerolog.Logger
}

func NewStatsService(
	products ProductCounter,
	calculations CalculationStats,
	documents DocumentCounter,
	cache *redis.Client,
	log zerolog.Logger,
) *StatsService {
	return &StatsService{
		products:     products,
		calculations: calculations,
		documents:    documents,
		cache:        cache,
		log:          log,
	}
}

func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var stats DashboardStats

	productsCount, err := s.products.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.ProductsCount = productsCount

	documentsCount, err := s.documents.Count(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.DocumentsCount = documentsCount

	includedCount, totalRevenue, err := s.calculations.IncludedStats(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.CalculationsCount = includedCount
	stats.TotalRevenue = totalRevenue

	recent, err := s.calculations.RecentIncluded(ctx, recentCalcsLimit)
	if err != nil {
		return DashboardStats{}, err
	}
	if recent == nil {
		recent = []models.Calculation{}
	}
	stats.RecentCalculations = recent

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) (DashboardStats, bool) {
	if s.cache == nil {
		return DashboardStats{}, false
	}

	payload, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Debug().Err(err).Msg("dashboard cache read failed")
		}
		return DashboardStats{}, false
	}

	var stats DashboardStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		s.log.Debug().Err(err).Msg("dashboard cache decode failed")
		return DashboardStats{}, false
	}
	return stats, true
}

func (s *StatsService) toCache(ctx context.Context, stats DashboardStats) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
		s.log.Debug().Err(err).Msg("dashboard cache write failed")
	}
}
