package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const realtimeMetricsKey = "helpdesk:metrics:realtime"

// DashboardService serves the analytics summary, realtime headline metrics
// and per-user widget layouts.
type DashboardService struct {
	tickets   repository.TicketRepository
	customers repository.CustomerRepository
	metrics   repository.MetricsRepository
	widgets   repository.WidgetRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewDashboardService wires dependencies. cache may be nil; metrics then hit
// Postgres on every call.
func NewDashboardService(
	tickets repository.TicketRepository,
	customers repository.CustomerRepository,
	metrics repository.MetricsRepository,
	widgets repository.WidgetRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		tickets:   tickets,
		customers: customers,
		metrics:   metrics,
		widgets:   widgets,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Summary recomputes the full analytics rollup for the given filter. The
// aggregation scans the whole filtered set rather than a page.
func (s *DashboardService) Summary(ctx context.Context, filter repository.TicketFilter, now time.Time) (analytics.Summary, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10000
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return analytics.Summary{}, err
	}
	customers, err := s.customers.List(ctx, 1000, 0)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Aggregate(tickets, customers, now), nil
}

// RealtimeMetrics returns the dashboard headline counters, served from the
// short-lived cache when fresh.
func (s *DashboardService) RealtimeMetrics(ctx context.Context, now time.Time) (repository.RealtimeMetrics, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, realtimeMetricsKey).Bytes()
		if err == nil {
			var cached repository.RealtimeMetrics
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("metrics cache read failed", zap.Error(err))
		}
	}

	metrics, err := s.metrics.Realtime(ctx, now)
	if err != nil {
		return repository.RealtimeMetrics{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(metrics); err == nil {
			if err := s.cache.Set(ctx, realtimeMetricsKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("metrics cache write failed", zap.Error(err))
			}
		}
	}
	return metrics, nil
}

// InvalidateMetrics drops the cached headline counters. Called after writes
// that should show up immediately.
func (s *DashboardService) InvalidateMetrics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, realtimeMetricsKey).Err(); err != nil {
		s.logger.Warn("metrics cache invalidation failed", zap.Error(err))
	}
}

// WidgetInput carries a widget create/update payload.
type WidgetInput struct {
	Type     domain.WidgetType
	Title    string
	Position domain.WidgetPosition
	Config   map[string]any
}

var validWidgetTypes = map[domain.WidgetType]bool{
	domain.WidgetTicketStats:     true,
	domain.WidgetStatusBreakdown: true,
	domain.WidgetCategoryChart:   true,
	domain.WidgetAgentLoad:       true,
	domain.WidgetDailyTrend:      true,
}

// CreateWidget adds a widget to the owner's dashboard.
func (s *DashboardService) CreateWidget(ctx context.Context, ownerID string, input WidgetInput) (*domain.DashboardWidget, error) {
	if !validWidgetTypes[input.Type] {
		return nil, apperrors.NewValidationError("unknown widget type", map[string]any{"type": input.Type})
	}
	widget := &domain.DashboardWidget{
		OwnerID:  ownerID,
		Type:     input.Type,
		Title:    input.Title,
		Position: input.Position,
		Config:   input.Config,
	}
	if err := s.widgets.Create(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

// UpdateWidget edits title, position or config. Only the owner may edit.
func (s *DashboardService) UpdateWidget(ctx context.Context, ownerID, widgetID string, input WidgetInput) (*domain.DashboardWidget, error) {
	widget, err := s.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if widget.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("widget belongs to another user")
	}
	if input.Type != "" {
		if !validWidgetTypes[input.Type] {
			return nil, apperrors.NewValidationError("unknown widget type", map[string]any{"type": input.Type})
		}
		widget.Type = input.Type
	}
	if input.Title != "" {
		widget.Title = input.Title
	}
	widget.Position = input.Position
	if input.Config != nil {
		widget.Config = input.Config
	}
	if err := s.widgets.Update(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

// DeleteWidget removes a widget after an ownership check.
func (s *DashboardService) DeleteWidget(ctx context.Context, ownerID, widgetID string) error {
	widget, err := s.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return err
	}
	if widget.OwnerID != ownerID {
		return apperrors.NewForbidden("widget belongs to another user")
	}
	return s.widgets.Delete(ctx, widgetID)
}

// ListWidgets returns the owner's dashboard layout.
func (s *DashboardService) ListWidgets(ctx context.Context, ownerID string) ([]domain.DashboardWidget, error) {
	return s.widgets.ListByOwner(ctx, ownerID)
}

// WidgetData resolves the data slice a single widget renders.
func (s *DashboardService) WidgetData(ctx context.Context, widget *domain.DashboardWidget, now time.Time) (any, error) {
	summary, err := s.Summary(ctx, repository.TicketFilter{}, now)
	if err != nil {
		return nil, err
	}
	switch widget.Type {
	case domain.WidgetTicketStats:
		return summary.Stats, nil
	case domain.WidgetStatusBreakdown:
		return map[string]int{
			"open":        summary.Stats.Open,
			"in_progress": summary.Stats.InProgress,
			"resolved":    summary.Stats.Resolved,
			"closed":      summary.Stats.Closed,
			"draft":       summary.Stats.Draft,
		}, nil
	case domain.WidgetCategoryChart:
		return summary.Categories, nil
	case domain.WidgetAgentLoad:
		return summary.Agents, nil
	case domain.WidgetDailyTrend:
		return summary.Trend, nil
	default:
		return nil, apperrors.NewValidationError("unknown widget type", map[string]any{"type": widget.Type})
	}
}
