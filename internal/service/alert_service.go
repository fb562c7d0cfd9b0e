package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AlertService manages smart alert definitions and evaluates them against
// the realtime metrics on the scheduler tick.
type AlertService struct {
	alerts     repository.AlertRepository
	metrics    repository.MetricsRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAlertService wires dependencies.
func NewAlertService(alerts repository.AlertRepository, metrics repository.MetricsRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AlertService {
	return &AlertService{
		alerts:     alerts,
		metrics:    metrics,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// AlertInput carries an alert create/update payload.
type AlertInput struct {
	Name            string
	Metric          domain.AlertMetric
	Operator        domain.AlertOperator
	Threshold       float64
	Enabled         bool
	CooldownMinutes int
}

func validateAlertInput(input AlertInput) error {
	if input.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	switch input.Metric {
	case domain.MetricOpenTickets, domain.MetricBreachedTickets, domain.MetricTicketsToday, domain.MetricAvgResolutionHours:
	default:
		return apperrors.NewValidationError("unknown metric", map[string]any{"metric": input.Metric})
	}
	switch input.Operator {
	case domain.OperatorGreaterThan, domain.OperatorLessThan, domain.OperatorEquals:
	default:
		return apperrors.NewValidationError("unknown operator", map[string]any{"operator": input.Operator})
	}
	if input.CooldownMinutes < 0 {
		return apperrors.NewValidationError("cooldown must not be negative", nil)
	}
	return nil
}

// CreateAlert registers a new threshold check.
func (s *AlertService) CreateAlert(ctx context.Context, actor Actor, input AlertInput) (*domain.SmartAlert, error) {
	if err := validateAlertInput(input); err != nil {
		return nil, err
	}
	alert := &domain.SmartAlert{
		Name:            input.Name,
		Metric:          input.Metric,
		Operator:        input.Operator,
		Threshold:       input.Threshold,
		Enabled:         input.Enabled,
		CooldownMinutes: input.CooldownMinutes,
		CreatedBy:       actor.ID,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// UpdateAlert rewrites an existing alert definition.
func (s *AlertService) UpdateAlert(ctx context.Context, id string, input AlertInput) (*domain.SmartAlert, error) {
	if err := validateAlertInput(input); err != nil {
		return nil, err
	}
	alert, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	alert.Name = input.Name
	alert.Metric = input.Metric
	alert.Operator = input.Operator
	alert.Threshold = input.Threshold
	alert.Enabled = input.Enabled
	alert.CooldownMinutes = input.CooldownMinutes
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// DeleteAlert removes an alert and its history.
func (s *AlertService) DeleteAlert(ctx context.Context, id string) error {
	return s.alerts.Delete(ctx, id)
}

// ListAlerts returns all configured alerts.
func (s *AlertService) ListAlerts(ctx context.Context) ([]domain.SmartAlert, error) {
	return s.alerts.List(ctx)
}

// History lists recent triggers for one alert.
func (s *AlertService) History(ctx context.Context, alertID string, limit int) ([]domain.AlertHistory, error) {
	if _, err := s.alerts.GetByID(ctx, alertID); err != nil {
		return nil, err
	}
	return s.alerts.ListHistory(ctx, alertID, limit)
}

// ShouldTrigger reports whether the metric value satisfies the alert
// condition and the cooldown window has passed.
func ShouldTrigger(alert domain.SmartAlert, value float64, now time.Time) bool {
	if alert.LastTriggeredAt != nil && alert.CooldownMinutes > 0 {
		if now.Sub(*alert.LastTriggeredAt) < time.Duration(alert.CooldownMinutes)*time.Minute {
			return false
		}
	}
	switch alert.Operator {
	case domain.OperatorGreaterThan:
		return value > alert.Threshold
	case domain.OperatorLessThan:
		return value < alert.Threshold
	case domain.OperatorEquals:
		return value == alert.Threshold
	default:
		return false
	}
}

// Evaluate runs every enabled alert against the current metric snapshot,
// records triggers in history and publishes an event per trigger. Returns
// the number of alerts that fired.
func (s *AlertService) Evaluate(ctx context.Context, now time.Time) (int, error) {
	enabled, err := s.alerts.ListEnabled(ctx)
	if err != nil {
		return 0, err
	}
	if len(enabled) == 0 {
		return 0, nil
	}

	snapshot, err := s.metrics.Realtime(ctx, now)
	if err != nil {
		return 0, err
	}

	fired := 0
	for i := range enabled {
		alert := enabled[i]
		value, ok := snapshot.Value(alert.Metric)
		if !ok {
			s.logger.Warn("alert references unknown metric",
				zap.String("alert_id", alert.ID),
				zap.String("metric", string(alert.Metric)))
			continue
		}
		if !ShouldTrigger(alert, value, now) {
			continue
		}

		if err := s.alerts.MarkTriggered(ctx, alert.ID, now); err != nil {
			s.logger.Error("mark alert triggered failed", zap.String("alert_id", alert.ID), zap.Error(err))
			continue
		}
		entry := &domain.AlertHistory{
			AlertID:     alert.ID,
			Metric:      alert.Metric,
			Value:       value,
			Threshold:   alert.Threshold,
			TriggeredAt: now,
		}
		if err := s.alerts.AddHistory(ctx, entry); err != nil {
			s.logger.Error("alert history write failed", zap.String("alert_id", alert.ID), zap.Error(err))
		}

		fired++
		s.logger.Info("smart alert triggered",
			zap.String("alert_id", alert.ID),
			zap.String("name", alert.Name),
			zap.Float64("value", value),
			zap.Float64("threshold", alert.Threshold))

		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventAlertTriggered,
				Table:     "smart_alerts",
				Change:    events.ChangeUpdate,
				Actor:     events.Actor{Type: domain.ActorTypeSystem},
				Timestamp: now,
				Payload: events.AlertTriggeredPayload{
					AlertID:   alert.ID,
					Metric:    alert.Metric,
					Value:     value,
					Threshold: alert.Threshold,
				},
			})
		}
	}
	return fired, nil
}
