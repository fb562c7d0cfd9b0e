package service

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/analytics"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/export"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportService manages auto report configurations, generates the periodic
// summaries and renders exports.
type ReportService struct {
	reports    repository.ReportRepository
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
	slaPolicy  sla.Policy
	maxRows    int
	logger     *zap.Logger
}

// NewReportService wires dependencies.
func NewReportService(
	reports repository.ReportRepository,
	tickets repository.TicketRepository,
	customers repository.CustomerRepository,
	dispatcher events.Dispatcher,
	slaPolicy sla.Policy,
	maxRows int,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:    reports,
		tickets:    tickets,
		customers:  customers,
		dispatcher: dispatcher,
		slaPolicy:  slaPolicy,
		maxRows:    maxRows,
		logger:     logger,
	}
}

// ReportInput carries a report create/update payload.
type ReportInput struct {
	Name       string
	Period     domain.ReportPeriod
	Format     domain.ReportFormat
	Recipients []string
	Enabled    bool
}

func validateReportInput(input ReportInput) error {
	if input.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	switch input.Period {
	case domain.ReportPeriodDaily, domain.ReportPeriodWeekly, domain.ReportPeriodMonthly:
	default:
		return apperrors.NewValidationError("unknown period", map[string]any{"period": input.Period})
	}
	switch input.Format {
	case domain.ReportFormatCSV, domain.ReportFormatExcel, domain.ReportFormatJSON:
	default:
		return apperrors.NewValidationError("unknown format", map[string]any{"format": input.Format})
	}
	return nil
}

// CreateReport registers an auto report. The first run is scheduled at the
// next period boundary.
func (s *ReportService) CreateReport(ctx context.Context, actor Actor, input ReportInput) (*domain.AutoReport, error) {
	if err := validateReportInput(input); err != nil {
		return nil, err
	}
	next := NextRunAt(input.Period, time.Now())
	report := &domain.AutoReport{
		Name:       input.Name,
		Period:     input.Period,
		Format:     input.Format,
		Recipients: input.Recipients,
		Enabled:    input.Enabled,
		NextRunAt:  &next,
		CreatedBy:  actor.ID,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateReport rewrites the configuration; a period change reschedules the
// next run.
func (s *ReportService) UpdateReport(ctx context.Context, id string, input ReportInput) (*domain.AutoReport, error) {
	if err := validateReportInput(input); err != nil {
		return nil, err
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Period != input.Period {
		next := NextRunAt(input.Period, time.Now())
		report.NextRunAt = &next
	}
	report.Name = input.Name
	report.Period = input.Period
	report.Format = input.Format
	report.Recipients = input.Recipients
	report.Enabled = input.Enabled
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// DeleteReport removes a report and its history.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.reports.Delete(ctx, id)
}

// GetReport fetches one configuration.
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.AutoReport, error) {
	return s.reports.GetByID(ctx, id)
}

// ListReports returns every configured report.
func (s *ReportService) ListReports(ctx context.Context) ([]domain.AutoReport, error) {
	return s.reports.List(ctx)
}

// History lists past runs of one report.
func (s *ReportService) History(ctx context.Context, reportID string, limit int) ([]domain.ReportHistory, error) {
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.reports.ListHistory(ctx, reportID, limit)
}

// PeriodRange gives the window [from, to) a report run covers, ending at now.
func PeriodRange(period domain.ReportPeriod, now time.Time) (time.Time, time.Time) {
	switch period {
	case domain.ReportPeriodWeekly:
		return now.AddDate(0, 0, -7), now
	case domain.ReportPeriodMonthly:
		return now.AddDate(0, -1, 0), now
	default:
		return now.AddDate(0, 0, -1), now
	}
}

// NextRunAt schedules the following run after a run at now.
func NextRunAt(period domain.ReportPeriod, now time.Time) time.Time {
	switch period {
	case domain.ReportPeriodWeekly:
		return now.AddDate(0, 0, 7)
	case domain.ReportPeriodMonthly:
		return now.AddDate(0, 1, 0)
	default:
		return now.AddDate(0, 0, 1)
	}
}

// Generate runs one report now: aggregates tickets in the period window,
// stores the summary in history and publishes an event.
func (s *ReportService) Generate(ctx context.Context, report *domain.AutoReport, now time.Time) (*domain.ReportHistory, error) {
	from, to := PeriodRange(report.Period, now)
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatedFrom: &from,
		CreatedTo:   &to,
		Limit:       s.maxRows,
	})
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.List(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}
	summary := analytics.Aggregate(tickets, customers, now)

	payload, err := summaryPayload(summary)
	if err != nil {
		return nil, err
	}
	entry := &domain.ReportHistory{
		ReportID:    report.ID,
		Period:      report.Period,
		RangeFrom:   from,
		RangeTo:     to,
		Payload:     payload,
		GeneratedAt: now,
	}
	if err := s.reports.AddHistory(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.reports.MarkRun(ctx, report.ID, now, NextRunAt(report.Period, now)); err != nil {
		return nil, err
	}

	s.logger.Info("auto report generated",
		zap.String("report_id", report.ID),
		zap.String("period", string(report.Period)),
		zap.Int("tickets", len(tickets)))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReportGenerated,
			Table:     "auto_reports",
			Change:    events.ChangeUpdate,
			Actor:     events.Actor{Type: domain.ActorTypeSystem},
			Timestamp: now,
			Payload: events.ReportGeneratedPayload{
				ReportID:  report.ID,
				HistoryID: entry.ID,
				Period:    report.Period,
			},
		})
	}
	return entry, nil
}

// RunDue generates every enabled report whose next run time has passed.
func (s *ReportService) RunDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reports.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}
	ran := 0
	for i := range due {
		if _, err := s.Generate(ctx, &due[i], now); err != nil {
			s.logger.Error("report generation failed", zap.String("report_id", due[i].ID), zap.Error(err))
			continue
		}
		ran++
	}
	return ran, nil
}

// ExportTickets renders the filtered ticket list to the requested format.
// Returns the content type and file extension alongside writing the body.
func (s *ReportService) ExportTickets(ctx context.Context, w io.Writer, filter repository.TicketFilter, format domain.ReportFormat, now time.Time) (contentType string, ext string, err error) {
	if filter.Limit <= 0 || filter.Limit > s.maxRows {
		filter.Limit = s.maxRows
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return "", "", err
	}
	dataset := export.TicketDataset(tickets, s.slaPolicy, now)

	switch format {
	case domain.ReportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", export.WriteExcel(w, dataset)
	case domain.ReportFormatJSON:
		return "application/json", "json", export.WriteJSON(w, dataset)
	case domain.ReportFormatCSV:
		return "text/csv", "csv", export.WriteCSV(w, dataset)
	default:
		return "", "", apperrors.NewValidationError("unknown format", map[string]any{"format": format})
	}
}

func summaryPayload(summary analytics.Summary) (map[string]any, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
