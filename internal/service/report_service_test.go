package service

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestPeriodRange(t *testing.T) {
	now := time.Date(2025, 5, 15, 8, 0, 0, 0, time.UTC)

	from, to := PeriodRange(domain.ReportPeriodDaily, now)
	if !to.Equal(now) || !from.Equal(now.AddDate(0, 0, -1)) {
		t.Fatalf("daily range = [%v, %v)", from, to)
	}

	from, _ = PeriodRange(domain.ReportPeriodWeekly, now)
	if !from.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("weekly from = %v", from)
	}

	from, _ = PeriodRange(domain.ReportPeriodMonthly, now)
	if !from.Equal(time.Date(2025, 4, 15, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("monthly from = %v", from)
	}
}

func TestNextRunAt(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	if got := NextRunAt(domain.ReportPeriodDaily, now); !got.Equal(now.AddDate(0, 0, 1)) {
		t.Fatalf("daily next = %v", got)
	}
	if got := NextRunAt(domain.ReportPeriodWeekly, now); !got.Equal(now.AddDate(0, 0, 7)) {
		t.Fatalf("weekly next = %v", got)
	}
	// Jan 31 + 1 month normalizes to Mar 3 in non-leap years; the scheduler
	// only needs the run to land forward of the current one.
	if got := NextRunAt(domain.ReportPeriodMonthly, now); !got.After(now) {
		t.Fatalf("monthly next = %v", got)
	}
}
