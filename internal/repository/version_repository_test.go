package repository

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestRevertResolvedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	t.Run("terminal snapshot on unstamped row stamps revert time", func(t *testing.T) {
		got := revertResolvedAt(nil, domain.TicketStatusResolved, now)
		if got == nil || !got.Equal(now) {
			t.Fatalf("resolved_at = %v, want %v", got, now)
		}
	})

	t.Run("existing stamp survives", func(t *testing.T) {
		got := revertResolvedAt(&earlier, domain.TicketStatusClosed, now)
		if got == nil || !got.Equal(earlier) {
			t.Fatalf("resolved_at = %v, want %v", got, earlier)
		}
	})

	t.Run("non-terminal snapshot clears stamp", func(t *testing.T) {
		if got := revertResolvedAt(&earlier, domain.TicketStatusOpen, now); got != nil {
			t.Fatalf("resolved_at = %v, want nil", got)
		}
	})
}
