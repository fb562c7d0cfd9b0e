package repository

// Integration tests against a real Postgres. Set TEST_DATABASE_URL to run;
// they skip otherwise.

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := persistence.RunMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func seedTicket(t *testing.T, ctx context.Context, pool *pgxpool.Pool, status domain.TicketStatus, resolvedAt *time.Time) string {
	t.Helper()
	var customerID string
	if err := pool.QueryRow(ctx,
		`INSERT INTO customers (name, email) VALUES ($1, $2) RETURNING id`,
		"Acme Corp", uuid.NewString()+"@example.com").Scan(&customerID); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	var ticketID string
	if err := pool.QueryRow(ctx, `
        INSERT INTO tickets (title, status, priority, customer_id, resolved_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"printer on fire", status, domain.TicketPriorityMedium, customerID, resolvedAt,
	).Scan(&ticketID); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, ticketID)
		pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, customerID)
	})
	return ticketID
}

func TestVersionNumbersSequential(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	ticketID := seedTicket(t, ctx, pool, domain.TicketStatusOpen, nil)
	repo := NewVersionRepository(pool)

	snap := domain.TicketSnapshot{
		Title:    "printer on fire",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityMedium,
	}
	for want := 1; want <= 3; want++ {
		version, err := repo.CreateVersion(ctx, ticketID, snap, nil, "edit", domain.VersionChangeAuto)
		if err != nil {
			t.Fatalf("create version: %v", err)
		}
		if version.VersionNumber != want {
			t.Fatalf("version number = %d, want %d", version.VersionNumber, want)
		}
	}

	_, reverted, err := repo.RevertToVersion(ctx, ticketID, 1, nil, "undo edits")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.VersionNumber != 4 {
		t.Fatalf("revert version number = %d, want 4", reverted.VersionNumber)
	}

	reverts, err := repo.ListReverts(ctx, ticketID)
	if err != nil {
		t.Fatalf("list reverts: %v", err)
	}
	if len(reverts) != 1 || reverts[0].FromVersion != 3 || reverts[0].ToVersion != 1 {
		t.Fatalf("unexpected reverts: %+v", reverts)
	}
}

func TestRevertToTerminalSnapshotStampsResolvedAt(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	ticketID := seedTicket(t, ctx, pool, domain.TicketStatusOpen, nil)
	repo := NewVersionRepository(pool)

	snap := domain.TicketSnapshot{
		Title:    "printer on fire",
		Status:   domain.TicketStatusResolved,
		Priority: domain.TicketPriorityMedium,
	}
	if _, err := repo.CreateVersion(ctx, ticketID, snap, nil, "resolved state", domain.VersionChangeManual); err != nil {
		t.Fatalf("create version: %v", err)
	}

	ticket, _, err := repo.RevertToVersion(ctx, ticketID, 1, nil, "restore resolution")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if ticket.ResolvedAt == nil {
		t.Fatal("reverting an unstamped ticket to a resolved snapshot left resolved_at nil")
	}

	var stored *time.Time
	if err := pool.QueryRow(ctx, `SELECT resolved_at FROM tickets WHERE id = $1`, ticketID).Scan(&stored); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if stored == nil {
		t.Fatal("stored resolved_at is NULL for a resolved ticket")
	}
}

func TestBulkStatusKeepsExistingResolvedAt(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	stamp := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	resolvedID := seedTicket(t, ctx, pool, domain.TicketStatusResolved, &stamp)
	openID := seedTicket(t, ctx, pool, domain.TicketStatusOpen, nil)
	repo := NewTicketRepository(pool)

	now := time.Now()
	affected, err := repo.UpdateStatusBulk(ctx, []string{resolvedID, openID}, domain.TicketStatusClosed, &now)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if affected != 2 {
		t.Fatalf("affected = %d, want 2", affected)
	}

	var kept *time.Time
	if err := pool.QueryRow(ctx, `SELECT resolved_at FROM tickets WHERE id = $1`, resolvedID).Scan(&kept); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if kept == nil || !kept.Equal(stamp) {
		t.Fatalf("resolved_at = %v, want the original %v", kept, stamp)
	}

	var stamped *time.Time
	if err := pool.QueryRow(ctx, `SELECT resolved_at FROM tickets WHERE id = $1`, openID).Scan(&stamped); err != nil {
		t.Fatalf("read row: %v", err)
	}
	if stamped == nil {
		t.Fatal("closing an unstamped ticket left resolved_at NULL")
	}
}

func TestRealtimeBreachCountHonorsPolicyOverrides(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	ticketID := seedTicket(t, ctx, pool, domain.TicketStatusOpen, nil)
	if _, err := pool.Exec(ctx,
		`UPDATE tickets SET priority = 'urgent', created_at = NOW() - INTERVAL '2 hours' WHERE id = $1`,
		ticketID); err != nil {
		t.Fatalf("age ticket: %v", err)
	}

	now := time.Now()
	base, err := NewMetricsRepository(pool, sla.DefaultPolicy()).Realtime(ctx, now)
	if err != nil {
		t.Fatalf("realtime: %v", err)
	}

	tight := sla.DefaultPolicy()
	tight.Overrides = map[domain.TicketPriority]int{domain.TicketPriorityUrgent: 1}
	strict, err := NewMetricsRepository(pool, tight).Realtime(ctx, now)
	if err != nil {
		t.Fatalf("realtime with override: %v", err)
	}
	if strict.BreachedTickets != base.BreachedTickets+1 {
		t.Fatalf("breached with 1h urgent budget = %d, want %d", strict.BreachedTickets, base.BreachedTickets+1)
	}
}
