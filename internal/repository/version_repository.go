package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/versioning"
)

// VersionRepository stores ticket version snapshots and reverts.
type VersionRepository interface {
	CreateVersion(ctx context.Context, ticketID string, snapshot domain.TicketSnapshot, createdBy *string, reason string, changeType domain.VersionChangeType) (*domain.TicketVersion, error)
	GetVersion(ctx context.Context, ticketID string, number int) (*domain.TicketVersion, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketVersion, error)
	ListReverts(ctx context.Context, ticketID string) ([]domain.VersionRevert, error)
	RevertToVersion(ctx context.Context, ticketID string, targetNumber int, revertedBy *string, reason string) (*domain.Ticket, *domain.TicketVersion, error)
}

type versionRepository struct {
	pool *pgxpool.Pool
}

// NewVersionRepository builds repository.
func NewVersionRepository(pool *pgxpool.Pool) VersionRepository {
	return &versionRepository{pool: pool}
}

const versionColumns = `id, ticket_id, version_number, snapshot, created_by, change_reason, change_type, created_at`

// CreateVersion appends the next version for a ticket. The number is computed
// inside a transaction with the ticket row locked, so sequential creates get
// strictly increasing numbers without gaps.
func (r *versionRepository) CreateVersion(ctx context.Context, ticketID string, snapshot domain.TicketSnapshot, createdBy *string, reason string, changeType domain.VersionChangeType) (*domain.TicketVersion, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	version, err := insertVersion(ctx, tx, ticketID, snapshot, createdBy, reason, changeType)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return version, nil
}

func insertVersion(ctx context.Context, tx pgx.Tx, ticketID string, snapshot domain.TicketSnapshot, createdBy *string, reason string, changeType domain.VersionChangeType) (*domain.TicketVersion, error) {
	if _, err := tx.Exec(ctx, `SELECT id FROM tickets WHERE id=$1 FOR UPDATE`, ticketID); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	version := &domain.TicketVersion{
		TicketID:     ticketID,
		Snapshot:     snapshot,
		CreatedBy:    createdBy,
		ChangeReason: reason,
		ChangeType:   changeType,
	}
	const query = `
        INSERT INTO ticket_versions (ticket_id, version_number, snapshot, created_by, change_reason, change_type)
        SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, $4, $5
        FROM ticket_versions WHERE ticket_id=$1
        RETURNING id, version_number, created_at`
	if err := tx.QueryRow(ctx, query, ticketID, raw, createdBy, reason, changeType).
		Scan(&version.ID, &version.VersionNumber, &version.CreatedAt); err != nil {
		return nil, err
	}
	return version, nil
}

func (r *versionRepository) GetVersion(ctx context.Context, ticketID string, number int) (*domain.TicketVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM ticket_versions WHERE ticket_id=$1 AND version_number=$2`
	return scanVersionRow(r.pool.QueryRow(ctx, query, ticketID, number))
}

func (r *versionRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM ticket_versions WHERE ticket_id=$1 ORDER BY version_number DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketVersion
	for rows.Next() {
		version, err := scanVersionRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *version)
	}
	return result, rows.Err()
}

func (r *versionRepository) ListReverts(ctx context.Context, ticketID string) ([]domain.VersionRevert, error) {
	const query = `
        SELECT id, ticket_id, from_version, to_version, reverted_by, reason, created_at
        FROM ticket_version_reverts WHERE ticket_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VersionRevert
	for rows.Next() {
		var revert domain.VersionRevert
		if err := rows.Scan(
			&revert.ID,
			&revert.TicketID,
			&revert.FromVersion,
			&revert.ToVersion,
			&revert.RevertedBy,
			&revert.Reason,
			&revert.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, revert)
	}
	return result, rows.Err()
}

// RevertToVersion restores a snapshot as one transaction: record the revert,
// overwrite the live row, and append a new version of type revert. Either
// every step lands or none does.
func (r *versionRepository) RevertToVersion(ctx context.Context, ticketID string, targetNumber int, revertedBy *string, reason string) (*domain.Ticket, *domain.TicketVersion, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var ticket domain.Ticket
	if err := tx.QueryRow(ctx, `
        SELECT id, title, description, status, priority, category, customer_id, agent_id,
               tags, custom_fields, created_at, updated_at, resolved_at
        FROM tickets WHERE id=$1 FOR UPDATE`, ticketID).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Category,
		&ticket.CustomerID,
		&ticket.AgentID,
		&ticket.Tags,
		&ticket.CustomFields,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, nil, err
	}

	target, err := scanVersionRow(tx.QueryRow(ctx,
		`SELECT `+versionColumns+` FROM ticket_versions WHERE ticket_id=$1 AND version_number=$2`,
		ticketID, targetNumber))
	if err != nil {
		return nil, nil, err
	}

	var currentNumber int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) FROM ticket_versions WHERE ticket_id=$1`,
		ticketID).Scan(&currentNumber); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx, `
        INSERT INTO ticket_version_reverts (ticket_id, from_version, to_version, reverted_by, reason)
        VALUES ($1,$2,$3,$4,$5)`,
		ticketID, currentNumber, targetNumber, revertedBy, reason); err != nil {
		return nil, nil, err
	}

	snap := target.Snapshot
	resolvedAt := revertResolvedAt(ticket.ResolvedAt, snap.Status, time.Now())
	if err := tx.QueryRow(ctx, `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, category=$5,
            agent_id=$6, tags=$7, custom_fields=$8, resolved_at=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at`,
		snap.Title, snap.Description, snap.Status, snap.Priority, snap.Category,
		snap.AgentID, snap.Tags, snap.CustomFields, resolvedAt, ticketID,
	).Scan(&ticket.UpdatedAt); err != nil {
		return nil, nil, err
	}

	versioning.Apply(&ticket, snap)
	ticket.ResolvedAt = resolvedAt

	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	newVersion := &domain.TicketVersion{
		TicketID:     ticketID,
		Snapshot:     snap,
		CreatedBy:    revertedBy,
		ChangeReason: reason,
		ChangeType:   domain.VersionChangeRevert,
	}
	if err := tx.QueryRow(ctx, `
        INSERT INTO ticket_versions (ticket_id, version_number, snapshot, created_by, change_reason, change_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, version_number, created_at`,
		ticketID, currentNumber+1, raw, revertedBy, reason, domain.VersionChangeRevert,
	).Scan(&newVersion.ID, &newVersion.VersionNumber, &newVersion.CreatedAt); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &ticket, newVersion, nil
}

// revertResolvedAt keeps resolved_at in step with the restored status:
// restoring a non-terminal status clears the stamp, an existing stamp
// survives, and a terminal snapshot landing on an unstamped row is stamped
// at revert time.
func revertResolvedAt(current *time.Time, status domain.TicketStatus, now time.Time) *time.Time {
	if !status.IsTerminal() {
		return nil
	}
	if current != nil {
		return current
	}
	return &now
}

func scanVersionRow(row pgx.Row) (*domain.TicketVersion, error) {
	var version domain.TicketVersion
	var raw []byte
	if err := row.Scan(
		&version.ID,
		&version.TicketID,
		&version.VersionNumber,
		&raw,
		&version.CreatedBy,
		&version.ChangeReason,
		&version.ChangeType,
		&version.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &version.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &version, nil
}
