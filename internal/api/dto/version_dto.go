package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/versioning"
)

// SaveSnapshotRequest payload.
type SaveSnapshotRequest struct {
	Reason string `json:"reason"`
}

// RevertRequest payload.
type RevertRequest struct {
	Version int    `json:"version"`
	Reason  string `json:"reason"`
}

// VersionResponse is one history entry.
type VersionResponse struct {
	ID            string                   `json:"id"`
	VersionNumber int                      `json:"version_number"`
	Snapshot      domain.TicketSnapshot    `json:"snapshot"`
	CreatedBy     *string                  `json:"created_by"`
	ChangeReason  string                   `json:"change_reason"`
	ChangeType    domain.VersionChangeType `json:"change_type"`
	CreatedAt     time.Time                `json:"created_at"`
}

// RevertResponse describes one past revert.
type RevertResponse struct {
	ID          string    `json:"id"`
	FromVersion int       `json:"from_version"`
	ToVersion   int       `json:"to_version"`
	RevertedBy  *string   `json:"reverted_by"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompareResponse is the field-level diff between two versions.
type CompareResponse struct {
	FromVersion int                      `json:"from_version"`
	ToVersion   int                      `json:"to_version"`
	Changes     []versioning.FieldChange `json:"changes"`
}

// NewVersionResponse maps a version.
func NewVersionResponse(v *domain.TicketVersion) VersionResponse {
	return VersionResponse{
		ID:            v.ID,
		VersionNumber: v.VersionNumber,
		Snapshot:      v.Snapshot,
		CreatedBy:     v.CreatedBy,
		ChangeReason:  v.ChangeReason,
		ChangeType:    v.ChangeType,
		CreatedAt:     v.CreatedAt,
	}
}

// NewRevertResponse maps a revert record.
func NewRevertResponse(r *domain.VersionRevert) RevertResponse {
	return RevertResponse{
		ID:          r.ID,
		FromVersion: r.FromVersion,
		ToVersion:   r.ToVersion,
		RevertedBy:  r.RevertedBy,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}
