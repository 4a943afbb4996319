package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenancy/backend/internal/domain/settlement"
)

// FlaggedEntry is one differing field reported by the inspection
// collaborator when a check-in/check-out pair is compared. Cost figures
// arrive as free-form strings and are parsed leniently.
type FlaggedEntry struct {
	SectionRef      string
	FieldKey        string
	ItemRef         string
	CheckInEntryID  *uuid.UUID
	CheckOutEntryID uuid.UUID
	Data            settlement.ComparisonData
	EstimatedCost   string
	Depreciation    string
}

// InspectionService looks up inspection entries. Inspection capture and
// storage live outside this core; failures surface as upstream errors.
type InspectionService interface {
	// FetchFlaggedEntries returns the differing fields between a matched
	// check-in/check-out inspection pair, in inspection walk order.
	FetchFlaggedEntries(ctx context.Context, checkInID, checkOutID uuid.UUID) ([]FlaggedEntry, error)
}

// DocumentRenderer turns a report snapshot into a PDF document. Layout
// belongs to the renderer; the core only assembles the snapshot.
type DocumentRenderer interface {
	RenderReport(ctx context.Context, snapshot *ReportSnapshot) ([]byte, error)
}

// FinanceNotification is the payload handed to the notification
// collaborator when a report is sent to finance.
type FinanceNotification struct {
	Snapshot   *ReportSnapshot
	Attachment []byte
}

// FinanceNotifier delivers a report to the finance mailbox. Delivery
// mechanics (email, queue) live outside this core.
type FinanceNotifier interface {
	// SendReport delivers the notification and returns a human-readable
	// delivery message.
	SendReport(ctx context.Context, n FinanceNotification) (string, error)
}
