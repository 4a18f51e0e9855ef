package types

import "time"

// ExportStatus describes the lifecycle of a record export.
type ExportStatus string

const (
	ExportPending ExportStatus = "pending"
	ExportReady   ExportStatus = "ready"
)

// Export references a JSON snapshot of a user's sleep records kept in
// object storage.
type Export struct {
	ID        string       `json:"id"`
	UserID    int          `json:"user_id"`
	Status    ExportStatus `json:"status"`
	ObjectKey string       `json:"object_key"`
	CreatedAt time.Time    `json:"created_at"`
}

// ExportRequest is the message published to the export queue.
type ExportRequest struct {
	ExportID string `json:"export_id"`
	UserID   int    `json:"user_id"`
}

// ExportDocument is the body written to object storage.
type ExportDocument struct {
	ExportID    string        `json:"export_id"`
	UserID      int           `json:"user_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     SleepSummary  `json:"summary"`
	Records     []SleepRecord `json:"records"`
}
