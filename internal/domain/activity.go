package domain

import "time"

// EventType names an entry in the activity log.
type EventType string

const (
	EventLeadScored       EventType = "LEAD_SCORED"
	EventEmailSent        EventType = "EMAIL_SENT"
	EventEmailFailed      EventType = "EMAIL_FAILED"
	EventEmailSkipped     EventType = "EMAIL_SKIPPED"
	EventCSVUploaded      EventType = "CSV_UPLOADED"
	EventProcessCompleted EventType = "PROCESS_COMPLETED"
)

// ActivityEvent is one append-only audit record.
type ActivityEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Event     EventType      `json:"event"`
	Data      map[string]any `json:"data"`
}
