package entity

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one archived analysis. Records are append-only: created on
// a successful analysis, deleted individually, never mutated in place.
type HistoryRecord struct {
	Id            uuid.UUID
	OriginalInput string
	AnalysisJSON  []byte
	CreatedAt     time.Time
}
