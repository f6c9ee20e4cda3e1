package dto

import (
	"time"

	"docdecode-be/internal/entity"

	"github.com/google/uuid"
)

type HistoryRecordResponse struct {
	Id            uuid.UUID                 `json:"id"`
	OriginalInput string                    `json:"original_input"`
	Analysis      *entity.DischargeAnalysis `json:"analysis"`
	CreatedAt     time.Time                 `json:"created_at"`
}

type HistoryListItemResponse struct {
	Id            uuid.UUID `json:"id"`
	OriginalInput string    `json:"original_input"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"created_at"`
}

// PublishArchiveAnalysisMessage is the payload placed on the archive topic
// after every successful analysis. The consumer persists it.
type PublishArchiveAnalysisMessage struct {
	Id            uuid.UUID `json:"id"`
	OriginalInput string    `json:"original_input"`
	AnalysisJSON  []byte    `json:"analysis_json"`
	CreatedAt     time.Time `json:"created_at"`
}
