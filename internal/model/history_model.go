package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type HistoryRecord struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalInput string         `gorm:"type:text;not null"`
	Analysis      datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (HistoryRecord) TableName() string {
	return "history_records"
}
