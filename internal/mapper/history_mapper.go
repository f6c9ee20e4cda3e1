package mapper

import (
	"docdecode-be/internal/entity"
	"docdecode-be/internal/model"

	"gorm.io/datatypes"
)

type HistoryMapper struct{}

func NewHistoryMapper() *HistoryMapper {
	return &HistoryMapper{}
}

func (m *HistoryMapper) ToEntity(r *model.HistoryRecord) *entity.HistoryRecord {
	if r == nil {
		return nil
	}

	return &entity.HistoryRecord{
		Id:            r.Id,
		OriginalInput: r.OriginalInput,
		AnalysisJSON:  []byte(r.Analysis),
		CreatedAt:     r.CreatedAt,
	}
}

func (m *HistoryMapper) ToModel(r *entity.HistoryRecord) *model.HistoryRecord {
	if r == nil {
		return nil
	}

	return &model.HistoryRecord{
		Id:            r.Id,
		OriginalInput: r.OriginalInput,
		Analysis:      datatypes.JSON(r.AnalysisJSON),
		CreatedAt:     r.CreatedAt,
	}
}

func (m *HistoryMapper) ToEntities(records []*model.HistoryRecord) []*entity.HistoryRecord {
	entities := make([]*entity.HistoryRecord, 0, len(records))
	for _, r := range records {
		entities = append(entities, m.ToEntity(r))
	}
	return entities
}
