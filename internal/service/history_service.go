package service

import (
	"context"
	"encoding/json"
	"time"

	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/internal/pkg/logger"
	"docdecode-be/internal/repository/specification"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/pkg/events"
	pktNats "docdecode-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	historyListCacheKey = "history:list"
	historyListCacheTTL = time.Minute
)

type IHistoryService interface {
	GetAll(ctx context.Context) ([]*dto.HistoryListItemResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.HistoryRecordResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type historyService struct {
	uowFactory     unitofwork.RepositoryFactory
	rdb            *redis.Client
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewHistoryService(
	uowFactory unitofwork.RepositoryFactory,
	rdb *redis.Client,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IHistoryService {
	return &historyService{
		uowFactory:     uowFactory,
		rdb:            rdb,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *historyService) GetAll(ctx context.Context) ([]*dto.HistoryListItemResponse, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.HistoryRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.HistoryListItemResponse, 0, len(records))
	for _, record := range records {
		item := &dto.HistoryListItemResponse{
			Id:            record.Id,
			OriginalInput: record.OriginalInput,
			CreatedAt:     record.CreatedAt,
		}
		var analysis entity.DischargeAnalysis
		if err := json.Unmarshal(record.AnalysisJSON, &analysis); err == nil {
			item.Summary = analysis.OverallSummary
		}
		result = append(result, item)
	}

	s.writeCache(ctx, result)
	return result, nil
}

func (s *historyService) Show(ctx context.Context, id uuid.UUID) (*dto.HistoryRecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.HistoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrHistoryNotFound
	}

	var analysis entity.DischargeAnalysis
	if err := json.Unmarshal(record.AnalysisJSON, &analysis); err != nil {
		return nil, err
	}

	return &dto.HistoryRecordResponse{
		Id:            record.Id,
		OriginalInput: record.OriginalInput,
		Analysis:      &analysis,
		CreatedAt:     record.CreatedAt,
	}, nil
}

func (s *historyService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.HistoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if record == nil {
		return ErrHistoryNotFound
	}

	if err := uow.HistoryRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)

	if s.eventPublisher != nil {
		evt := events.NewAuditEvent("HISTORY_DELETED", map[string]interface{}{
			"record_id": id,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("history", "Failed to publish HISTORY_DELETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// Cache helpers. Redis being down only costs us the cache, never the request.

func (s *historyService) readCache(ctx context.Context) []*dto.HistoryListItemResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, historyListCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var cached []*dto.HistoryListItemResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil
	}
	return cached
}

func (s *historyService) writeCache(ctx context.Context, items []*dto.HistoryListItemResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, historyListCacheKey, raw, historyListCacheTTL).Err(); err != nil {
		s.log.Warn("history", "Failed to write history cache", map[string]interface{}{"error": err.Error()})
	}
}

func (s *historyService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, historyListCacheKey).Err(); err != nil {
		s.log.Warn("history", "Failed to invalidate history cache", map[string]interface{}{"error": err.Error()})
	}
}
