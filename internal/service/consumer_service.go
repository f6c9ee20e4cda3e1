package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/pkg/events"
	pktNats "docdecode-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the archive topic and persists history records.
// Persistence happens off the request path so a slow database never delays
// the analysis response.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	auditPub   *pktNats.Publisher
	rdb        *redis.Client
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	auditPub *pktNats.Publisher,
	rdb *redis.Client,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		auditPub:   auditPub,
		rdb:        rdb,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishArchiveAnalysisMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal archive message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Archiving analysis %s", payload.Id)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	record := entity.HistoryRecord{
		Id:            payload.Id,
		OriginalInput: payload.OriginalInput,
		AnalysisJSON:  payload.AnalysisJSON,
		CreatedAt:     payload.CreatedAt,
	}

	if err := uow.HistoryRepository().Create(ctx, &record); err != nil {
		log.Printf("[ERROR] Failed to archive analysis %s: %v", payload.Id, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	// The cached list is stale now that a record was appended
	if cs.rdb != nil {
		if err := cs.rdb.Del(ctx, historyListCacheKey).Err(); err != nil {
			log.Printf("[WARN] Failed to invalidate history cache: %v", err)
		}
	}

	if cs.auditPub != nil {
		evt := events.BaseEvent{
			Type: "ANALYSIS_ARCHIVED",
			Data: map[string]interface{}{
				"record_id": record.Id,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.auditPub.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish ANALYSIS_ARCHIVED event: %v", err)
		}
	}

	msg.Ack()
}
