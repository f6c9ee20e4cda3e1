package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"docdecode-be/internal/dto"
	"docdecode-be/internal/entity"
	"docdecode-be/internal/repository/contract"
	"docdecode-be/internal/repository/specification"
	"docdecode-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []*entity.HistoryRecord
}

func (r *fakeHistoryRepo) Create(ctx context.Context, record *entity.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeHistoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeHistoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		byID, ok := spec.(specification.ByID)
		if !ok {
			continue
		}
		for _, record := range r.records {
			if record.Id == byID.ID {
				return record, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeHistoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.HistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records, nil
}

func (r *fakeHistoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

type fakeUow struct {
	repo *fakeHistoryRepo
}

func (u *fakeUow) Begin(ctx context.Context) error               { return nil }
func (u *fakeUow) Commit() error                                 { return nil }
func (u *fakeUow) Rollback() error                               { return nil }
func (u *fakeUow) HistoryRepository() contract.HistoryRepository { return u.repo }

type fakeUowFactory struct {
	repo *fakeHistoryRepo
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{repo: f.repo}
}

func TestConsumerPersistsArchiveMessages(t *testing.T) {
	repo := &fakeHistoryRepo{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "ARCHIVE_ANALYSIS_TEST"

	consumer := NewConsumerService(pubSub, topic, &fakeUowFactory{repo: repo}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, consumer.Consume(ctx))

	payload := dto.PublishArchiveAnalysisMessage{
		Id:            uuid.New(),
		OriginalInput: "discharge note",
		AnalysisJSON:  []byte(`{"overallSummary":"ok","slides":[]}`),
		CreatedAt:     time.Now(),
	}
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)

	publisher := NewPublisherService(topic, pubSub)
	assert.NoError(t, publisher.Publish(ctx, raw))

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.records) == 1
	}, 2*time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, payload.Id, repo.records[0].Id)
	assert.Equal(t, "discharge note", repo.records[0].OriginalInput)
}

func TestConsumerAcksMalformedMessages(t *testing.T) {
	repo := &fakeHistoryRepo{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	topic := "ARCHIVE_ANALYSIS_MALFORMED"

	consumer := NewConsumerService(pubSub, topic, &fakeUowFactory{repo: repo}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.NoError(t, consumer.Consume(ctx))

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	assert.NoError(t, pubSub.Publish(topic, msg))

	// The malformed message must be acked, not redelivered forever, and
	// nothing gets persisted.
	select {
	case <-msg.Acked():
	case <-time.After(2 * time.Second):
		t.Fatal("malformed message was not acked")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Empty(t, repo.records)
}
