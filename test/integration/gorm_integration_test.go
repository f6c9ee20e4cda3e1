package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"docdecode-be/internal/entity"
	"docdecode-be/internal/model"
	"docdecode-be/internal/repository/specification"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestHistoryRepositoryRoundTrip(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	assert.NoError(t, gormDB.AutoMigrate(&model.HistoryRecord{}))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)
	assert.NotNil(t, uow.HistoryRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	analysis := entity.DischargeAnalysis{
		OverallSummary: "Integration test summary",
		Slides: []entity.ExplanationSlide{
			{Topic: "Test", Content: "Content", LaymanSummary: "Short"},
		},
	}
	raw, err := json.Marshal(analysis)
	assert.NoError(t, err)

	record := entity.HistoryRecord{
		Id:            uuid.New(),
		OriginalInput: "integration test input",
		AnalysisJSON:  raw,
		CreatedAt:     time.Now(),
	}

	t.Run("Create and FindOne", func(t *testing.T) {
		assert.NoError(t, uow.HistoryRepository().Create(ctx, &record))

		found, err := uow.HistoryRepository().FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, record.OriginalInput, found.OriginalInput)

			var roundTripped entity.DischargeAnalysis
			assert.NoError(t, json.Unmarshal(found.AnalysisJSON, &roundTripped))
			assert.Equal(t, analysis.OverallSummary, roundTripped.OverallSummary)
		}
	})

	t.Run("FindAll newest first", func(t *testing.T) {
		records, err := uow.HistoryRepository().FindAll(ctx,
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		assert.NoError(t, err)
		assert.NotEmpty(t, records)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, uow.HistoryRepository().Delete(ctx, record.Id))

		found, err := uow.HistoryRepository().FindOne(ctx, specification.ByID{ID: record.Id})
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}
