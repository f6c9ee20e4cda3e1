package bootstrap

import (
	"context"
	"log"

	"docdecode-be/internal/config"
	"docdecode-be/internal/controller"
	"docdecode-be/internal/pkg/logger"
	"docdecode-be/internal/repository/memory"
	"docdecode-be/internal/repository/unitofwork"
	"docdecode-be/internal/service"
	"docdecode-be/pkg/analyzer"
	"docdecode-be/pkg/analyzer/gemini"

	pktNats "docdecode-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnalysisController controller.IAnalysisController
	ChatController     controller.IChatController
	HistoryController  controller.IHistoryController
	CalendarController controller.ICalendarController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model Provider
	engine, err := gemini.NewEngine(context.Background(), cfg.Keys.GoogleGemini, cfg.Ai.ChatModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Gemini engine: %v", err)
	}
	log.Printf("[INFO] Using analysis models: %s / %s (premium)", cfg.Ai.AnalysisModel, cfg.Ai.PremiumModel)

	builder := analyzer.NewRequestBuilder(analyzer.ModelConfig{
		Standard: cfg.Ai.AnalysisModel,
		Premium:  cfg.Ai.PremiumModel,
	})

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.HistoryTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.HistoryTopic,
		uowFactory,
		natsPub,
		rdb,
	)

	analysisService := service.NewAnalysisService(
		sessionRepo,
		engine,
		builder,
		uowFactory,
		publisherService,
		natsPub,
		sysLogger,
	)
	chatService := service.NewChatService(sessionRepo, sysLogger)
	historyService := service.NewHistoryService(uowFactory, rdb, natsPub, sysLogger)

	// 5. Controllers
	return &Container{
		AnalysisController: controller.NewAnalysisController(analysisService),
		ChatController:     controller.NewChatController(chatService),
		HistoryController:  controller.NewHistoryController(historyService),
		CalendarController: controller.NewCalendarController(),

		ConsumerService: consumerService,
	}
}
