package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"boq-ai/internal/ai"
	"boq-ai/internal/app"
	"boq-ai/internal/cache"
	"boq-ai/internal/config"
	"boq-ai/internal/metrics"
	"boq-ai/internal/pkg/logger"
	mysqlClient "boq-ai/internal/platform/mysql"
	"boq-ai/internal/platform/objectstore"
	rabbitmqClient "boq-ai/internal/platform/rabbitmq"
	redisClient "boq-ai/internal/platform/redis"
	"boq-ai/internal/repository"
	"boq-ai/internal/worker"
)

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	MySQL     *gorm.DB
	Redis     *redis.Client
	MQConn    *amqp.Connection
	Blobs     *objectstore.Store
	RunWorker *worker.RunRecordWorker

	SpecExtractor    *app.SpecExtractor
	DrawingExtractor *app.DrawingExtractor
	BoqSynthesizer   *app.BoqSynthesizer
	Estimates        *app.EstimateService
	Plans            *app.PlanService

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}
	log = log.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))

	a := &App{Config: cfg, Logger: log, StartedAt: time.Now()}

	a.MySQL, err = mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlClient.Migrate(a.MySQL); err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Redis, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.App.Name, cfg.RabbitMQ.PipelineRunQueue)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Blobs, err = objectstore.New(ctx, objectstore.Options{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	metrics.Init()

	runRepo := repository.NewPipelineRunRepository(a.MySQL)
	a.RunWorker = worker.NewRunRecordWorker(a.MQConn, runRepo, cfg.RabbitMQ.PipelineRunQueue, cfg.RabbitMQ.WorkerConcurrency, log.Named("worker"))
	if err := a.RunWorker.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start run record worker failed: %w", err)
	}

	a.wireServices()

	if !cfg.LLM.Available() {
		log.Warn("bootstrap.llm.unconfigured", zap.String("detail", "every estimate will use fallback data"))
	}
	log.Info("bootstrap.ready", zap.String("addr", cfg.HTTPAddr()))
	return a, nil
}

func (a *App) wireServices() {
	cfg := a.Config
	llm := ai.NewOpenAICompatibleClient(ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLMTimeout(),
	})
	fetcher := app.NewHTTPFetcher(a.Blobs.BaseURL(), cfg.FetchTimeout(), int64(cfg.Pipeline.MaxDocumentMB)<<20)

	boqCache := cache.NewBoqCache(a.Redis, cfg.BoqTTL())
	planRepo := repository.NewPlanRepository(a.MySQL)
	publisher := rabbitmqClient.NewRunPublisher(a.MQConn, cfg.RabbitMQ.PipelineRunQueue)

	a.SpecExtractor = app.NewSpecExtractor(llm, fetcher, app.SpecExtractorConfig{
		MaxImageEdge: cfg.Pipeline.MaxImageEdge,
		MaxTextChars: cfg.Pipeline.MaxSpecTextChars,
		MaxTokens:    cfg.LLM.MaxTokens,
	}, a.Logger.Named("spec"))
	a.DrawingExtractor = app.NewDrawingExtractor(llm, fetcher, app.DrawingExtractorConfig{
		MaxImageEdge: cfg.Pipeline.MaxImageEdge,
		MaxTokens:    cfg.LLM.MaxTokens,
	}, a.Logger.Named("drawing"))
	a.BoqSynthesizer = app.NewBoqSynthesizer(llm, app.BoqSynthesizerConfig{
		MaxTokens: cfg.LLM.MaxTokens,
	}, a.Logger.Named("boq"))

	a.Estimates = app.NewEstimateService(
		a.SpecExtractor,
		a.DrawingExtractor,
		a.BoqSynthesizer,
		planRepo,
		a.Blobs,
		boqCache,
		publisher,
		a.Logger.Named("estimate"),
	)
	a.Plans = app.NewPlanService(planRepo, a.Blobs, boqCache, int64(cfg.Storage.MaxUploadMB)<<20, a.Logger.Named("plan"))
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.RunWorker != nil {
		a.RunWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
