package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boq-ai/internal/bootstrap"
	"boq-ai/internal/metrics"
	mysqlClient "boq-ai/internal/platform/mysql"
	rabbitmqClient "boq-ai/internal/platform/rabbitmq"
	"boq-ai/internal/transport/http/handler"
	"boq-ai/internal/transport/http/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Functions *handler.FunctionHandler
	Estimates *handler.EstimateHandler
	Plans     *handler.PlanHandler
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)

	checks := map[string]handler.HealthCheck{
		"mysql": func(ctx context.Context) error { return mysqlClient.Ping(ctx, app.MySQL) },
		"redis": func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() },
		"rabbitmq": func(context.Context) error {
			return rabbitmqClient.Ping(app.MQConn)
		},
		"blob_store": app.Blobs.Ping,
	}

	return newEngine(app.Logger.Named("http"), app.Config.Auth.JWTSecret, Handlers{
		Health:    handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, checks),
		Functions: handler.NewFunctionHandler(app.SpecExtractor, app.DrawingExtractor, app.BoqSynthesizer),
		Estimates: handler.NewEstimateHandler(app.Estimates),
		Plans:     handler.NewPlanHandler(app.Plans, int64(app.Config.Storage.MaxUploadMB)<<20),
	})
}

func newEngine(logger *zap.Logger, jwtSecret string, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	router.GET("/healthz", h.Health.Check)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	functions := router.Group("/functions/v1")
	functions.Use(middleware.AuthJWT(jwtSecret))
	functions.POST("/ocr-processing", h.Functions.OCRProcessing)
	functions.POST("/drawing-analysis", h.Functions.DrawingAnalysis)
	functions.POST("/generate-boq", h.Functions.GenerateBoq)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthJWT(jwtSecret))
	v1.POST("/uploads", h.Plans.Upload)
	v1.POST("/estimates", h.Estimates.Generate)
	v1.GET("/plans", h.Plans.List)
	v1.GET("/plans/:id", h.Plans.Get)
	v1.GET("/plans/:id/boq", h.Plans.GetBoq)
	v1.DELETE("/plans/:id", h.Plans.Delete)

	return router
}
