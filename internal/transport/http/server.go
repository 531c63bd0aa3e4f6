package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"ventbot/internal/ai"
	"ventbot/internal/bootstrap"
	"ventbot/internal/cache"
	"ventbot/internal/debate"
	rabbitmqClient "ventbot/internal/platform/rabbitmq"
	"ventbot/internal/repository"
	"ventbot/internal/security"
	"ventbot/internal/transport/http/handler"
	"ventbot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	debateRepo := repository.NewDebateRepository(app.MySQL)
	store := debate.NewStore(debateRepo)
	completer := ai.NewOpenAICompatibleClient(ai.Config{
		BaseURL:          app.Config.LLM.BaseURL,
		APIKey:           app.Config.LLM.APIKey,
		Model:            app.Config.LLM.Model,
		Temperature:      app.Config.LLM.Temperature,
		MaxTokens:        app.Config.LLM.MaxTokens,
		PresencePenalty:  app.Config.LLM.PresencePenalty,
		FrequencyPenalty: app.Config.LLM.FrequencyPenalty,
	})
	service := debate.NewService(store, completer)
	histories := debate.NewHistoryService(debateRepo, cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	))
	events := rabbitmqClient.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ModerationAuditQueue)
	control := security.NewAdminControl(app.Config.AdminUserIDs(), app.Limiter)

	authHandler := handler.NewAuthHandler(
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	debateHandler := handler.NewDebateHandler(store, service, histories, app.Limiter, events, app.Config.Topics())
	adminHandler := handler.NewAdminHandler(control, events)

	v1 := router.Group("/api/v1")
	v1.POST("/auth/guest", authHandler.GuestToken)
	v1.GET("/topics", debateHandler.Topics)

	debateGroup := v1.Group("/debates")
	debateGroup.Use(middleware.AuthGuest(app.Config.Auth.JWTSecret))
	debateGroup.POST("", debateHandler.Start)
	debateGroup.POST("/messages", debateHandler.SendMessage)
	debateGroup.POST("/end", debateHandler.End)
	debateGroup.GET("/history", debateHandler.History)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.AuthGuest(app.Config.Auth.JWTSecret))
	adminGroup.POST("/ban", adminHandler.Ban)
	adminGroup.POST("/unban", adminHandler.Unban)

	return router
}
