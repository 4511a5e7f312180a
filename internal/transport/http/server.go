package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "chatrelay/internal/app"
	"chatrelay/internal/bootstrap"
	"chatrelay/internal/store"
	"chatrelay/internal/transport/http/handler"
	"chatrelay/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	userStore := store.NewUserStore(app.Store)
	conversationStore := store.NewConversationStore(app.Store)
	messageStore := store.NewMessageStore(app.Store)

	authService := appsvc.NewAuthService(
		userStore,
		app.Config.Auth.Secret,
		app.Config.Auth.Algorithm,
		time.Duration(app.Config.Auth.TokenTTLSeconds)*time.Second,
	)
	chatService := appsvc.NewChatService(conversationStore, messageStore, app.Generator)
	transcribeService := appsvc.NewTranscribeService(app.Transcriber)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	transcribeHandler := handler.NewTranscribeHandler(transcribeService)
	healthHandler := handler.NewHealthHandler(app.Config.App.Name, app.StartedAt)

	router.GET("/healthz", healthHandler.Check)
	router.POST("/login", authHandler.Login)
	router.POST("/transcribe", transcribeHandler.Transcribe)

	auth := middleware.AuthBearer(app.Config.Auth.Secret, app.Config.Auth.Algorithm)
	router.GET("/me", auth, authHandler.Me)
	router.GET("/conversations/:user_id", auth, chatHandler.ListConversations)
	router.GET("/chat/:conv_id", auth, chatHandler.ListMessages)
	router.POST("/conversations", auth, chatHandler.CreateConversation)
	router.POST("/messages", auth, chatHandler.SendMessage)
	router.DELETE("/conversations/:conversation_id", auth, chatHandler.DeleteConversation)
	router.PATCH("/conversations/:conversation_id", auth, chatHandler.UpdateTitle)

	return router
}
