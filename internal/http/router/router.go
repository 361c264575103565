package router

import (
	"github.com/gin-gonic/gin"

	"github.com/gigzone/backend/internal/config"
	"github.com/gigzone/backend/internal/http/handlers"
	"github.com/gigzone/backend/internal/http/middleware"
	"github.com/gigzone/backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	gigHandler *handlers.GigHandler,
	applicationHandler *handlers.ApplicationHandler,
	paymentHandler *handlers.PaymentHandler,
	withdrawalHandler *handlers.WithdrawalHandler,
	conversationHandler *handlers.ConversationHandler,
	reviewHandler *handlers.ReviewHandler,
	reportHandler *handlers.ReportHandler,
	verificationHandler *handlers.VerificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Публичные маршруты
	api.GET("/gigs", gigHandler.List)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.Get)
	api.GET("/users/:id/profile", middleware.UUIDValidator("id"), profileHandler.Get)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListForUser)
	api.GET("/reviews/:id", middleware.UUIDValidator("id"), reviewHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMine)
		protected.PUT("/profile", profileHandler.Update)

		protected.POST("/gigs", gigHandler.Create)
		protected.PUT("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.Update)
		protected.POST("/gigs/:id/cancel", middleware.UUIDValidator("id"), gigHandler.Cancel)
		protected.POST("/gigs/:id/applications", middleware.UUIDValidator("id"), applicationHandler.Apply)
		protected.GET("/gigs/:id/applications", middleware.UUIDValidator("id"), applicationHandler.ListForGig)
		protected.GET("/gigs/:id/can-review", middleware.UUIDValidator("id"), reviewHandler.CanReview)

		protected.GET("/applications/my", applicationHandler.ListMine)
		protected.POST("/applications/:id/accept", middleware.UUIDValidator("id"), applicationHandler.Accept)
		protected.POST("/applications/:id/reject", middleware.UUIDValidator("id"), applicationHandler.Reject)
		protected.POST("/applications/:id/withdraw", middleware.UUIDValidator("id"), applicationHandler.Withdraw)
		protected.GET("/applications/:id/payment", middleware.UUIDValidator("id"), paymentHandler.GetPayment)

		paymentRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.GET("/wallet", paymentHandler.GetWallet)
		protected.POST("/wallet/purchase", paymentRateLimit, paymentHandler.Purchase)
		protected.GET("/wallet/transactions", paymentHandler.ListTransactions)
		protected.POST("/payments/gig", paymentRateLimit, paymentHandler.Pay)

		protected.POST("/withdrawals", withdrawalHandler.Create)
		protected.GET("/withdrawals", withdrawalHandler.List)
		protected.GET("/withdrawals/:id", middleware.UUIDValidator("id"), withdrawalHandler.Get)

		protected.POST("/conversations", conversationHandler.Start)
		protected.GET("/conversations", conversationHandler.List)
		protected.GET("/conversations/:id", middleware.UUIDValidator("id"), conversationHandler.Get)
		protected.GET("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.ListMessages)
		protected.POST("/conversations/:id/messages", middleware.UUIDValidator("id"), conversationHandler.SendMessage)

		protected.POST("/reviews", reviewHandler.Create)

		protected.POST("/reports", reportHandler.Create)
		protected.GET("/reports", reportHandler.ListMine)
		protected.GET("/reports/:id", middleware.UUIDValidator("id"), reportHandler.Get)

		protected.POST("/verification/phone/send", verificationHandler.SendPhoneCode)
		protected.POST("/verification/phone/verify", verificationHandler.VerifyPhoneCode)
		protected.POST("/verification/said", verificationHandler.SubmitSAID)
		protected.POST("/verification/documents", verificationHandler.UploadDocument)
		protected.GET("/verification/documents", verificationHandler.ListDocuments)
		protected.GET("/verification/status", verificationHandler.GetStatus)
	}

	// Административные маршруты
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager))
	{
		admin.PUT("/withdrawals/:id", middleware.UUIDValidator("id"), withdrawalHandler.Process)
		admin.PUT("/verification/said/:id", middleware.UUIDValidator("id"), verificationHandler.ReviewSAID)
	}

	return r
}
