package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/luckydip/raffle-backend/internal/config"
	"github.com/luckydip/raffle-backend/internal/handlers"
	"github.com/luckydip/raffle-backend/internal/middleware"
)

// HandlerDependencies bundles the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler   *handlers.AuthHandler
	RaffleHandler *handlers.RaffleHandler
	OracleHandler *handlers.OracleHandler
	AdminHandler  *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		// Raffle entry and queries
		public.POST("/entries", deps.RaffleHandler.Enter)
		public.DELETE("/entries/:address", deps.RaffleHandler.CancelEntry)
		public.GET("/raffle", deps.RaffleHandler.GetSnapshot)
		public.GET("/raffle/trigger", deps.RaffleHandler.CheckTrigger)

		// Anyone may initiate; the engine re-validates the trigger
		public.POST("/draws", deps.RaffleHandler.InitiateDraw)

		public.GET("/rounds", deps.RaffleHandler.GetRounds)
		public.GET("/rounds/:number/winner", deps.RaffleHandler.GetRoundWinner)

		// Indirection getters are ungated
		public.GET("/module", deps.RaffleHandler.GetModule)
		public.GET("/module/admin", deps.RaffleHandler.GetAdministrator)
	}

	// Oracle callback, gated on the shared oracle key
	oracle := router.Group("/api/v1/oracle")
	oracle.Use(middleware.OracleAuthMiddleware(cfg))
	{
		oracle.POST("/fulfill", deps.OracleHandler.Fulfill)
	}

	// Administrator routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	{
		admin.POST("/module/swap", deps.AdminHandler.SwapModule)
		admin.POST("/module/swap-init", deps.AdminHandler.SwapModuleAndInitialize)
		admin.POST("/raffle/reopen", deps.AdminHandler.ForceReopen)
		admin.POST("/raffle/close", deps.AdminHandler.Close)
		admin.POST("/raffle/open", deps.AdminHandler.Open)
		admin.POST("/announce", deps.AdminHandler.Announce)
		admin.GET("/events", deps.AdminHandler.GetEvents)
	}

	return router
}
