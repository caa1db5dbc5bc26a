package api

import (
	"fmt"

	"wordler/config"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with every route
func NewRouter(cfg *config.Config, h *Handlers) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(cfg.FrontendURL))

	router.GET("/health", HealthCheck)

	session := RequireSession(h.sessions)

	auth := router.Group("/auth")
	{
		auth.GET("/discord/login", h.Login)
		auth.GET("/discord/callback", h.Callback)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", session, h.Me)
	}

	wordle := router.Group("/api/wordle")
	{
		wordle.GET("/daily-word", h.GetDailyWord)
		wordle.POST("/stats", session, h.SubmitGame)
		wordle.GET("/stats/:discordId", h.GetStats)
		wordle.GET("/leaderboard", h.GetLeaderboard)
		wordle.GET("/played-today/:discordId", h.GetPlayedToday)
		wordle.GET("/result-image/:discordId", h.GetResultImage)
	}

	discord := router.Group("/api/discord")
	discord.POST("/notify-result", session, h.NotifyResult)

	// Delivery agent surface
	agent := discord.Group("", RequireBotToken(cfg.BotAPIToken))
	{
		agent.GET("/pending-notifications", h.PendingNotifications)
		agent.GET("/pending-notifications/:discordId", h.PendingNotificationsForPlayer)
		agent.POST("/mark-processed", h.MarkProcessed)
		agent.GET("/servers", h.ListServers)
		agent.POST("/servers", h.RegisterServer)
		agent.DELETE("/servers/:serverId", h.DeactivateServer)
		agent.PUT("/servers/:serverId/wordle-channel", h.SetServerChannel)
		agent.PUT("/servers/:serverId/users", h.SyncServerUsers)
		agent.GET("/users/active-with-notifications", h.ActiveUsersWithNotifications)
	}

	return router, nil
}
