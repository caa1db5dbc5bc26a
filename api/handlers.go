package api

import (
	"net/http"

	"wordler/config"
	"wordler/service"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built from
type Dependencies struct {
	Puzzles       service.PuzzleService
	Games         service.GameService
	Stats         service.StatsService
	Notifications service.NotificationService
	Players       service.PlayerService
	Destinations  service.DestinationService
	Renderer      service.GridRenderer
	Identity      DiscordIdentity
	Groups        service.GroupFetcher
	Sessions      *SessionManager
}

// Handlers serves every route of the API
type Handlers struct {
	puzzles       service.PuzzleService
	games         service.GameService
	stats         service.StatsService
	notifications service.NotificationService
	players       service.PlayerService
	destinations  service.DestinationService
	renderer      service.GridRenderer
	identity      DiscordIdentity
	groups        service.GroupFetcher
	sessions      *SessionManager
	config        *config.Config
}

// NewHandlers creates the handlers
func NewHandlers(cfg *config.Config, deps Dependencies) *Handlers {
	return &Handlers{
		puzzles:       deps.Puzzles,
		games:         deps.Games,
		stats:         deps.Stats,
		notifications: deps.Notifications,
		players:       deps.Players,
		destinations:  deps.Destinations,
		renderer:      deps.Renderer,
		identity:      deps.Identity,
		groups:        deps.Groups,
		sessions:      deps.Sessions,
		config:        cfg,
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
