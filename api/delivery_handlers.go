package api

import (
	"net/http"
	"strconv"

	"wordler/models"

	"github.com/gin-gonic/gin"
)

type pendingNotificationsResponse struct {
	Success       bool                          `json:"success"`
	Count         int                           `json:"count"`
	Notifications []*models.GroupedNotification `json:"notifications"`
}

type markProcessedRequest struct {
	NotificationIDs []int64 `json:"notificationIds" binding:"required,min=1,dive,gt=0"`
}

type registerServerRequest struct {
	ServerID  string `json:"serverId" binding:"required,numeric"`
	Name      string `json:"name" binding:"required,max=100"`
	ChannelID string `json:"channelId" binding:"omitempty,numeric"`
}

type setChannelRequest struct {
	ChannelID *string `json:"channelId" binding:"omitempty,numeric"`
}

type serverMember struct {
	DiscordID string `json:"discordId" binding:"required,numeric"`
}

type serverUsersRequest struct {
	Users []serverMember `json:"users" binding:"required,dive"`
}

type destinationView struct {
	ServerID   string `json:"serverId"`
	Name       string `json:"name"`
	ChannelID  string `json:"channelId,omitempty"`
	AutoNotify bool   `json:"autoNotify"`
	IsActive   bool   `json:"isActive"`
}

func newDestinationView(d *models.Destination) destinationView {
	view := destinationView{
		ServerID:   strconv.FormatInt(d.GroupID, 10),
		Name:       d.Name,
		AutoNotify: d.AutoNotify,
		IsActive:   d.IsActive,
	}
	if d.HasResultChannel() {
		view.ChannelID = strconv.FormatInt(*d.ResultChannelID, 10)
	}
	return view
}

func pendingResponse(payloads []*models.GroupedNotification) pendingNotificationsResponse {
	if payloads == nil {
		payloads = []*models.GroupedNotification{}
	}
	return pendingNotificationsResponse{
		Success:       true,
		Count:         len(payloads),
		Notifications: payloads,
	}
}

// PendingNotifications aggregates pending results for every deliverable guild
func (h *Handlers) PendingNotifications(c *gin.Context) {
	payloads, err := h.notifications.PendingForAllGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pendingResponse(payloads))
}

// PendingNotificationsForPlayer aggregates pending results for the guilds
// of one player, refreshing the player's guild list first when stale
func (h *Handlers) PendingNotificationsForPlayer(c *gin.Context) {
	ctx := c.Request.Context()
	discordID, ok := parseSnowflake(c, "discordId")
	if !ok {
		return
	}

	player, err := h.players.GetPlayer(ctx, discordID)
	if err != nil {
		respondError(c, err)
		return
	}
	groups := h.players.EnsureGroups(ctx, player)

	payloads, err := h.notifications.PendingForGroups(ctx, groups)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pendingResponse(payloads))
}

// MarkProcessed confirms delivery of notifications
func (h *Handlers) MarkProcessed(c *gin.Context) {
	var req markProcessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.notifications.MarkProcessed(c.Request.Context(), req.NotificationIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
}

// RegisterServer records the bot joining a guild
func (h *Handlers) RegisterServer(c *gin.Context) {
	var req registerServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	groupID, err := strconv.ParseInt(req.ServerID, 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid serverId")
		return
	}
	var channelID *int64
	if req.ChannelID != "" {
		id, err := strconv.ParseInt(req.ChannelID, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid channelId")
			return
		}
		channelID = &id
	}

	dest, err := h.destinations.Register(c.Request.Context(), groupID, req.Name, channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "server": newDestinationView(dest)})
}

// DeactivateServer records the bot leaving a guild
func (h *Handlers) DeactivateServer(c *gin.Context) {
	groupID, ok := parseSnowflake(c, "serverId")
	if !ok {
		return
	}

	if err := h.destinations.Deactivate(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListServers returns the guilds the bot is still in
func (h *Handlers) ListServers(c *gin.Context) {
	dests, err := h.destinations.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	servers := make([]destinationView, 0, len(dests))
	for _, d := range dests {
		servers = append(servers, newDestinationView(d))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(servers), "servers": servers})
}

// SetServerChannel sets the channel a guild's results are posted to. A null
// channelId stops posting.
func (h *Handlers) SetServerChannel(c *gin.Context) {
	groupID, ok := parseSnowflake(c, "serverId")
	if !ok {
		return
	}

	var req setChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var channelID *int64
	if req.ChannelID != nil {
		id, err := strconv.ParseInt(*req.ChannelID, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid channelId")
			return
		}
		channelID = &id
	}

	dest, err := h.destinations.SetResultChannel(c.Request.Context(), groupID, channelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "server": newDestinationView(dest)})
}

// SyncServerUsers records the pushed members of a guild. Only players who
// already logged in are affected.
func (h *Handlers) SyncServerUsers(c *gin.Context) {
	groupID, ok := parseSnowflake(c, "serverId")
	if !ok {
		return
	}

	var req serverUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ids := make([]int64, 0, len(req.Users))
	for _, u := range req.Users {
		id, err := strconv.ParseInt(u.DiscordID, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "invalid discordId")
			return
		}
		ids = append(ids, id)
	}

	added, err := h.destinations.AddMembers(c.Request.Context(), groupID, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"updated": added,
			"total":   len(ids),
		},
	})
}

// ActiveUsersWithNotifications lists the players whose results still await
// delivery, as snowflake strings
func (h *Handlers) ActiveUsersWithNotifications(c *gin.Context) {
	authors, err := h.notifications.PendingAuthors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]string, 0, len(authors))
	for _, id := range authors {
		users = append(users, strconv.FormatInt(id, 10))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(users), "users": users})
}
