package api

import (
	"net/http"
	"strconv"

	"wordler/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	stateCookieName = "wordler_oauth_state"
	stateCookieTTL  = 600 // seconds
)

type meResponse struct {
	DiscordID int64    `json:"discordId,string"`
	Username  string   `json:"username"`
	Avatar    string   `json:"avatar,omitempty"`
	GroupIDs  []string `json:"groupIds"`
}

// Login redirects to the Discord consent page
func (h *Handlers) Login(c *gin.Context) {
	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookieName, state, stateCookieTTL, "/auth", "", h.sessions.secure, true)
	c.Redirect(http.StatusFound, h.identity.AuthCodeURL(state))
}

// Callback completes the OAuth2 flow, stores the player and opens a session
func (h *Handlers) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	expected, err := c.Cookie(stateCookieName)
	if err != nil || expected == "" || c.Query("state") != expected {
		abortWithError(c, http.StatusBadRequest, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/auth", "", h.sessions.secure, true)

	if reason := c.Query("error"); reason != "" {
		abortWithError(c, http.StatusUnauthorized, "discord authorization denied: "+reason)
		return
	}
	code := c.Query("code")
	if code == "" {
		abortWithError(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.identity.Exchange(ctx, code)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.identity.FetchUser(ctx, token.AccessToken)
	if err != nil {
		respondError(c, err)
		return
	}
	discordID, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		respondError(c, err)
		return
	}

	player := &models.Player{
		DiscordID:   discordID,
		Username:    user.Username,
		Avatar:      user.Avatar,
		AccessToken: token.AccessToken,
	}
	if h.groups != nil {
		groups, err := h.groups.FetchGroupIDs(ctx, token.AccessToken)
		if err != nil {
			log.WithFields(log.Fields{
				"discordID": discordID,
				"error":     err,
			}).Warn("Failed to fetch guilds at login")
		} else {
			player.GroupIDs = groups
		}
	}

	saved, err := h.players.Login(ctx, player)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.sessions.Issue(saved.DiscordID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.sessions.SetCookie(c, session)
	c.Redirect(http.StatusFound, h.config.FrontendURL)
}

// Logout clears the session cookie
func (h *Handlers) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the session player with freshly synced groups
func (h *Handlers) Me(c *gin.Context) {
	ctx := c.Request.Context()

	player, err := h.players.GetPlayer(ctx, playerIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	groups := h.players.EnsureGroups(ctx, player)
	groupIDs := make([]string, 0, len(groups))
	for _, id := range groups {
		groupIDs = append(groupIDs, strconv.FormatInt(id, 10))
	}

	c.JSON(http.StatusOK, meResponse{
		DiscordID: player.DiscordID,
		Username:  player.DisplayName(),
		Avatar:    player.Avatar,
		GroupIDs:  groupIDs,
	})
}
