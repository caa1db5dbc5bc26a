package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// playerIDKey holds the authenticated discord id in the gin context
const playerIDKey = "wordler_player_id"

// RequireSession rejects requests without a valid session cookie or
// bearer session token
func RequireSession(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		discordID, err := sessions.Parse(token)
		if err != nil {
			log.WithError(err).Debug("Rejected session")
			abortWithError(c, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		c.Set(playerIDKey, discordID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return bearerToken(c)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// playerIDFrom returns the discord id set by RequireSession
func playerIDFrom(c *gin.Context) int64 {
	return c.GetInt64(playerIDKey)
}

// RequireBotToken restricts a route to delivery agents holding token
func RequireBotToken(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		presented := []byte(bearerToken(c))
		if len(expected) == 0 || subtle.ConstantTimeCompare(presented, expected) != 1 {
			abortWithError(c, http.StatusUnauthorized, "invalid bot token")
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Info("Request rejected")
		default:
			entry.Debug("Request served")
		}
	}
}

// CORS allows the web client at origin to call the API with credentials
func CORS(origin string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
