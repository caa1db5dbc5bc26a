package models

// GroupStats summarizes the games merged into one GroupedNotification
type GroupStats struct {
	GamesCount      int     `json:"gamesCount"`
	PlayersCount    int     `json:"playersCount"`
	SolvedCount     int     `json:"solvedCount"`
	AverageAttempts float64 `json:"averageAttempts"`
}

// NotificationAuthor identifies whose result a payload carries
type NotificationAuthor struct {
	PlayerID    int64  `json:"discordId,string"`
	DisplayName string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
}

// GroupedNotification is the payload served to a delivery agent for one
// destination. Stats is nil when the payload carries a single result.
type GroupedNotification struct {
	DestinationID   int64                `json:"serverId,string"`
	ChannelID       int64                `json:"channelId,string"`
	PuzzleIDs       []int64              `json:"wordIds"`
	Text            string               `json:"text"`
	Image           []byte               `json:"image,omitempty"`
	Authors         []NotificationAuthor `json:"authors"`
	Stats           *GroupStats          `json:"stats,omitempty"`
	NotificationIDs []int64              `json:"notificationIds"`
}

// IsGrouped reports whether several results were merged
func (g *GroupedNotification) IsGrouped() bool {
	return len(g.NotificationIDs) > 1
}
