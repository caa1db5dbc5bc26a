package models

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	PlayerID      int64  `json:"discordId,string"`
	DisplayName   string `json:"username"`
	WinPercentage int    `json:"winPercentage"`
	CurrentStreak int    `json:"currentStreak"`
	MaxStreak     int    `json:"maxStreak"`
	TotalGames    int    `json:"totalGames"`
}
