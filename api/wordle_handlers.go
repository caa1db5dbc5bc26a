package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"wordler/models"
	"wordler/service"

	"github.com/gin-gonic/gin"
)

type dailyWordResponse struct {
	Word   string `json:"word"`
	Date   string `json:"date"`
	WordID int64  `json:"wordId"`
}

type submitGameRequest struct {
	WordID         int64    `json:"wordId" binding:"required,gt=0"`
	Attempts       *int     `json:"attempts" binding:"required,min=0,max=6"`
	Guesses        []string `json:"guesses" binding:"required,max=6,dive,fiveletters"`
	Solved         bool     `json:"solved"`
	TimeToComplete *int64   `json:"timeToComplete" binding:"omitempty,min=0"`
}

type statsView struct {
	TotalGames        int         `json:"totalGames"`
	TotalWins         int         `json:"totalWins"`
	WinPercentage     int         `json:"winPercentage"`
	CurrentStreak     int         `json:"currentStreak"`
	MaxStreak         int         `json:"maxStreak"`
	GuessDistribution map[int]int `json:"guessDistribution"`
	LastPlayedDate    string      `json:"lastPlayedDate,omitempty"`
}

func newStatsView(s *models.PlayerStats) statsView {
	view := statsView{
		TotalGames:        s.TotalGames,
		TotalWins:         s.TotalWins,
		WinPercentage:     s.WinPercentage(),
		CurrentStreak:     s.CurrentStreak,
		MaxStreak:         s.MaxStreak,
		GuessDistribution: s.Distribution(),
	}
	if s.LastPlayedDay != nil {
		view.LastPlayedDate = s.LastPlayedDay.Format(time.DateOnly)
	}
	return view
}

type gameResultView struct {
	Attempts int      `json:"attempts"`
	Solved   bool     `json:"solved"`
	Guesses  []string `json:"guesses"`
}

type playedTodayResponse struct {
	HasPlayed  bool            `json:"hasPlayed"`
	GameResult *gameResultView `json:"gameResult"`
}

type notifyResultRequest struct {
	WordID int64 `json:"wordId" binding:"required,gt=0"`
}

// GetDailyWord returns today's puzzle, creating it on the first request
func (h *Handlers) GetDailyWord(c *gin.Context) {
	puzzle, err := h.puzzles.GetOrCreateTodayPuzzle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dailyWordResponse{
		Word:   puzzle.Word,
		Date:   puzzle.CalendarDay.Format(time.DateOnly),
		WordID: puzzle.SequenceID,
	})
}

// SubmitGame records the session player's completed game
func (h *Handlers) SubmitGame(c *gin.Context) {
	var req submitGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.games.SubmitGame(c.Request.Context(), service.GameSubmission{
		PlayerID:             playerIDFrom(c),
		PuzzleSequenceID:     req.WordID,
		Attempts:             *req.Attempts,
		Guesses:              req.Guesses,
		Solved:               req.Solved,
		CompletionDurationMs: req.TimeToComplete,
	})
	if errors.Is(err, service.ErrConflict) {
		abortWithError(c, http.StatusConflict, "Already played today")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   newStatsView(stats),
	})
}

// GetStats returns a player's stats, creating zeroed stats on first read
func (h *Handlers) GetStats(c *gin.Context) {
	discordID, ok := parseSnowflake(c, "discordId")
	if !ok {
		return
	}

	stats, err := h.stats.GetOrCreateStats(c.Request.Context(), discordID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newStatsView(stats))
}

// GetLeaderboard returns the ranked players
func (h *Handlers) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWithError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.stats.TopPlayers(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": entries})
}

// GetPlayedToday reports whether a player finished today's puzzle
func (h *Handlers) GetPlayedToday(c *gin.Context) {
	discordID, ok := parseSnowflake(c, "discordId")
	if !ok {
		return
	}

	record, err := h.games.GetTodayGame(c.Request.Context(), discordID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := playedTodayResponse{HasPlayed: record != nil}
	if record != nil {
		resp.GameResult = &gameResultView{
			Attempts: record.AttemptsUsed,
			Solved:   record.Solved,
			Guesses:  record.Guesses,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetResultImage renders the PNG grid of a player's game today
func (h *Handlers) GetResultImage(c *gin.Context) {
	ctx := c.Request.Context()
	discordID, ok := parseSnowflake(c, "discordId")
	if !ok {
		return
	}

	record, err := h.games.GetTodayGame(ctx, discordID)
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		abortWithError(c, http.StatusNotFound, "no game played today")
		return
	}

	puzzle, err := h.puzzles.GetBySequenceID(ctx, record.PuzzleSequenceID)
	if err != nil {
		respondError(c, err)
		return
	}

	name, avatar := models.UnknownPlayerName, ""
	player, err := h.players.GetPlayer(ctx, discordID)
	switch {
	case err == nil:
		name, avatar = player.DisplayName(), player.Avatar
	case !errors.Is(err, service.ErrNotFound):
		respondError(c, err)
		return
	}

	grid := service.EvaluateAll(record.Guesses, puzzle.Word)
	image, err := h.renderer.RenderGrid(grid, name, avatar)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", image)
}

// NotifyResult queues the session player's result for their guilds
func (h *Handlers) NotifyResult(c *gin.Context) {
	var req notifyResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	playerID := playerIDFrom(c)

	game, err := h.games.GetGame(ctx, playerID, req.WordID)
	if err != nil {
		respondError(c, err)
		return
	}
	if game == nil {
		abortWithError(c, http.StatusNotFound, "no game recorded for this puzzle")
		return
	}

	notification, err := h.notifications.Enqueue(ctx, playerID, req.WordID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"notificationId": notification.ID,
		"expiresAt":      notification.ExpiresAt,
		"result":         game.AttemptsLabel(),
	})
}
