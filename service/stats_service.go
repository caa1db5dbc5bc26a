package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wordler/models"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
	minGames   int
}

// NewStatsService creates a new stats service. minGames is the number of
// games a player needs before appearing on the leaderboard.
func NewStatsService(uowFactory UnitOfWorkFactory, minGames int) StatsService {
	return &statsService{
		uowFactory: uowFactory,
		minGames:   minGames,
	}
}

// GetOrCreateStats returns the player's stats, creating zeroed stats on the
// first read. Unknown players are ErrNotFound.
func (s *statsService) GetOrCreateStats(ctx context.Context, playerID int64) (*models.PlayerStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.PlayerStatsRepository().Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	if stats != nil {
		return stats, nil
	}

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, notFoundError("player %d", playerID)
	}

	stats = models.NewPlayerStats(playerID)
	if err := uow.PlayerStatsRepository().Create(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to create stats: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stats: %w", err)
	}
	return stats, nil
}

// TopPlayers returns up to limit ranked players, DefaultLeaderboardLimit
// when limit is not positive
func (s *statsService) TopPlayers(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	all, err := uow.PlayerStatsRepository().ListWithMinGames(ctx, s.minGames)
	if err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}

	ids := make([]int64, 0, len(all))
	for _, st := range all {
		ids = append(ids, st.PlayerID)
	}

	names := make(map[int64]string, len(ids))
	if len(ids) > 0 {
		players, err := uow.PlayerRepository().GetByDiscordIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to get players: %w", err)
		}
		for _, p := range players {
			names[p.DiscordID] = p.DisplayName()
		}
	}

	return RankLeaderboard(all, names, s.minGames, limit), nil
}

// RankLeaderboard filters out players under minGames and orders the rest by
// win percentage, then current streak, then games played, all descending.
// Player id breaks remaining ties so the order is stable.
func RankLeaderboard(all []*models.PlayerStats, names map[int64]string, minGames, limit int) []*models.LeaderboardEntry {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	entries := make([]*models.LeaderboardEntry, 0, len(all))
	for _, st := range all {
		if st.TotalGames < minGames {
			continue
		}
		name, ok := names[st.PlayerID]
		if !ok || name == "" {
			name = models.UnknownPlayerName
		}
		entries = append(entries, &models.LeaderboardEntry{
			PlayerID:      st.PlayerID,
			DisplayName:   name,
			WinPercentage: st.WinPercentage(),
			CurrentStreak: st.CurrentStreak,
			MaxStreak:     st.MaxStreak,
			TotalGames:    st.TotalGames,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.WinPercentage != b.WinPercentage {
			return a.WinPercentage > b.WinPercentage
		}
		if a.CurrentStreak != b.CurrentStreak {
			return a.CurrentStreak > b.CurrentStreak
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.PlayerID < b.PlayerID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries
}

// RecordGame locks the player's stats row, creating it if needed, and
// applies one game. It runs in uow so the stats move together with the game
// record the caller is writing.
func (s *statsService) RecordGame(ctx context.Context, uow UnitOfWork, playerID int64, attempts int, solved bool, day time.Time) (*models.PlayerStats, error) {
	repo := uow.PlayerStatsRepository()
	stats, err := repo.GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	if stats == nil {
		if err := repo.Create(ctx, models.NewPlayerStats(playerID)); err != nil {
			return nil, fmt.Errorf("failed to create stats: %w", err)
		}
		stats, err = repo.GetForUpdate(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get stats: %w", err)
		}
		if stats == nil {
			return nil, fmt.Errorf("stats for player %d missing after create", playerID)
		}
	}

	if err := stats.RecordResult(attempts, solved, day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := repo.Update(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}
	return stats, nil
}
