package service

import (
	"context"
	"fmt"
	"time"

	"wordler/models"

	log "github.com/sirupsen/logrus"
)

// playerService implements the PlayerService interface
type playerService struct {
	uowFactory  UnitOfWorkFactory
	fetcher     GroupFetcher
	clock       Clock
	groupMaxAge time.Duration
}

// NewPlayerService creates a new player service. Group lists older than
// groupMaxAge are refetched through fetcher on the next EnsureGroups call.
func NewPlayerService(uowFactory UnitOfWorkFactory, fetcher GroupFetcher, clock Clock, groupMaxAge time.Duration) PlayerService {
	return &playerService{
		uowFactory:  uowFactory,
		fetcher:     fetcher,
		clock:       clock,
		groupMaxAge: groupMaxAge,
	}
}

// Login stores the profile, token and groups handed over by the OAuth
// callback and returns the stored player
func (s *playerService) Login(ctx context.Context, player *models.Player) (*models.Player, error) {
	if player == nil || player.DiscordID <= 0 {
		return nil, validationError("discord id is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if player.GroupIDs != nil && player.GroupsSyncedAt == nil {
		now := s.clock.now()
		player.GroupsSyncedAt = &now
	}

	if err := uow.PlayerRepository().Upsert(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to save player: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player: %w", err)
	}

	log.WithFields(log.Fields{
		"playerId": player.DiscordID,
		"username": player.Username,
		"groups":   len(player.GroupIDs),
	}).Info("Player logged in")

	return player, nil
}

// GetPlayer retrieves a player, ErrNotFound if unknown
func (s *playerService) GetPlayer(ctx context.Context, discordID int64) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, notFoundError("player %d", discordID)
	}
	return player, nil
}

// EnsureGroups returns the player's groups, refetching them when the stored
// list is stale. A failed fetch means no groups for this call; the stored
// list is left as it was so the next call tries again.
func (s *playerService) EnsureGroups(ctx context.Context, player *models.Player) []int64 {
	now := s.clock.now()
	if !player.GroupsStale(now, s.groupMaxAge) || s.fetcher == nil || player.AccessToken == "" {
		return player.GroupIDs
	}

	groupIDs, err := s.fetcher.FetchGroupIDs(ctx, player.AccessToken)
	if err != nil {
		log.WithError(err).WithField("playerId", player.DiscordID).Warn("Failed to fetch player groups, treating as none")
		return []int64{}
	}

	if err := s.saveGroups(ctx, player.DiscordID, groupIDs, now); err != nil {
		log.WithError(err).WithField("playerId", player.DiscordID).Warn("Failed to store refreshed groups")
	}

	player.GroupIDs = groupIDs
	player.GroupsSyncedAt = &now
	return groupIDs
}

func (s *playerService) saveGroups(ctx context.Context, discordID int64, groupIDs []int64, at time.Time) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PlayerRepository().UpdateGroups(ctx, discordID, groupIDs, at); err != nil {
		return fmt.Errorf("failed to update groups: %w", err)
	}
	return uow.Commit()
}
