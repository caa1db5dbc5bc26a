package service

import (
	"context"
	"fmt"

	"wordler/models"

	log "github.com/sirupsen/logrus"
)

// destinationService implements the DestinationService interface
type destinationService struct {
	uowFactory UnitOfWorkFactory
	clock      Clock
}

// NewDestinationService creates a new destination service
func NewDestinationService(uowFactory UnitOfWorkFactory, clock Clock) DestinationService {
	return &destinationService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Register records the bot joining a guild. Rejoining reactivates the
// destination and keeps its settings; channelID only fills an unset channel.
func (s *destinationService) Register(ctx context.Context, groupID int64, name string, channelID *int64) (*models.Destination, error) {
	if groupID <= 0 {
		return nil, validationError("serverId is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.clock.now()
	dest, err := uow.DestinationRepository().Get(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		dest = &models.Destination{
			GroupID:    groupID,
			AutoNotify: true,
			JoinedAt:   now,
		}
	}

	dest.Name = name
	dest.IsActive = true
	dest.LeftAt = nil
	dest.UpdatedAt = now
	if !dest.HasResultChannel() && channelID != nil {
		dest.ResultChannelID = channelID
	}

	if err := uow.DestinationRepository().Upsert(ctx, dest); err != nil {
		return nil, fmt.Errorf("failed to save destination: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit destination: %w", err)
	}

	log.WithFields(log.Fields{
		"destinationId": groupID,
		"name":          name,
		"hasChannel":    dest.HasResultChannel(),
	}).Info("Registered destination")

	return dest, nil
}

// Deactivate records the bot leaving a guild
func (s *destinationService) Deactivate(ctx context.Context, groupID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	dest, err := uow.DestinationRepository().Get(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		return notFoundError("destination %d", groupID)
	}

	if err := uow.DestinationRepository().Deactivate(ctx, groupID, s.clock.now()); err != nil {
		return fmt.Errorf("failed to deactivate destination: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit destination: %w", err)
	}

	log.WithField("destinationId", groupID).Info("Deactivated destination")
	return nil
}

// SetResultChannel sets the channel results are posted to. A nil channel
// stops delivery without touching auto notify.
func (s *destinationService) SetResultChannel(ctx context.Context, groupID int64, channelID *int64) (*models.Destination, error) {
	if channelID != nil && *channelID <= 0 {
		return nil, validationError("invalid channel id %d", *channelID)
	}
	return s.update(ctx, groupID, func(d *models.Destination) {
		d.ResultChannelID = channelID
	})
}

// SetAutoNotify toggles automatic result posting
func (s *destinationService) SetAutoNotify(ctx context.Context, groupID int64, enabled bool) (*models.Destination, error) {
	return s.update(ctx, groupID, func(d *models.Destination) {
		d.AutoNotify = enabled
	})
}

func (s *destinationService) update(ctx context.Context, groupID int64, apply func(*models.Destination)) (*models.Destination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	dest, err := uow.DestinationRepository().Get(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		return nil, notFoundError("destination %d", groupID)
	}

	apply(dest)
	dest.UpdatedAt = s.clock.now()

	if err := uow.DestinationRepository().Upsert(ctx, dest); err != nil {
		return nil, fmt.Errorf("failed to save destination: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit destination: %w", err)
	}
	return dest, nil
}

// Get retrieves a destination, ErrNotFound if unknown
func (s *destinationService) Get(ctx context.Context, groupID int64) (*models.Destination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	dest, err := uow.DestinationRepository().Get(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		return nil, notFoundError("destination %d", groupID)
	}
	return dest, nil
}

// ListActive returns the destinations the bot is still in
func (s *destinationService) ListActive(ctx context.Context) ([]*models.Destination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	destinations, err := uow.DestinationRepository().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return destinations, nil
}

// AddMembers adds the destination to the groups of the listed players.
// Players who never logged in are skipped. Returns how many players gained
// the destination.
func (s *destinationService) AddMembers(ctx context.Context, groupID int64, discordIDs []int64) (int64, error) {
	for _, id := range discordIDs {
		if id <= 0 {
			return 0, validationError("invalid user id %d", id)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	dest, err := uow.DestinationRepository().Get(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil || !dest.IsActive {
		return 0, notFoundError("active destination %d", groupID)
	}

	added, err := uow.PlayerRepository().AddGroupMember(ctx, groupID, discordIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to add members: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit members: %w", err)
	}

	log.WithFields(log.Fields{
		"destinationId": groupID,
		"pushed":        len(discordIDs),
		"added":         added,
	}).Info("Synced destination members")

	return added, nil
}
