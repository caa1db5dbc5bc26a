package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"wordler/events"
	"wordler/models"

	log "github.com/sirupsen/logrus"
)

// NotificationConfig holds the fanout policy
type NotificationConfig struct {
	TTL   time.Duration // lifetime of a pending notification
	Share ShareFormatter
}

// notificationService implements the NotificationService interface
type notificationService struct {
	uowFactory UnitOfWorkFactory
	clock      Clock
	renderer   GridRenderer
	composer   ImageComposer
	guard      DestinationGuard
	config     NotificationConfig
	metrics    MetricsRecorder
}

// NewNotificationService creates a new notification service. renderer and
// composer may be nil, in which case payloads carry text only.
func NewNotificationService(
	uowFactory UnitOfWorkFactory,
	clock Clock,
	renderer GridRenderer,
	composer ImageComposer,
	guard DestinationGuard,
	config NotificationConfig,
	metrics MetricsRecorder,
) NotificationService {
	if guard == nil {
		guard = NewMemoryDestinationGuard(0)
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &notificationService{
		uowFactory: uowFactory,
		clock:      clock,
		renderer:   renderer,
		composer:   composer,
		guard:      guard,
		config:     config,
		metrics:    metrics,
	}
}

// HandleGameCompleted enqueues the result of a committed game. Runs on the
// event bus, so failures are logged rather than returned.
func (s *notificationService) HandleGameCompleted(ctx context.Context, event events.Event) {
	completed, ok := event.(events.GameCompletedEvent)
	if !ok {
		log.WithField("eventType", event.Type()).Error("Unexpected event for game completion handler")
		return
	}

	if _, err := s.Enqueue(ctx, completed.PlayerID, completed.PuzzleSequenceID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"playerId": completed.PlayerID,
			"wordId":   completed.PuzzleSequenceID,
		}).Error("Failed to enqueue game notification")
	}
}

// Enqueue queues the player's game for delivery. An active notification for
// the same game is returned as is instead of queueing a duplicate.
func (s *notificationService) Enqueue(ctx context.Context, playerID, puzzleSequenceID int64) (*models.PendingNotification, error) {
	now := s.clock.now()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.PendingNotificationRepository().GetActive(ctx, playerID, puzzleSequenceID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending notification: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	game, err := uow.GameRecordRepository().Get(ctx, playerID, puzzleSequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, notFoundError("no game for player %d on puzzle %d", playerID, puzzleSequenceID)
	}

	puzzle, err := uow.DailyPuzzleRepository().GetBySequenceID(ctx, puzzleSequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get puzzle: %w", err)
	}
	if puzzle == nil {
		return nil, notFoundError("puzzle %d", puzzleSequenceID)
	}

	player, err := uow.PlayerRepository().GetByDiscordID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, notFoundError("player %d", playerID)
	}

	streak := 0
	stats, err := uow.PlayerStatsRepository().Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	if stats != nil {
		streak = stats.CurrentStreak
	}

	grid := EvaluateAll(game.Guesses, puzzle.Word)
	notification := &models.PendingNotification{
		PlayerID:             playerID,
		PuzzleSequenceID:     puzzleSequenceID,
		GridText:             s.config.Share.NotificationText(puzzleSequenceID, game.AttemptsUsed, game.Solved, grid, game.CompletionDurationMs, streak),
		Image:                s.renderImage(grid, player),
		AttemptsUsed:         game.AttemptsUsed,
		Solved:               game.Solved,
		StreakAtSubmission:   streak,
		CompletionDurationMs: game.CompletionDurationMs,
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.config.TTL),
	}

	if err := uow.PendingNotificationRepository().Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit notification: %w", err)
	}

	s.metrics.RecordNotificationEnqueued()
	log.WithFields(log.Fields{
		"notificationId": notification.ID,
		"playerId":       playerID,
		"wordId":         puzzleSequenceID,
		"hasImage":       notification.Image != nil,
	}).Info("Queued game notification")

	return notification, nil
}

// renderImage is best effort: a failed render leaves the notification text only
func (s *notificationService) renderImage(grid models.GuessGrid, player *models.Player) []byte {
	if s.renderer == nil {
		return nil
	}
	image, err := s.renderer.RenderGrid(grid, player.DisplayName(), player.Avatar)
	if err != nil {
		log.WithError(err).WithField("playerId", player.DiscordID).Warn("Failed to render result image")
		return nil
	}
	return image
}

// PendingForGroups aggregates pending results for the given groups. An
// empty list yields no payloads.
func (s *notificationService) PendingForGroups(ctx context.Context, groupIDs []int64) ([]*models.GroupedNotification, error) {
	if len(groupIDs) == 0 {
		return []*models.GroupedNotification{}, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	destinations, err := uow.DestinationRepository().ListDeliverable(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return s.aggregate(ctx, uow, destinations)
}

// PendingForAllGroups aggregates pending results for every deliverable destination
func (s *notificationService) PendingForAllGroups(ctx context.Context) ([]*models.GroupedNotification, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	destinations, err := uow.DestinationRepository().ListDeliverable(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	return s.aggregate(ctx, uow, destinations)
}

// aggregate builds one payload per destination that has pending results
// from its members. Destinations served within the guard window are skipped.
func (s *notificationService) aggregate(ctx context.Context, uow UnitOfWork, destinations []*models.Destination) ([]*models.GroupedNotification, error) {
	start := time.Now()
	result := []*models.GroupedNotification{}
	if len(destinations) == 0 {
		return result, nil
	}

	pending, err := uow.PendingNotificationRepository().ListActive(ctx, s.clock.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return result, nil
	}

	authorIDs := make([]int64, 0, len(pending))
	seen := make(map[int64]struct{}, len(pending))
	for _, n := range pending {
		if _, ok := seen[n.PlayerID]; !ok {
			seen[n.PlayerID] = struct{}{}
			authorIDs = append(authorIDs, n.PlayerID)
		}
	}

	players, err := uow.PlayerRepository().GetByDiscordIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification authors: %w", err)
	}
	authors := make(map[int64]*models.Player, len(players))
	for _, p := range players {
		authors[p.DiscordID] = p
	}

	for _, dest := range destinations {
		if !dest.Deliverable() {
			continue
		}

		var members []*models.PendingNotification
		for _, n := range pending {
			if author, ok := authors[n.PlayerID]; ok && author.InGroup(dest.GroupID) {
				members = append(members, n)
			}
		}
		if len(members) == 0 {
			continue
		}

		acquired, err := s.guard.TryAcquire(ctx, dest.GroupID)
		if err != nil {
			log.WithError(err).WithField("destinationId", dest.GroupID).Warn("Destination guard unavailable, serving anyway")
			acquired = true
		}
		if !acquired {
			log.WithField("destinationId", dest.GroupID).Debug("Destination served recently, skipping")
			continue
		}

		result = append(result, s.buildPayload(dest, members, authors))
	}

	s.metrics.RecordAggregation(time.Since(start), len(result))
	return result, nil
}

// buildPayload merges a destination's notifications. A single notification
// is passed through unchanged. When the images of several cannot be
// composed, only the first is served and the rest stay pending for a later
// pass.
func (s *notificationService) buildPayload(dest *models.Destination, members []*models.PendingNotification, authors map[int64]*models.Player) *models.GroupedNotification {
	if len(members) == 1 {
		return singlePayload(dest, members[0], authors[members[0].PlayerID])
	}

	var images [][]byte
	for _, n := range members {
		if len(n.Image) > 0 {
			images = append(images, n.Image)
		}
	}

	var image []byte
	switch {
	case len(images) == 1:
		image = images[0]
	case len(images) > 1:
		combined, err := s.compose(images)
		if err != nil {
			s.metrics.RecordCompositionFailure()
			log.WithError(err).WithFields(log.Fields{
				"destinationId": dest.GroupID,
				"notifications": len(members),
			}).Warn("Failed to combine result images, serving first result only")
			return singlePayload(dest, members[0], authors[members[0].PlayerID])
		}
		image = combined
	}

	payload := &models.GroupedNotification{
		DestinationID: dest.GroupID,
		ChannelID:     *dest.ResultChannelID,
		Image:         image,
		Stats:         groupStats(members),
	}

	texts := make([]string, 0, len(members))
	seenPuzzles := make(map[int64]struct{})
	seenAuthors := make(map[int64]struct{})
	for _, n := range members {
		author := authors[n.PlayerID]
		texts = append(texts, fmt.Sprintf("**%s**\n%s", author.DisplayName(), n.GridText))
		payload.NotificationIDs = append(payload.NotificationIDs, n.ID)

		if _, ok := seenPuzzles[n.PuzzleSequenceID]; !ok {
			seenPuzzles[n.PuzzleSequenceID] = struct{}{}
			payload.PuzzleIDs = append(payload.PuzzleIDs, n.PuzzleSequenceID)
		}
		if _, ok := seenAuthors[n.PlayerID]; !ok {
			seenAuthors[n.PlayerID] = struct{}{}
			payload.Authors = append(payload.Authors, authorOf(author))
		}
	}
	payload.Text = strings.Join(texts, "\n\n")

	return payload
}

// compose shields aggregation from a panicking composer
func (s *notificationService) compose(images [][]byte) (out []byte, err error) {
	if s.composer == nil {
		return nil, fmt.Errorf("no image composer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image composer panicked: %v", r)
		}
	}()
	return s.composer.Compose(images)
}

func singlePayload(dest *models.Destination, n *models.PendingNotification, author *models.Player) *models.GroupedNotification {
	return &models.GroupedNotification{
		DestinationID:   dest.GroupID,
		ChannelID:       *dest.ResultChannelID,
		PuzzleIDs:       []int64{n.PuzzleSequenceID},
		Text:            n.GridText,
		Image:           n.Image,
		Authors:         []models.NotificationAuthor{authorOf(author)},
		NotificationIDs: []int64{n.ID},
	}
}

func authorOf(p *models.Player) models.NotificationAuthor {
	if p == nil {
		return models.NotificationAuthor{DisplayName: models.UnknownPlayerName}
	}
	return models.NotificationAuthor{
		PlayerID:    p.DiscordID,
		DisplayName: p.DisplayName(),
		Avatar:      p.Avatar,
	}
}

// groupStats counts games, distinct players and wins. AverageAttempts is
// taken over solved games, since a loss records zero attempts, and is
// rounded to one decimal.
func groupStats(members []*models.PendingNotification) *models.GroupStats {
	stats := &models.GroupStats{GamesCount: len(members)}

	players := make(map[int64]struct{})
	attempts := 0
	for _, n := range members {
		players[n.PlayerID] = struct{}{}
		if n.Solved {
			stats.SolvedCount++
			attempts += n.AttemptsUsed
		}
	}
	stats.PlayersCount = len(players)

	if stats.SolvedCount > 0 {
		avg := float64(attempts) / float64(stats.SolvedCount)
		stats.AverageAttempts = math.Round(avg*10) / 10
	}
	return stats
}

// MarkProcessed flags the given notifications as consumed. Ids already
// processed or unknown are ignored, so retries are safe.
func (s *notificationService) MarkProcessed(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, validationError("notificationIds is required")
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return 0, validationError("invalid notification id %d", id)
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	updated, err := uow.PendingNotificationRepository().MarkProcessed(ctx, unique, s.clock.now())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications processed: %w", err)
	}

	if updated > 0 {
		uow.EventBus().Publish(events.NotificationsProcessedEvent{
			NotificationIDs: unique,
			Updated:         updated,
		})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit processed notifications: %w", err)
	}

	s.metrics.RecordNotificationsProcessed(updated)
	log.WithFields(log.Fields{
		"requested": len(unique),
		"updated":   updated,
	}).Info("Marked notifications processed")

	return updated, nil
}

// ReapExpired deletes notifications past their expiry
func (s *notificationService) ReapExpired(ctx context.Context) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.PendingNotificationRepository().DeleteExpired(ctx, s.clock.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reaping: %w", err)
	}
	return deleted, nil
}

// PendingAuthors returns the players whose results are still awaiting delivery
func (s *notificationService) PendingAuthors(ctx context.Context) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	authors, err := uow.PendingNotificationRepository().DistinctPendingAuthors(ctx, s.clock.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending authors: %w", err)
	}
	return authors, nil
}
