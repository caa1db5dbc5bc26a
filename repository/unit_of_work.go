package repository

import (
	"context"
	"errors"
	"fmt"

	"wordler/database"
	"wordler/events"
	"wordler/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	playerRepo       service.PlayerRepository
	puzzleRepo       service.DailyPuzzleRepository
	gameRepo         service.GameRecordRepository
	statsRepo        service.PlayerStatsRepository
	notificationRepo service.PendingNotificationRepository
	destinationRepo  service.DestinationRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.playerRepo = newPlayerRepositoryWithTx(tx)
	u.puzzleRepo = newDailyPuzzleRepositoryWithTx(tx)
	u.gameRepo = newGameRecordRepositoryWithTx(tx)
	u.statsRepo = newPlayerStatsRepositoryWithTx(tx)
	u.notificationRepo = newPendingNotificationRepositoryWithTx(tx)
	u.destinationRepo = newDestinationRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// PlayerRepository returns the player repository for this unit of work
func (u *unitOfWork) PlayerRepository() service.PlayerRepository {
	if u.playerRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.playerRepo
}

// DailyPuzzleRepository returns the puzzle repository for this unit of work
func (u *unitOfWork) DailyPuzzleRepository() service.DailyPuzzleRepository {
	if u.puzzleRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.puzzleRepo
}

// GameRecordRepository returns the game record repository for this unit of work
func (u *unitOfWork) GameRecordRepository() service.GameRecordRepository {
	if u.gameRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameRepo
}

// PlayerStatsRepository returns the stats repository for this unit of work
func (u *unitOfWork) PlayerStatsRepository() service.PlayerStatsRepository {
	if u.statsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.statsRepo
}

// PendingNotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) PendingNotificationRepository() service.PendingNotificationRepository {
	if u.notificationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.notificationRepo
}

// DestinationRepository returns the destination repository for this unit of work
func (u *unitOfWork) DestinationRepository() service.DestinationRepository {
	if u.destinationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.destinationRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
