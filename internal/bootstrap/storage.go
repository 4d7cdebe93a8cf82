package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/slotbooking/config"
	"github.com/Domenick1991/slotbooking/internal/repository"
	"github.com/Domenick1991/slotbooking/internal/repository/memory"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Storage is the slot ledger and booking store selected by storage.driver.
type Storage struct {
	Slots    repository.SlotRepository
	Bookings repository.BookingRepository
	close    func()
}

func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		db, err := memory.NewDB()
		if err != nil {
			return nil, err
		}
		logrus.Warn("using in-memory storage, data is lost on restart")
		return &Storage{
			Slots:    memory.NewSlotRepository(db),
			Bookings: memory.NewBookingRepository(db),
			close:    func() {},
		}, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if cfg.Database.Migrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Storage{
			Slots:    repository.NewSlotRepository(pool),
			Bookings: repository.NewBookingRepository(pool),
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func (s *Storage) Close() {
	s.close()
}
