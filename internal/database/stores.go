// Package database owns the connection handles and maps DB_DRIVER onto a
// concrete set of repository stores.
package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/repository/memstore"
	"github.com/iliyamo/autopro/internal/repository/mongostore"
)

// OpenStores connects the backend selected by cfg.DBDriver, prepares its
// schema or indexes and returns the stores.  Stores.Close releases the
// connection.
func OpenStores(ctx context.Context, cfg config.Config) (repository.Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		h := NewMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err := h.Acquire(ctx)
		if err != nil {
			return repository.Stores{}, fmt.Errorf("mysql connect: %w", err)
		}
		if err := Migrate(ctx, db); err != nil {
			_ = h.Close()
			return repository.Stores{}, err
		}
		zap.S().Infow("storage ready", "driver", cfg.DBDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return repository.Stores{
			Users:        repository.NewUserRepo(db),
			Products:     repository.NewProductRepo(db),
			Appointments: repository.NewAppointmentRepo(db),
			Close:        h.Close,
		}, nil

	case config.DriverMongo:
		h := NewMongo(cfg.MongoURI, cfg.MongoDB)
		db, err := h.Acquire(ctx)
		if err != nil {
			return repository.Stores{}, fmt.Errorf("mongo connect: %w", err)
		}
		st := mongostore.New(db)
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = h.Close()
			return repository.Stores{}, err
		}
		zap.S().Infow("storage ready", "driver", cfg.DBDriver, "db", cfg.MongoDB)
		return repository.Stores{
			Users:        st.Users(),
			Products:     st.Products(),
			Appointments: st.Appointments(),
			Close:        h.Close,
		}, nil

	case config.DriverMemory:
		zap.S().Warnw("using in-memory storage; data is lost on exit")
		return memstore.New(), nil
	}
	return repository.Stores{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
