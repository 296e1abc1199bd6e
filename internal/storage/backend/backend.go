// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/mmynk/groupcal/internal/config"
	"github.com/mmynk/groupcal/internal/storage"
	"github.com/mmynk/groupcal/internal/storage/firestore"
	"github.com/mmynk/groupcal/internal/storage/postgres"
	"github.com/mmynk/groupcal/internal/storage/sqlite"
)

// Open connects to cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFirestore:
		s, err := firestore.New(ctx, cfg.FirestoreProjectID)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StoreBackend)
	}
}
