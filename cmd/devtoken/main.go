// Command devtoken prints a bearer token for local development and can seed
// the user's profile, standing in for the identity provider.
//
//	JWT_SECRET=dev devtoken -user alice -name Alice -seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/groupcal/internal/auth"
	"github.com/mmynk/groupcal/internal/config"
	"github.com/mmynk/groupcal/internal/models"
	"github.com/mmynk/groupcal/internal/profiles"
	"github.com/mmynk/groupcal/internal/storage/backend"
	"github.com/mmynk/groupcal/pkg/logging"
)

func main() {
	userID := flag.String("user", "", "user ID to issue the token for")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "username stored with -seed")
	seed := flag.Bool("seed", false, "write the user's profile to the configured store")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if *userID == "" || cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "usage: JWT_SECRET=... devtoken -user <id> [-email e] [-name n] [-seed]")
		os.Exit(2)
	}

	if *seed {
		if err := seedProfile(cfg, &models.User{ID: *userID, Username: *name, Email: *email}); err != nil {
			slog.Error("Failed to seed profile", "user_id", *userID, "error", err)
			os.Exit(1)
		}
		slog.Info("Profile seeded", "user_id", *userID, "backend", cfg.StoreBackend)
	}

	token, err := auth.NewJWTManager(cfg.JWTSecret, config.DefaultTokenDuration).Generate(*userID, *email)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func seedProfile(cfg config.Config, u *models.User) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := context.Background()
	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return profiles.NewLookup(store).Set(ctx, u)
}
