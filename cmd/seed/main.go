package main

import (
	"context"
	"os"

	"posledger/internal/auth"
	"posledger/internal/config"
	"posledger/internal/db"
	"posledger/internal/logger"
	"posledger/internal/models"
	"posledger/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Seeds the owner account and the initial machines. Safe to run more than
// once: it skips whatever already exists.
func main() {
	cfg := config.Load()
	log := logger.New()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	ctx := context.Background()
	users := store.NewUserStore(database)
	machines := store.NewMachineStore(database)
	txRunner := db.NewTxRunner(database)

	ownerUsername := getEnv("OWNER_USERNAME", "owner")
	ownerPassword := getEnv("OWNER_PASSWORD", "")
	if ownerPassword == "" {
		log.Fatal("OWNER_PASSWORD must be set")
	}

	owners, err := users.CountByRole(ctx, models.RoleOwner)
	if err != nil {
		log.WithError(err).Fatal("failed to check owner account")
	}
	if owners == 0 {
		passwordHash, err := auth.HashPassword(ownerPassword)
		if err != nil {
			log.WithError(err).Fatal("failed to hash owner password")
		}
		err = txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			return users.Create(ctx, tx, uuid.NewString(), ownerUsername, passwordHash, models.RoleOwner)
		})
		if err != nil {
			log.WithError(err).Fatal("failed to create owner account")
		}
		log.WithField("username", ownerUsername).Info("owner account created")
	}

	count, err := machines.Count(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to check machines")
	}
	if count == 0 {
		names := []string{"POS 1", "POS 2", "POS 3"}
		err = txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
			for _, name := range names {
				if err := machines.Create(ctx, tx, uuid.NewString(), name, 0); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.WithError(err).Fatal("failed to create machines")
		}
		log.WithField("count", len(names)).Info("machines created")
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
