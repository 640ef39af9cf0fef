package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"bookpoint/internal/database"
	"bookpoint/internal/repository"
)

// Deletes refresh tokens that are past expiry or were revoked more than 30
// days ago. Run from a scheduler; the session protocol itself never deletes
// rows, so skipping a run only costs disk, not correctness.
func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	refreshRepo := repository.NewRefreshTokenRepository(db)

	revokedBefore := time.Now().UTC().AddDate(0, 0, -30)
	deleted, err := refreshRepo.DeleteExpired(context.Background(), revokedBefore)
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	log.Printf("token cleanup completed: refresh_tokens=%d", deleted)
}
