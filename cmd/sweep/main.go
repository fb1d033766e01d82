package main

import (
	"log"
	"os"
	"time"

	"hotelbooking/internal/database"
	"hotelbooking/internal/jobs"
	"hotelbooking/internal/repository"
)

// One-shot payment session sweep, for running from an external scheduler
// instead of the in-process cron.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ttl := 15 * time.Minute
	if v := os.Getenv("PAYMENT_SESSION_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid PAYMENT_SESSION_TTL: %v", err)
		}
		ttl = parsed
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	sessionRepo := repository.NewPaymentSessionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	jobs.NewSessionSweeper(sessionRepo, bookingRepo, ttl, log.Printf).Run()
}
