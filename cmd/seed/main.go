package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"hotelbooking/internal/database"
	"hotelbooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hotelbooking.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Seeding demo data...")
	if err := repository.SeedDemoData(db); err != nil {
		log.Fatal("Seed failed:", err)
	}

	log.Println("Seed completed.")
	log.Println("Guests: linh@gmail.com, minh@gmail.com")
	log.Println("Partners: owner@saigonriver.vn, owner@hanoiview.vn")
}
