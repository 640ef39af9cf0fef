package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"bookpoint/internal/database"
	"bookpoint/internal/domain"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "bookpoint.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@bookpoint.local",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@bookpoint.local / admin123")

	clientHash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
	client := domain.User{
		Email:        "client@bookpoint.local",
		PasswordHash: string(clientHash),
		Role:         domain.RoleClient,
		Name:         "Demo Client",
	}
	db.Create(&client)
	log.Println("Client created: client@bookpoint.local / client123")

	log.Println("Creating services...")
	services := []domain.Service{
		{Name: "Consultation", Description: "30-minute consultation call", Price: 50, DurationMinutes: 30, Active: true},
		{Name: "Full Session", Description: "Two-hour full session", Price: 180, DurationMinutes: 120, Active: true},
		{Name: "Follow-up", Description: "Follow-up appointment", Price: 40, DurationMinutes: 20, Active: true},
	}
	for i := range services {
		db.Create(&services[i])
	}

	log.Println("Seed completed")
}
