// Seeds an admin identity and a few catalog entries for local development.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"styledecor/internal/domain"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@styledecor.local")
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, 'Administrator', $3, $4)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
	`, uuid.New(), adminEmail, domain.RoleAdmin, time.Now().UTC())
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	log.Printf("Seeded admin identity %s", adminEmail)

	samples := []domain.Service{
		{Name: "Wedding Arch", Category: "wedding", Cost: decimal.NewFromInt(500)},
		{Name: "Birthday Balloon Wall", Category: "birthday", Cost: decimal.NewFromInt(180)},
		{Name: "Corporate Stage Backdrop", Category: "corporate", Cost: decimal.NewFromInt(950)},
	}
	for _, s := range samples {
		_, err := db.ExecContext(ctx, `
			INSERT INTO services (id, name, category, description, cost, image_url, created_by_email, created_at)
			VALUES ($1, $2, $3, '', $4, '', $5, $6)
		`, uuid.New(), s.Name, s.Category, s.Cost, adminEmail, time.Now().UTC())
		if err != nil {
			log.Fatalf("Failed to seed service %q: %v", s.Name, err)
		}
	}
	log.Printf("Seeded %d services", len(samples))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
