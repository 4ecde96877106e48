// Creates the initial admin account. Intended for first deployment, before
// any admin exists to use the user management endpoints.
//
// Usage: go run scripts/seed_admin.go -email admin@example.com -password <pw>

package main

import (
	"flag"
	"log"
	"os"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	username := flag.String("username", "admin", "admin username")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Failed to parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	normalized := model.NormalizeEmail(*email)

	var existing model.User
	if err := db.Where("email = ?", normalized).First(&existing).Error; err == nil {
		log.Fatalf("A user with email %s already exists (id %d)", normalized, existing.ID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Username: *username,
		Email:    normalized,
		Password: string(hash),
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created admin user %s (id %d)", admin.Email, admin.ID)
}
