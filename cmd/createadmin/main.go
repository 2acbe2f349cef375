// Command createadmin bootstraps the initial administrator account. It is
// idempotent: an existing username leaves the database untouched.
package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/config"
	"github.com/csta-edu/enrollment-api/internal/database"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/security"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "admin@csta.local", "admin email")
	password := flag.String("password", "", "initial password (16+ characters)")
	flag.Parse()

	if len(*password) < 16 {
		log.Fatal("password must be at least 16 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	if _, err := users.GetByUsername(ctx, *username); err == nil {
		log.Printf("user %q already exists, nothing to do", *username)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to check existing user: %v", err)
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	digest, err := hasher.Hash(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := models.User{
		Username:     *username,
		Email:        email,
		PasswordHash: digest,
		Role:         models.RoleAdmin,
		TempPassword: false,
	}
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}

	log.Printf("admin account created: username=%q id=%d", admin.Username, admin.ID)
}
