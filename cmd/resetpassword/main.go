// Command resetpassword sets a new password for an existing account, looked
// up by username or email, and marks it temporary so the user must rotate it
// at next login.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/csta-edu/enrollment-api/internal/config"
	"github.com/csta-edu/enrollment-api/internal/database"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/security"
)

func main() {
	username := flag.String("username", "", "account username")
	email := flag.String("email", "", "account email (used when username is empty)")
	password := flag.String("password", "", "new password (16+ characters)")
	permanent := flag.Bool("permanent", false, "do not mark the password as temporary")
	flag.Parse()

	if *username == "" && *email == "" {
		log.Fatal("provide -username or -email")
	}
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

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	var user models.User
	if *username != "" {
		user, err = users.GetByUsername(ctx, *username)
	} else {
		user, err = users.GetByEmail(ctx, *email)
	}
	if err != nil {
		log.Fatalf("user not found: %v", err)
	}

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	digest, err := hasher.Hash(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := users.UpdatePassword(ctx, user.ID, digest, !*permanent); err != nil {
		log.Fatalf("failed to update password: %v", err)
	}

	log.Printf("password updated for user id=%d", user.ID)
}
