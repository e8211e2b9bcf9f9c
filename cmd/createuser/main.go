package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

// Development helper: creates an account from the command line so a fresh
// database has something to log in with.
func main() {
	email := flag.String("email", "dev@example.com", "account email")
	password := flag.String("password", "devpassword", "account password")
	flag.Parse()

	cfg := config.Load()

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	normalized := service.NormalizeEmail(*email)

	if existing, err := repo.GetByEmail(ctx, normalized); err == nil {
		log.Printf("user already exists id=%d email=%s", existing.ID, existing.Email)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatalf("lookup failed: %v", err)
	}

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password failed: %v", err)
	}

	user, err := repo.Create(ctx, normalized, hash)
	if err != nil {
		log.Fatalf("create user failed: %v", err)
	}

	log.Printf("user created id=%d email=%s", user.ID, user.Email)
}
