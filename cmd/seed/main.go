package main

import (
	"context"
	"log"
	"os"

	"authbase/internal/auth"
	"authbase/internal/config"
	"authbase/internal/db"
	"authbase/internal/model"
	"authbase/internal/repository"
)

// Provisions the initial administrator account. Admin promotion has no
// HTTP surface, so operators run this once against a fresh database.
func main() {
	log.Println("Starting admin seed...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	if existing, err := repo.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("Admin %s already exists, nothing to do", email)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
		IsVerified:   true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin user %s created", email)
}
