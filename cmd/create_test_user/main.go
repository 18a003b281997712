package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"questline/internal/app"
	"questline/internal/clock"
	"questline/internal/db"
	"questline/internal/domain"
	"questline/internal/logger"
	"questline/internal/service"
)

func main() {
	email := flag.String("email", "tester@example.com", "account email")
	username := flag.String("username", "tester", "display name")
	password := flag.String("password", "password123", "account password")
	flag.Parse()

	logger.Init("info", false)

	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	service.InitJWT(os.Getenv("JWT_SECRET"), 24*time.Hour)

	pool := db.Connect(dsn, 2)
	defer pool.Close()

	a := app.New(app.PostgresStores(pool), clock.System(), app.Options{StartingCoins: domain.DefaultStartingCoin})

	ctx := context.Background()
	if err := a.Seed(ctx); err != nil {
		logger.Fatal("sync catalogs", "error", err)
	}

	u, token, err := a.Auth.Register(ctx, service.Registration{
		Email:    *email,
		Username: *username,
		Password: *password,
		IP:       "127.0.0.1",
		UA:       "create_test_user",
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		logger.Info("user already exists, logging in", "email", *email)
		u, token, err = a.Auth.Login(ctx, *email, *password, "127.0.0.1", "create_test_user")
	}
	if err != nil {
		logger.Fatal("create test user", "error", err)
	}

	logger.Info("test user ready", "id", u.ID, "username", u.Username)
	fmt.Println(token)
}
