package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"questline/internal/db"
	"questline/internal/logger"
	"questline/internal/migrations"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	flag.Parse()

	logger.Init("info", false)

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn, 2)
	defer pool.Close()

	applied, err := migrations.Apply(context.Background(), pool)
	if err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
}
