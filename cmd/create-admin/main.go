// create-admin provisions an admin account. There is no self-service signup:
// accounts are created from the command line by an operator with database
// access.
//
//	create-admin -email ops@example.com -password 'secret'
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"pathcrm/internal/admin"
	"pathcrm/internal/platform/config"
	"pathcrm/internal/platform/postgres"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -email <email> -password <password>")
		os.Exit(2)
	}
	if len(*password) < 8 {
		fmt.Fprintln(os.Stderr, "password must be at least 8 characters")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	service := admin.New(admin.NewPostgres(db), nil, admin.WithLogger(log))

	created, err := service.CreateAccount(ctx, *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create admin failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin %s created (id %s)\n", created.Email, created.ID)
}
