// Command admin is the operator CLI. It connects straight to the database
// with a service principal and performs the maintenance operations that are
// not exposed to end users: running migrations, issuing registration tokens,
// granting or revoking the admin flag, and reaping expired tokens and trash.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
	"github.com/sistahology/backend/internal/server/services"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: admin <command> [flags]

commands:
  migrate                        apply pending database migrations
  issue-token [-email E] [-ttl D]  issue an admin registration token
  list-tokens                    list registration tokens
  cleanup-tokens                 delete unused expired registration tokens
  set-admin -user ID [-revoke]   grant or revoke the admin flag on a profile
  purge-trash                    purge entries past the trash retention window

Global configuration comes from the same flags, JSON config and defaults as
the server; command flags follow the command name.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "repository manager init error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc := authz.ServiceActor()

	if err := run(ctx, command, args, db, rm, cfg, svc); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config, svc authz.Principal) error {
	switch command {

	case "migrate":
		if err := rm.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		fmt.Println("migrations applied")
		return nil

	case "issue-token":
		fs := flag.NewFlagSet("issue-token", flag.ExitOnError)
		email := fs.String("email", "", "bind the token to this email")
		ttl := fs.Duration("ttl", 0, "token lifetime (default from config)")
		fs.Parse(args)

		token, err := services.NewTokenService(db, rm, cfg).Issue(ctx, svc, *email, *ttl)
		if err != nil {
			return err
		}
		fmt.Printf("token: %s\nexpires: %s\n", token.Token, token.ExpiresAt.Format(time.RFC3339))
		if token.Email != "" {
			fmt.Printf("bound to: %s\n", token.Email)
		}
		return nil

	case "list-tokens":
		tokens, err := services.NewTokenService(db, rm, cfg).List(ctx, svc)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			state := "unused"
			if t.Consumed() {
				state = "consumed"
			} else if t.Expired(time.Now()) {
				state = "expired"
			}
			fmt.Printf("%s  %-8s  expires %s  email=%q\n", t.ID, state, t.ExpiresAt.Format(time.RFC3339), t.Email)
		}
		return nil

	case "cleanup-tokens":
		n, err := services.NewTokenService(db, rm, cfg).CleanupExpired(ctx, svc)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d expired tokens\n", n)
		return nil

	case "set-admin":
		fs := flag.NewFlagSet("set-admin", flag.ExitOnError)
		userID := fs.String("user", "", "profile id")
		revoke := fs.Bool("revoke", false, "revoke instead of grant")
		fs.Parse(args)
		if *userID == "" {
			return fmt.Errorf("set-admin: -user is required")
		}

		if err := services.NewProfileService(db, rm, cfg).SetAdmin(ctx, svc, *userID, !*revoke); err != nil {
			return err
		}
		fmt.Printf("profile %s admin=%t\n", *userID, !*revoke)
		return nil

	case "purge-trash":
		n, err := services.NewEntryService(db, rm, cfg).PurgeExpiredTrash(ctx, svc)
		if err != nil {
			return err
		}
		fmt.Printf("purged %d entries\n", n)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
