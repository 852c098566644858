// Command seed loads student profiles from a CSV, YAML or JSON file and can
// mint a bootstrap invite for the first elevated account.
//
//	go run ./cmd/seed --profiles students.csv --dry-run
//	go run ./cmd/seed --profiles students.csv
//	go run ./cmd/seed --invite --code ABC123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/EmpoweredVote/registrar/internal/auth"
	"github.com/EmpoweredVote/registrar/internal/config"
	"github.com/EmpoweredVote/registrar/internal/db"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/seeds"
	"gorm.io/gorm/logger"
)

var (
	profilesPath = flag.String("profiles", "", "Path to a profile seed file (.csv, .yaml, .yml, .json)")
	dryRun       = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	mintInvite   = flag.Bool("invite", false, "Mint a bootstrap invite with no issuer")
	inviteCode   = flag.String("code", "", "Use this invite code instead of a random one (with --invite)")
)

func main() {
	flag.Parse()
	if *profilesPath == "" && !*mintInvite {
		fatalf("nothing to do: pass --profiles and/or --invite")
	}

	var rows []seeds.ProfileSeed
	if *profilesPath != "" {
		var err error
		rows, err = seeds.LoadProfiles(*profilesPath)
		if err != nil {
			fatalf("load %s: %v", *profilesPath, err)
		}
		if err := seeds.Validate(rows); err != nil {
			fatalf("validation failed:\n%v", err)
		}
		fmt.Printf("Loaded %d profiles from %s\n", len(rows), *profilesPath)
	}

	if *dryRun {
		for _, r := range rows {
			fmt.Printf("  %-20s %-20s %s\n", r.LastName, r.FirstName, r.Email)
		}
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}
	gdb, err := db.Connect(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, LogLevel: logger.Warn})
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close(gdb)

	if err := auth.Migrate(gdb); err != nil {
		fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if len(rows) > 0 {
		counts, err := seeds.SeedProfiles(ctx, profiles.NewStore(gdb), rows)
		if err != nil {
			fatalf("seed profiles: %v", err)
		}
		fmt.Printf("Profiles: created=%d skipped=%d\n", counts.Created, counts.Skipped)
	}

	if *mintInvite {
		code, existed, err := seeds.BootstrapInvite(ctx, invites.NewLedger(gdb), *inviteCode)
		if err != nil {
			fatalf("bootstrap invite: %v", err)
		}
		if existed {
			fmt.Printf("Invite %s already exists\n", code)
		} else {
			fmt.Printf("Invite code: %s\n", code)
		}
	}

	fmt.Println("Seed complete")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
