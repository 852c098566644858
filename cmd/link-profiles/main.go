// Command link-profiles links student profiles to accounts registered under
// the same email. Run it after importing profiles for students who already
// have accounts. Pass --dry-run to only report what would change.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/auth"
	"github.com/EmpoweredVote/registrar/internal/config"
	"github.com/EmpoweredVote/registrar/internal/db"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"gorm.io/gorm/logger"
)

func main() {
	dryRun := false
	for _, arg := range os.Args[1:] {
		if arg == "--dry-run" {
			dryRun = true
		}
	}
	if dryRun {
		fmt.Println("Mode: DRY RUN (no database writes)")
	} else {
		fmt.Println("Mode: LIVE (will write to database)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.Connect(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, LogLevel: logger.Warn})
	if err != nil {
		log.Fatalf("DB connection error: %v", err)
	}
	defer db.Close(gdb)

	if err := auth.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	accountStore := accounts.NewStore(gdb)
	profileStore := profiles.NewStore(gdb)
	linker := profiles.NewLinker(gdb, profileStore, accountStore)

	res, err := linker.LinkByEmail(ctx, accountStore, dryRun)
	if err != nil {
		log.Fatalf("link profiles: %v", err)
	}

	verb := "Linked"
	if dryRun {
		verb = "Would link"
	}
	fmt.Printf("%s: %d\n", verb, res.Linked)
	fmt.Printf("No matching account: %d\n", res.Unmatched)
	fmt.Printf("Skipped (already linked elsewhere): %d\n", res.Conflicts)
}
