// Command seedInventory loads a CSV export straight into the inventory store.
//
//	seedInventory [-append] inventory.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"stockdash/backend/inventory"
	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/config"
	"stockdash/infrastructure/csvcodec"
	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/sqlite"
)

const seedActor = "seedInventory"

type seedResult struct {
	Created  int
	Skipped  bool
	Rejected []csvcodec.RowError
}

func main() {
	appendRows := flag.Bool("append", false, "insert even when the store already has items")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: seedInventory [-append] <file.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	text, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Error("read csv", slog.Any("err", err))
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.API.SQLitePath)
	if err != nil {
		logger.Error("open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := sqlite.Migrate(ctx, db, cfg.API.MigrationsDir); err != nil {
		logger.Error("apply migrations", slog.Any("err", err))
		os.Exit(1)
	}

	res, err := seed(ctx, db, audit.NewService(), string(text), *appendRows)
	if err != nil {
		logger.Error("seed inventory", slog.Any("err", err))
		os.Exit(1)
	}
	for _, rej := range res.Rejected {
		logger.Warn("skipped csv row", slog.Int("line", rej.Line), slog.String("raw", rej.Raw), slog.Any("err", rej.Reason))
	}
	if res.Skipped {
		fmt.Println("store already has items; nothing seeded (use -append)")
		return
	}
	fmt.Printf("seeded %d items into %s\n", res.Created, cfg.API.SQLitePath)
}

// seed inserts every well-formed row in file order. Without appendRows it
// leaves a non-empty store untouched.
func seed(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, text string, appendRows bool) (seedResult, error) {
	decoded := csvcodec.Decode(text)
	res := seedResult{Rejected: decoded.Rejected}

	if !appendRows {
		existing, err := inventory.ListItems(ctx, db)
		if err != nil {
			return res, fmt.Errorf("list existing items: %w", err)
		}
		if len(existing) > 0 {
			res.Skipped = true
			return res, nil
		}
	}

	for _, d := range decoded.Drafts {
		if _, err := inventory.CreateItem(ctx, db, auditSvc, seedActor, d); err != nil {
			return res, fmt.Errorf("create %q: %w", d.Name, err)
		}
		res.Created++
	}
	return res, nil
}
