// Command repair-links links clients and trainers to user accounts by email and tidies user_roles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"studiofit_backend/internals/configs"
	database "studiofit_backend/internals/databases"
	"studiofit_backend/internals/features/studio/links"
)

func main() {
	studio := flag.String("studio", "", "studio slug (required)")
	dryRun := flag.Bool("dry-run", false, "report counts and roll back")
	grantAdmin := flag.String("grant-admin", "", "email of a user to make admin of the studio")
	flag.Parse()

	if *studio == "" {
		fmt.Fprintln(os.Stderr, "usage: repair-links -studio <slug> [-dry-run] [-grant-admin <email>]")
		os.Exit(2)
	}

	configs.LoadEnv()
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := configs.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sum, err := links.Repair(ctx, db, links.Options{
		StudioSlug: *studio,
		GrantAdmin: *grantAdmin,
		DryRun:     *dryRun,
	}, logger.Named("repair"))
	if err != nil {
		logger.Error("repair failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(sum.String())
}
