package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sumo-go/config"
	"sumo-go/internal/featured"
	awsinfra "sumo-go/internal/infrastructure/aws"
	"sumo-go/internal/infrastructure/aws/dynamodb"
	"sumo-go/internal/notify"
	"sumo-go/internal/server"
	"sumo-go/internal/student"
	"sumo-go/internal/student/postgres"
	"sumo-go/internal/student/ranking"
	"sumo-go/internal/student/sheets"
)

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup, main only turns its result into an exit code
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	logr := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		logr.Error("Failed to set up student source", "source", cfg.StudentSource, "error", err)
		return 1
	}
	defer cleanup()

	ladder, celebrations, err := buildRanking(cfg)
	if err != nil {
		logr.Error("Invalid ranking configuration", "error", err)
		return 1
	}

	rotator, err := featured.NewRotator(featured.DefaultCards, cfg.FeaturedInterval)
	if err != nil {
		logr.Error("Failed to create featured rotator", "error", err)
		return 1
	}
	go rotator.Run(ctx)

	studentService := student.NewService(source, ladder, celebrations)
	srv := server.New(cfg.Port,
		student.NewHandler(studentService, notify.ParseLanguage(cfg.DefaultLanguage)),
		featured.NewHandler(rotator, cfg.AllowedOrigins),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logr.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
		logr.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logr.Error("Graceful shutdown failed", "error", err)
		return 1
	}
	return 0
}

// buildSource wires the configured student record source
func buildSource(ctx context.Context, cfg *config.Config) (student.Source, func(), error) {
	noop := func() {}

	switch cfg.StudentSource {
	case config.SourceSheets:
		return sheets.NewClient(cfg.SheetsEndpoint, cfg.SheetsTimeout), noop, nil

	case config.SourcePostgres:
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if cfg.RunMigrations {
			if err := postgres.Migrate(db); err != nil {
				db.Close()
				return nil, noop, err
			}
		}
		return postgres.NewStore(db), func() { db.Close() }, nil

	case config.SourceDynamoDB:
		awsCfg, err := awsinfra.NewAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, noop, err
		}
		table := dynamodb.NewStudentTable(awsCfg.DynamoDB, cfg.DynamoDBTable)
		if cfg.DynamoDBCreateTable {
			if err := table.CreateTable(ctx); err != nil {
				return nil, noop, err
			}
		}
		return table, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown student source %q", cfg.StudentSource)
}

func buildRanking(cfg *config.Config) (*ranking.Ladder, *ranking.Celebrations, error) {
	tiers := cfg.LevelTiers
	if len(tiers) == 0 {
		tiers = ranking.DefaultTiers
	}
	ladder, err := ranking.NewLadder(tiers)
	if err != nil {
		return nil, nil, err
	}

	steps := cfg.CelebrationSteps
	if len(steps) == 0 {
		steps = ranking.DefaultSteps
	}
	celebrations, err := ranking.NewCelebrations(steps, ranking.DefaultPalette)
	if err != nil {
		return nil, nil, err
	}

	return ladder, celebrations, nil
}
