package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"receipt-rewards/internal/models"
	"receipt-rewards/internal/repository"
	"receipt-rewards/pkg/config"
	"receipt-rewards/pkg/logger"
	"receipt-rewards/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "directory of *.sql files applied before seeding; empty to skip")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *migrationsDir != "" {
		if err := applyMigrations(ctx, db, *migrationsDir, appLogger); err != nil {
			appLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	appLogger.Info("Seeding reward catalog")
	rewardRepo := repository.NewRewardRepository(db, appLogger)
	for _, rw := range catalog(time.Now()) {
		if err := rewardRepo.Upsert(ctx, rw); err != nil {
			appLogger.Fatal("Failed to seed reward", zap.Int("reward_id", rw.ID), zap.Error(err))
		}
		appLogger.Info("Reward seeded", zap.Int("reward_id", rw.ID), zap.String("name", rw.Name), zap.Int("points", rw.Points))
	}

	appLogger.Info("Database seeding completed successfully")
}

// catalog is the campaign's reward list.
func catalog(now time.Time) []*models.Reward {
	return []*models.Reward{
		{
			ID:          1,
			Name:        "Premium Gin Collection",
			Description: "A curated collection of Bloedlemoen gins, including limited small-batch releases",
			Points:      350,
			Image:       "/bloedlemoen-bottles.jpg",
			Category:    "Premium",
			Active:      true,
			CreatedAt:   now,
		},
		{
			ID:          2,
			Name:        "Bloedlemoen Gin Bottle",
			Description: "A premium 750ml bottle of Bloedlemoen Gin with botanical notes",
			Points:      200,
			Image:       "/Landing-Page-Bottle.png",
			Category:    "Premium",
			Active:      true,
			CreatedAt:   now,
		},
		{
			ID:          3,
			Name:        "Bloedlemoen T-Shirt",
			Description: "Official branded t-shirt in premium cotton with embroidered logo",
			Points:      100,
			Image:       "/Landing-Page-Logo.png",
			Category:    "Apparel",
			Active:      true,
			CreatedAt:   now,
		},
		{
			ID:          4,
			Name:        "Gin Tasting Experience",
			Description: "Exclusive gin tasting session with our master distiller and premium cocktails",
			Points:      300,
			Image:       "/Bloedlemoen-Gin-Serve-Gallery-1.jpg",
			Category:    "Experience",
			Active:      true,
			CreatedAt:   now,
		},
		{
			ID:          5,
			Name:        "Cocktail Recipe Book",
			Description: "Digital recipe book with 25 premium cocktail recipes and mixing techniques",
			Points:      50,
			Image:       "/Landing-Page-Logo.png",
			Category:    "Digital",
			Active:      true,
			CreatedAt:   now,
		},
	}
}

func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// applyMigrations runs every file in name order. The files are idempotent
// (CREATE ... IF NOT EXISTS), so rerunning the seeder is safe.
func applyMigrations(ctx context.Context, db *pgxpool.Pool, dir string, logger *zap.Logger) error {
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		if _, err := db.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", filepath.Base(file), err)
		}
		logger.Info("Migration applied", zap.String("file", filepath.Base(file)))
	}
	return nil
}
