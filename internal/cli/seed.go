package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"mission-quiz-service/internal/config"
	pgcatalog "mission-quiz-service/internal/infra/postgres"
	"mission-quiz-service/internal/seed"
)

// NewSeedCmd loads the built-in catalog into Postgres and the demo account into the player store.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in missions and demo user to the configured stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.pool != nil {
		catalog := seed.Catalog()
		if err := pgcatalog.NewCatalogWriter(b.pool).UpsertCatalog(ctx, catalog); err != nil {
			return err
		}
		log.Printf("seeded %d missions and %d questions", len(catalog.Missions), len(catalog.Questions))
	}

	if err := seedDemoUsers(ctx, b.players); err != nil {
		return err
	}
	log.Printf("seeded demo user %s", seed.DemoUserID)
	return nil
}
