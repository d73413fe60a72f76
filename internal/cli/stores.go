package cli

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"mission-quiz-service/internal/app"
	"mission-quiz-service/internal/config"
	"mission-quiz-service/internal/infra/memory"
	pgcatalog "mission-quiz-service/internal/infra/postgres"
	redisstore "mission-quiz-service/internal/infra/redis"
	"mission-quiz-service/internal/infra/sqlite"
	"mission-quiz-service/internal/seed"
)

// backends holds the opened stores and the resources that must be released on exit.
type backends struct {
	catalog app.Catalog
	players app.PlayerStore
	pool    *pgxpool.Pool
	closers []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Printf("close backend: %v", err)
		}
	}
}

// openBackends picks the catalog source (Postgres or built-in) and the player
// store (Redis, then SQLite, then memory) from cfg.
func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(seed.Catalog())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.closers = append(b.closers, func() error { pool.Close(); return nil })
		loader = pgcatalog.NewCatalogLoader(pool)
		log.Printf("catalog: postgres")
	} else {
		log.Printf("catalog: built-in")
	}
	b.catalog = memory.NewCatalogCache(loader, config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute))

	switch {
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client.Close)
		b.players = redisstore.NewPlayerStore(client)
		log.Printf("players: redis at %s", cfg.Redis.Addr)
	case cfg.SQLite.Path != "":
		store, err := sqlite.NewStore(cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, store.Close)
		b.players = store
		log.Printf("players: sqlite at %s", cfg.SQLite.Path)
	default:
		b.players = memory.NewStore()
		log.Printf("players: in-memory")
	}

	return b, nil
}

// seedDemoUsers makes sure the demo account exists in the player store.
func seedDemoUsers(ctx context.Context, players app.PlayerStore) error {
	hash, err := app.HashPassword(seed.DemoPassword, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return players.SeedUsers(ctx, seed.Users(hash))
}
