package cli

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"quizdesk/internal/app"
	"quizdesk/internal/config"
	"quizdesk/internal/infra/memory"
	redisinfra "quizdesk/internal/infra/redis"
	"quizdesk/internal/infra/sqlite"
)

// services bundles the wired application core for a command invocation.
type services struct {
	accounts *app.AccountService
	quizzes  *app.QuizService
	scores   *app.ScoreService
	limit    int
	close    func()
}

// buildServices opens the sqlite store, applies migrations and wires the core
// services per the config. Redis caching and a file-based question bank are
// optional; defaults keep everything local.
func buildServices(ctx context.Context, configPath, dbFlag string) (*services, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	path := dbFlag
	if path == "" {
		path = cfg.Database.Path
	}
	if path == "" {
		path = "quizdesk.db"
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	var redisClient *goredis.Client
	var cache app.LeaderboardCache
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = redisinfra.NewLeaderboardCache(redisClient, config.TTLDuration(cfg.Redis.TTL, 5*time.Minute))
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(memory.DefaultBank())
	if cfg.Questions.Path != "" {
		loader = memory.NewFileBankLoader(cfg.Questions.Path)
	}
	bank := memory.NewBankRepository(loader, config.TTLDuration(cfg.Questions.TTL, 10*time.Minute))

	scoreSvc := app.NewScoreService(sqlite.NewScoreRepository(db), cache)
	limit := cfg.Leaderboard.Limit
	if limit <= 0 {
		limit = app.DefaultLeaderboardLimit
	}

	return &services{
		accounts: app.NewAccountService(sqlite.NewUserRepository(db)),
		quizzes:  app.NewQuizService(bank, scoreSvc),
		scores:   scoreSvc,
		limit:    limit,
		close: func() {
			db.Close()
			if redisClient != nil {
				redisClient.Close()
			}
		},
	}, nil
}
