// Command bot runs the Telegram intake-form bot together with its ops
// HTTP surface (health, metrics, request lookup).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/bot"
	"github.com/timaholls/tg-info-S3Disk/internal/config"
	"github.com/timaholls/tg-info-S3Disk/internal/conversation"
	"github.com/timaholls/tg-info-S3Disk/internal/domain"
	httpapi "github.com/timaholls/tg-info-S3Disk/internal/http"
	"github.com/timaholls/tg-info-S3Disk/internal/observability"
	"github.com/timaholls/tg-info-S3Disk/internal/repo"
	"github.com/timaholls/tg-info-S3Disk/internal/services"
	"github.com/timaholls/tg-info-S3Disk/internal/sysutil"
)

// version is stamped at build time with -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments pass the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	db := openDB(cfg)
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Warn().Err(err).Msg("gorm tracing setup failed")
		}
	}

	machine := buildMachine(db, cfg)

	client, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}
	log.Info().Str("username", client.Self.UserName).Str("version", version).Msg("bot authorized")

	b := bot.New(client, machine, cfg.RateRPS, cfg.RateBurst, log.Logger)
	b.PollTimeout = cfg.PollTimeout

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.OpsPort,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("ops server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server failed")
			stop()
		}
	}()

	if err := b.Run(ctx); err != nil {
		log.Error().Err(err).Msg("bot stopped with error")
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("ops server shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}

func openDB(cfg config.Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "mysql":
		db, err = repo.OpenMySQL(cfg.DBDSN)
	default:
		db, err = repo.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	return db
}

// Shims adapt the repo free functions to the service repo interfaces.
type catalogRepoShim struct{}

func (catalogRepoShim) ListDepartments(ctx context.Context, db *gorm.DB) ([]domain.CatalogEntry, error) {
	return repo.ListDepartments(ctx, db)
}

type requestRepoShim struct{}

func (requestRepoShim) CreateRequest(ctx context.Context, db *gorm.DB, in domain.CreateRequestInput) (domain.CreateResult, error) {
	return repo.CreateRequest(ctx, db, in)
}

func (requestRepoShim) LatestRequest(ctx context.Context, db *gorm.DB, telegramID string) (*domain.Request, error) {
	return repo.LatestRequest(ctx, db, telegramID)
}

type directoryRepoShim struct{}

func (directoryRepoShim) FindDirectoryUser(ctx context.Context, db *gorm.DB, telegramID string) (*domain.DirectoryUser, error) {
	return repo.FindDirectoryUser(ctx, db, telegramID)
}

// buildMachine wires the conversation machine to its services.
func buildMachine(db *gorm.DB, cfg config.Config) *conversation.Machine {
	catalogSvc := services.NewCatalogService(db, catalogRepoShim{})
	requestSvc := services.NewRequestService(db, requestRepoShim{})
	directorySvc := services.NewDirectoryService(db, directoryRepoShim{})

	m := conversation.NewMachine(
		conversation.NewMemoryStore(),
		catalogSvc,
		requestSvc,
		directorySvc,
		conversation.Capabilities{
			Region:           cfg.RegionEnabled,
			AdditionalBranch: cfg.AdditionalEnabled,
		},
		cfg.Regions,
	)
	m.Log = log.Logger
	return m
}
