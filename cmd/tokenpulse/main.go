package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tokenpulse/tokenpulse/internal/catalog"
	"github.com/tokenpulse/tokenpulse/internal/config"
	"github.com/tokenpulse/tokenpulse/internal/dashboard"
	"github.com/tokenpulse/tokenpulse/internal/http_api"
	"github.com/tokenpulse/tokenpulse/internal/identity"
	"github.com/tokenpulse/tokenpulse/internal/models"
	"github.com/tokenpulse/tokenpulse/internal/notificator"
	"github.com/tokenpulse/tokenpulse/internal/observability"
	"github.com/tokenpulse/tokenpulse/internal/repository"
	"github.com/tokenpulse/tokenpulse/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "tokenpulse",
		Usage: "TokenPulse is a live token dashboard with a simulated wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.BoolFlag{Name: "memory-store", Aliases: []string{"m"}, Usage: "Keep profiles in memory instead of Postgres"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "HTTP API port"},
			&cli.StringFlag{Name: "catalog", Aliases: []string{"c"}, Usage: "Token catalog YAML file"},
			&cli.DurationFlag{Name: "tick-interval", Usage: "Price tick interval"},
			&cli.Float64Flag{Name: "update-probability", Usage: "Chance that a token changes on a tick"},
			&cli.Uint64Flag{Name: "feed-seed", Usage: "Feed random seed, 0 for time based"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("memory-store") {
		cfg.UseMemoryStore = c.Bool("memory-store")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("catalog") {
		cfg.CatalogFile = c.String("catalog")
	}
	if c.IsSet("tick-interval") {
		cfg.FeedTickInterval = c.Duration("tick-interval")
	}
	if c.IsSet("update-probability") {
		cfg.FeedUpdateProbability = c.Float64("update-probability")
	}
	if c.IsSet("feed-seed") {
		cfg.FeedSeed = c.Uint64("feed-seed")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}
	if cfg.FeedSeed == 0 {
		cfg.FeedSeed = uint64(time.Now().UnixNano())
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load token catalog: %v", err)
	}
	log.Info("Token catalog loaded", "tokens", cat.Len(), "file", cfg.CatalogFile)

	// Initialize profile store
	var repo models.ProfileRepository
	if cfg.UseMemoryStore {
		log.Warn("Using in-memory profile store, profiles are lost on restart")
		repo = repository.NewMemoryDB()
	} else {
		repo, err = repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize notificator
	var channels []notificator.Channel
	if cfg.TelegramBotToken != "" {
		tg, err := notificator.NewTelegramNotificator(ctx, log.Named("telegram"), cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to start telegram bot: %v", err)
		}
		channels = append(channels, tg)
	}
	if cfg.SMTPHost != "" {
		channels = append(channels, notificator.NewEmailNotificator(log.Named("email"),
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender))
	}
	notifier := notificator.NewNotificator(log, channels...)

	metrics := observability.NewMetrics("")

	// Create Dashboard instance
	app, err := dashboard.NewDashboard(cat, repo, identity.NewMockProvider(), notifier, metrics, log, cfg)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %v", err)
	}

	apiServer := http_api.NewHTTPServer(app, metrics, cfg.APIPort, log.Named("http"))

	go apiServer.Start()
	// Start the application
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard: %v", err)
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	if err := apiServer.Shutdown(); err != nil {
		log.Error("Failed to shut down HTTP server", "error", err)
	}
	app.Stop()

	return nil
}
