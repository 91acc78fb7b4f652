package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/config"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/feedback"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/notification"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/profile"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/provision"
)

type Config struct {
	AppConfig       app.AppConfig
	DatabaseConfig  config.DatabaseConfig
	EmailConfig     config.EmailConfig
	ResendConfig    config.ResendConfig
	IdentityConfig  config.IdentityConfig
	ProvisionConfig config.ProvisionConfig
	JWTConfig       config.JWTConfig
}

// loadEnvFile loads a .env file if one exists, before environment variables
// are read.
func loadEnvFile() {
	envFile := config.GetEnvOrDefault("ENV_FILE", ".env")

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}

	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "err", err, "path", envFile)
		return
	}
	slog.Info("Configuration loaded from .env file", "path", envFile)
}

func main() {

	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true, // Enables line number & file path
	}))

	// Set the logger as the default
	slog.SetDefault(logger)

	loadEnvFile()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)

	server.R.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// Profile and feedback stores
	var pool *pgxpool.Pool
	if cfg.ProvisionConfig.Persistence == "postgres" || cfg.ProvisionConfig.Persistence == "postgresql" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseConfig.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.DatabaseConfig.Database, "host", cfg.DatabaseConfig.Host, "port", cfg.DatabaseConfig.Port, "user", cfg.DatabaseConfig.User, "schema", cfg.DatabaseConfig.Schema)
			os.Exit(-1)
		}
	}

	profileRepo, err := profile.NewProfileRepository(cfg.ProvisionConfig.Persistence, profile.RepositoryConfig{Pool: pool})
	if err != nil {
		slog.Error("Failed creating profile repository", "err", err)
		os.Exit(-1)
	}

	feedbackRepo, err := feedback.NewFeedbackRepository(cfg.ProvisionConfig.Persistence, feedback.RepositoryConfig{Pool: pool})
	if err != nil {
		slog.Error("Failed creating feedback repository", "err", err)
		os.Exit(-1)
	}

	// Identity provider
	var provider identity.Provider
	switch cfg.IdentityConfig.Provider {
	case "memory", "inmem":
		provider = identity.NewInMemoryProvider()
		slog.Warn("Using in-memory identity provider, identities will not survive a restart")
	default:
		provider = identity.NewRESTProvider(cfg.IdentityConfig.ToRESTConfig())
	}

	// Notification manager with email notifiers and default templates
	templateSystems := []notification.NotificationSystem{notification.EmailSystem}
	notificationOptions := []notification.NotificationManagerOption{
		notification.WithSMTP(cfg.EmailConfig.ToSMTPConfig()),
	}
	if cfg.ResendConfig.IsConfigured() {
		notificationOptions = append(notificationOptions,
			notification.WithResend(cfg.ResendConfig.ToNotificationResendConfig()))
		templateSystems = append(templateSystems, notification.ResendSystem)
	}
	notificationOptions = append(notificationOptions,
		notification.WithDefaultTemplates(templateSystems...))

	notificationManager, err := notification.NewNotificationManagerWithOptions(notificationOptions...)
	if err != nil {
		slog.Error("Failed initialize notification manager", "err", err)
	}

	provisionService := provision.NewService(
		provision.WithIdentityProvider(provider),
		provision.WithProfileRepository(profileRepo),
		provision.WithStrictRoleValidation(cfg.ProvisionConfig.StrictRoleValidation),
		provision.WithDefaultRole(cfg.ProvisionConfig.DefaultRole),
		provision.WithNotificationManager(notificationManager),
	)
	provisionHandle := provision.NewHandler(provisionService)

	feedbackService := feedback.NewFeedbackService(feedbackRepo,
		feedback.WithNotificationManager(notificationManager))
	feedbackHandle := feedback.NewHandler(feedbackService)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTConfig.Secret), nil)

	server.R.Route("/api", func(r chi.Router) {
		feedbackHandle.RegisterPublicRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator(tokenAuth))
			provisionHandle.RegisterRoutes(r)
			feedbackHandle.RegisterAdminRoutes(r)
		})
	})

	server.Run()
}
