package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/config"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/profile"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/provision"
)

type Config struct {
	DatabaseConfig  config.DatabaseConfig
	IdentityConfig  config.IdentityConfig
	ProvisionConfig config.ProvisionConfig
}

func main() {
	// Parse command line arguments
	email := flag.String("email", "", "Email for the new account (required)")
	password := flag.String("password", "", "Password for the new account (required)")
	fullName := flag.String("name", "", "Display name for the new account")
	role := flag.String("role", "", "Role to assign (default: user)")
	flag.Parse()

	// Validate required arguments
	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		flag.Usage()
		os.Exit(1)
	}

	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true, // Enables line number & file path
	}))

	// Set the logger as the default
	slog.SetDefault(logger)

	// Load configuration from environment variables
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	// Connect to the profile store
	dbConfig := cfg.DatabaseConfig.ToDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(1)
	}

	service := provision.NewService(
		provision.WithIdentityProvider(identity.NewRESTProvider(cfg.IdentityConfig.ToRESTConfig())),
		provision.WithProfileRepository(profile.NewPostgresProfileRepository(pool)),
		provision.WithStrictRoleValidation(cfg.ProvisionConfig.StrictRoleValidation),
		provision.WithDefaultRole(cfg.ProvisionConfig.DefaultRole),
	)

	result, err := service.ProvisionAccount(context.Background(), provision.ProvisionParams{
		Email:    *email,
		Password: *password,
		FullName: *fullName,
		Role:     *role,
	})
	if err != nil {
		slog.Error("Failed provisioning account", "email", *email, "err", err)
		os.Exit(1)
	}

	if result.AlreadyProvisioned {
		fmt.Printf("Account already provisioned: %s (%s)\n", *email, result.IdentityID)
		return
	}
	fmt.Printf("Account provisioned: %s (%s) role=%s\n", *email, result.IdentityID, result.Profile.Role)
}
