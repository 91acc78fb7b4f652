package main

import (
	"context"
	"encoding/json"
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

type AdminPasswordConfig struct {
	SuperPassword     string `env:"ADMIN_SUPER_PASSWORD"`
	FitnessPassword   string `env:"ADMIN_FITNESS_PASSWORD"`
	NutritionPassword string `env:"ADMIN_NUTRITION_PASSWORD"`
}

type Config struct {
	DatabaseConfig  config.DatabaseConfig
	IdentityConfig  config.IdentityConfig
	ProvisionConfig config.ProvisionConfig
	AdminPasswords  AdminPasswordConfig
}

// defaultRoster is the platform's fixed admin roster. Passwords come from the
// environment so they never live in source or shell history.
func defaultRoster(passwords AdminPasswordConfig) []provision.RosterEntry {
	return []provision.RosterEntry{
		{
			Email:    "admin@merifitness.et",
			Password: passwords.SuperPassword,
			FullName: "Platform Administrator",
			Role:     provision.RoleAdminSuper,
		},
		{
			Email:    "fitness.admin@merifitness.et",
			Password: passwords.FitnessPassword,
			FullName: "Fitness Administrator",
			Role:     provision.RoleAdminFitness,
		},
		{
			Email:    "nutrition.admin@merifitness.et",
			Password: passwords.NutritionPassword,
			FullName: "Nutrition Administrator",
			Role:     provision.RoleAdminNutrition,
		},
	}
}

func loadRosterFile(path string) ([]provision.RosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	var entries []provision.RosterEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse roster file: %w", err)
	}
	return entries, nil
}

func main() {
	rosterFile := flag.String("roster", "", "Path to a JSON roster file (overrides the built-in admin roster)")
	flag.Parse()

	// Create a logger with source enabled
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true, // Enables line number & file path
	}))

	// Set the logger as the default
	slog.SetDefault(logger)

	// Load configuration from environment variables
	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	var entries []provision.RosterEntry
	if *rosterFile != "" {
		var err error
		entries, err = loadRosterFile(*rosterFile)
		if err != nil {
			slog.Error("Failed loading roster", "err", err, "path", *rosterFile)
			os.Exit(1)
		}
	} else {
		if cfg.AdminPasswords.SuperPassword == "" || cfg.AdminPasswords.FitnessPassword == "" || cfg.AdminPasswords.NutritionPassword == "" {
			fmt.Println("Error: ADMIN_SUPER_PASSWORD, ADMIN_FITNESS_PASSWORD and ADMIN_NUTRITION_PASSWORD are required")
			flag.Usage()
			os.Exit(1)
		}
		entries = defaultRoster(cfg.AdminPasswords)
	}

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
	)

	reports := service.ProvisionRoster(context.Background(), entries, cfg.ProvisionConfig.BatchDelay)

	failed := 0
	for _, report := range reports {
		if report.Err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", report.Email, report.Err)
			continue
		}
		status := "created"
		if report.AlreadyProvisioned {
			status = "already provisioned"
		}
		fmt.Printf("OK    %s: %s (%s)\n", report.Email, report.IdentityID, status)
	}

	fmt.Printf("Provisioned %d of %d admin accounts\n", len(reports)-failed, len(reports))
	if failed > 0 {
		os.Exit(1)
	}
}
