package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loamhq/userdir/internal/auth"
	"github.com/loamhq/userdir/internal/config"
	"github.com/loamhq/userdir/internal/models"
	"github.com/loamhq/userdir/internal/server"
	"github.com/loamhq/userdir/internal/server/handlers"
	"github.com/loamhq/userdir/internal/store"
)

var configFile string

// ServerCmd represents the server command
var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the user directory HTTP server",
	Long:  `Start the HTTP server that authenticates requests with HTTP Basic Auth and provides a REST API for user management.`,
	RunE:  runServer,
}

func init() {
	ServerCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (optional, can also use USERDIR_CONFIG_FILE env var)")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Check for config file from environment variable if not provided via flag
	if configFile == "" {
		configFile = os.Getenv("USERDIR_CONFIG_FILE")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := server.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("Server starting",
		"port", cfg.Server.Port,
		"config_file", configFile,
		"storage_uri", cfg.Storage.URI,
		"storage_token", cfg.MaskToken(),
		"storage_latency", cfg.Storage.Latency.String(),
		"auth_type", cfg.Auth.Type)

	// Resolve starter accounts
	seed := models.DefaultSeed()
	if cfg.Seed.File != "" {
		seed, err = store.LoadSeedFile(cfg.Seed.File)
		if err != nil {
			logger.Error("Failed to load seed file",
				"error", err,
				"seed_file", cfg.Seed.File)
			return fmt.Errorf("failed to load seed file: %w", err)
		}
		logger.Info("Seed file loaded", "seed_file", cfg.Seed.File, "user_count", len(seed))
	}

	// Initialize storage
	uri, err := cfg.GetParsedStorageURI()
	if err != nil {
		return fmt.Errorf("invalid storage URI: %w", err)
	}

	st, err := store.NewStore(uri, cfg.Storage.Token, seed, cfg.Storage.Latency, logger)
	if err != nil {
		logger.Error("Failed to initialize storage",
			"error", err,
			"storage_uri", cfg.Storage.URI)
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	metricsHandler := handlers.NewMetricsHandler(logger)

	// Initialize authenticator
	var authenticator auth.Authenticator
	switch cfg.Auth.Type {
	case "none":
		authenticator = auth.NewNoAuth()
		logger.Info("Authentication disabled (auth.type=none)")
	case "basic":
		authenticator = auth.NewBasicAuth(st, cfg.Auth.Realm, metricsHandler, logger)
	default:
		return fmt.Errorf("unsupported auth type: %s", cfg.Auth.Type)
	}

	srv := server.NewServer(cfg, logger, st, authenticator)
	srv.SetMetrics(metricsHandler)

	// Create remaining handlers
	healthHandler := handlers.NewHealthHandler(st, logger)
	whoamiHandler := handlers.NewWhoamiHandler(authenticator, cfg.Auth.Realm, logger)
	userHandler := handlers.NewUserHandler(st, metricsHandler, logger)

	srv.SetHandlers(server.HandlerSet{
		Health:     healthHandler.GetHealth,
		Metrics:    metricsHandler.GetMetrics,
		Whoami:     whoamiHandler.GetWhoami,
		ListUsers:  userHandler.ListUsers,
		CreateUser: userHandler.CreateUser,
		GetUser:    userHandler.GetUser,
		UpdateUser: userHandler.UpdateUser,
		DeleteUser: userHandler.DeleteUser,
	})

	return srv.Start()
}
