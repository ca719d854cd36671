package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lawnchairsociety/autobalance/internal/autobalance"
	"github.com/lawnchairsociety/autobalance/internal/command"
	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/console"
	"github.com/lawnchairsociety/autobalance/internal/database"
	"github.com/lawnchairsociety/autobalance/internal/help"
	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/npc"
	"github.com/lawnchairsociety/autobalance/internal/text"
	"github.com/lawnchairsociety/autobalance/internal/world"
)

func main() {
	// Load .env if present; flag defaults read the environment
	_ = godotenv.Load()

	// Parse command-line flags
	configFile := flag.String("config", "data/autobalance.yaml", "Path to AutoBalance config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	templatesFile := flag.String("templates", "data/templates.yaml", "Path to creature templates YAML file")
	statsFile := flag.String("stats", "data/base_stats.yaml", "Path to class base stats YAML file")
	scenarioFile := flag.String("scenario", "data/scenario.yaml", "Path to scenario YAML file (empty for an empty world)")
	textFile := flag.String("text", "data/messages.yaml", "Path to player message YAML file")
	helpFile := flag.String("help-file", "data/help.yaml", "Path to console help YAML file")
	ledgerDriver := flag.String("ledger-driver", "sqlite", "Reward ledger database: sqlite or postgres")
	dbFile := flag.String("db", "data/ledger.db", "Path to SQLite reward ledger")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "autobalance", "PostgreSQL user")
	pgPassword := flag.String("pg-password", os.Getenv("AB_PG_PASSWORD"), "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "autobalance", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	consoleAddr := flag.String("console", ":8089", "Admin console listen address (empty to disable)")
	consoleHash := flag.String("console-hash", os.Getenv("AB_CONSOLE_HASH"), "bcrypt hash of the admin console password")
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of a console password and exit")
	tick := flag.Duration("tick", time.Second, "Creature update interval")
	flag.Parse()

	// Handle --hash-password flag (prints and exits)
	if *hashPassword != "" {
		hash, err := console.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting AutoBalance host")

	store, err := config.NewStore(*configFile)
	if err != nil {
		logger.Warning("Failed to load AutoBalance config, using defaults", "path", *configFile, "error", err)
	}

	if err := text.Initialize(*textFile); err != nil {
		logger.Warning("Failed to load text config, using fallback text", "path", *textFile, "error", err)
	} else {
		logger.Info("Text system loaded", "path", *textFile)
	}

	stats, err := npc.LoadStatsFromYAML(*statsFile)
	if err != nil {
		log.Fatalf("Failed to load base stats: %v", err)
	}
	logger.Info("Base stats loaded", "rows", stats.Len())

	templates, err := npc.LoadTemplatesFromYAML(*templatesFile)
	if err != nil {
		log.Fatalf("Failed to load creature templates: %v", err)
	}
	logger.Info("Creature templates loaded", "count", len(templates))

	// Open the reward ledger
	dbCfg := database.DefaultConfig(*dbFile)
	dbCfg.Driver = *ledgerDriver
	dbCfg.Postgres = database.DefaultPostgresConfig()
	dbCfg.Postgres.Host = *pgHost
	dbCfg.Postgres.Port = *pgPort
	dbCfg.Postgres.User = *pgUser
	dbCfg.Postgres.Password = *pgPassword
	dbCfg.Postgres.Database = *pgDatabase
	dbCfg.Postgres.SSLMode = *pgSSLMode
	db, err := database.OpenWithConfig(dbCfg)
	if err != nil {
		log.Fatalf("Failed to open reward ledger: %v", err)
	}
	defer db.Close()
	logger.Info("Reward ledger initialized", "driver", dbCfg.Dialect())

	// Wire the module into the world
	gameWorld := world.New(stats)
	module := autobalance.New(store, stats, gameWorld, text.GetInstance(), db)
	gameWorld.SetHooks(module)

	if *scenarioFile != "" {
		if err := gameWorld.LoadScenario(*scenarioFile, templates); err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
	}

	ticker := world.NewTicker(gameWorld, *tick)
	ticker.Start()

	var consoleSrv *console.Server
	if *consoleAddr != "" {
		cfg := console.DefaultConfig()
		cfg.Address = *consoleAddr
		cfg.PasswordHash = *consoleHash
		if cfg.PasswordHash == "" {
			logger.Warning("Admin console has no password hash set, logins will be refused")
		}
		handler := command.NewHandler(module, gameWorld)
		if topics, err := help.Load(*helpFile); err != nil {
			logger.Warning("Failed to load console help, using built-in lists", "path", *helpFile, "error", err)
		} else {
			handler.SetHelp(topics)
		}
		consoleSrv = console.NewServer(cfg, handler)
		go func() {
			if err := consoleSrv.Start(); err != nil {
				log.Fatalf("Admin console error: %v", err)
			}
		}()
	}

	logger.Info("AutoBalance host running", "tick", tick.String(), "console", *consoleAddr)
	logger.Info("Send SIGHUP to reload the config, Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			if err := module.Reload(); err == nil {
				logger.Info("Config reloaded", "path", *configFile)
			}
			continue
		}
		break
	}

	logger.Info("Shutting down AutoBalance host")
	ticker.Stop()
	if consoleSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := consoleSrv.Shutdown(ctx); err != nil {
			logger.Error("Admin console shutdown failed", "error", err)
		}
		cancel()
	}
	logger.Info("AutoBalance host stopped")
}
