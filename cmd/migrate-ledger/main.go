// migrate-ledger copies the reward ledger from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-ledger \
//	    -sqlite data/ledger.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user autobalance \
//	    -pg-password secret \
//	    -pg-database autobalance
package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/lawnchairsociety/autobalance/internal/database"
)

func main() {
	// Load .env if present; flag defaults read the environment
	_ = godotenv.Load()

	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/ledger.db", "Path to SQLite reward ledger")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "autobalance", "PostgreSQL user")
	pgPassword := flag.String("pg-password", os.Getenv("AB_PG_PASSWORD"), "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "autobalance", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Reward Ledger Migration Tool")
	log.Println("============================")

	log.Printf("Opening SQLite ledger: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite ledger: %v", err)
	}
	defer src.Close()

	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = *pgHost
	pgCfg.Port = *pgPort
	pgCfg.User = *pgUser
	pgCfg.Password = *pgPassword
	pgCfg.Database = *pgDatabase
	pgCfg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL ledger: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: string(database.DialectPostgres), Postgres: pgCfg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL ledger: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	n, err := database.CopyGrants(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d grants: %v", n, err)
	}

	if *dryRun {
		log.Printf("Would migrate %d grants", n)
		return
	}
	log.Printf("Migrated %d grants", n)
}
