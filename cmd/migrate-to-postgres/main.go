// migrate-to-postgres copies the beastmaster tables from SQLite to
// PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/beastmaster.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user beastmaster \
//	    -pg-password beastmaster \
//	    -pg-database beastmaster
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/beastmaster.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "beastmaster", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "beastmaster", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "beastmaster", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	sqliteDB, err := sql.Open("sqlite", *sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer sqliteDB.Close()

	if err := sqliteDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to SQLite database: %v", err)
	}

	pgConnStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		*pgHost, *pgPort, *pgUser, *pgPassword, *pgDatabase, *pgSSLMode,
	)

	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	pgDB, err := sql.Open("postgres", pgConnStr)
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer pgDB.Close()

	if err := pgDB.Ping(); err != nil {
		log.Fatalf("Failed to connect to PostgreSQL database: %v", err)
	}

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	log.Println("Ensuring PostgreSQL schema is ready...")
	if !*dryRun {
		if err := migratePostgres(pgDB); err != nil {
			log.Fatalf("Failed to migrate PostgreSQL schema: %v", err)
		}
	}

	tables := []struct {
		name    string
		migrate func(*sql.DB, *sql.DB, bool) (int64, error)
	}{
		{"beastmaster_tames", migrateTames},
		{"beastmaster_tamed_pets", migrateTamedPets},
	}

	var totalRows int64
	for _, t := range tables {
		log.Printf("Migrating table: %s", t.name)
		count, err := t.migrate(sqliteDB, pgDB, *dryRun)
		if err != nil {
			log.Fatalf("Failed to migrate %s: %v", t.name, err)
		}
		log.Printf("  Migrated %d rows", count)
		totalRows += count
	}

	log.Println("====================================")
	log.Printf("Migration complete! Total rows migrated: %d", totalRows)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

func migratePostgres(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS beastmaster_tames (
			entry BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			family BIGINT NOT NULL DEFAULT 0,
			rarity TEXT NOT NULL DEFAULT 'normal'
		)`,

		`CREATE TABLE IF NOT EXISTS beastmaster_tamed_pets (
			owner_id BIGINT NOT NULL,
			entry BIGINT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			date_tamed TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(owner_id, entry)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tamed_pets_owner ON beastmaster_tamed_pets(owner_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func migrateTames(src, dst *sql.DB, dryRun bool) (int64, error) {
	rows, err := src.Query("SELECT entry, name, family, rarity FROM beastmaster_tames")
	if err != nil {
		return 0, fmt.Errorf("querying source: %w", err)
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var entry, family int64
		var name, rarity string
		if err := rows.Scan(&entry, &name, &family, &rarity); err != nil {
			return count, fmt.Errorf("scanning row: %w", err)
		}
		if !dryRun {
			_, err := dst.Exec(
				`INSERT INTO beastmaster_tames (entry, name, family, rarity)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (entry) DO UPDATE SET name = $2, family = $3, rarity = $4`,
				entry, name, family, rarity)
			if err != nil {
				return count, fmt.Errorf("inserting entry %d: %w", entry, err)
			}
		}
		count++
	}
	return count, rows.Err()
}

func migrateTamedPets(src, dst *sql.DB, dryRun bool) (int64, error) {
	rows, err := src.Query("SELECT owner_id, entry, name, date_tamed FROM beastmaster_tamed_pets")
	if err != nil {
		return 0, fmt.Errorf("querying source: %w", err)
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var ownerID, entry int64
		var name string
		var dateTamed sql.NullTime
		if err := rows.Scan(&ownerID, &entry, &name, &dateTamed); err != nil {
			return count, fmt.Errorf("scanning row: %w", err)
		}
		if !dryRun {
			_, err := dst.Exec(
				`INSERT INTO beastmaster_tamed_pets (owner_id, entry, name, date_tamed)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (owner_id, entry) DO UPDATE SET name = $3`,
				ownerID, entry, name, dateTamed)
			if err != nil {
				return count, fmt.Errorf("inserting owner %d entry %d: %w", ownerID, entry, err)
			}
		}
		count++
	}
	return count, rows.Err()
}
