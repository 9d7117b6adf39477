package migrations

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const migrationsTable = "schema_migrations_migrate"

// markerTables maps each migration version to a table it creates.
var markerTables = []struct {
	version int64
	table   string
}{
	{1, "matches"},
	{2, "runtime_config"},
}

// RunMigrations runs the file-based migrations in dir using the postgres driver.
// A DB that already has the schema but no migrate metadata table is first
// baselined to the highest version whose tables exist.
func RunMigrations(databaseURL, dir string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if dir == "" {
		dir = "migrations"
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Schema created before migrate tracked it: baseline to what is present
	if !tableExists(sqlDB, migrationsTable) {
		exists := func(table string) bool { return tableExists(sqlDB, table) }
		if v := baselineVersion(exists, findLatestMigrationVersion(dir)); v > 0 {
			log.Printf("[MIGRATE] Baseline DB to version %d (existing schema present)", v)
			if ferr := m.Force(int(v)); ferr != nil {
				log.Printf("[MIGRATE] Force to version %d failed: %v", v, ferr)
			}
		}
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration up failed: %w", err)
	}

	log.Printf("[MIGRATE] Migrations applied (no changes or up completed)")
	return nil
}

// baselineVersion returns the highest consecutive version whose marker table
// exists, capped at latest. 0 means a fresh database.
func baselineVersion(exists func(table string) bool, latest int64) int64 {
	var v int64
	for _, mt := range markerTables {
		if mt.version > latest || !exists(mt.table) {
			break
		}
		v = mt.version
	}
	return v
}

func tableExists(db *sql.DB, table string) bool {
	var ok bool
	row := db.QueryRow("SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", table)
	if err := row.Scan(&ok); err != nil {
		log.Printf("[MIGRATE] table check %s failed: %v", table, err)
		return false
	}
	return ok
}

// findLatestMigrationVersion scans the migrations directory for files that start with
// a numeric version prefix (e.g. 000001_) and returns the highest version number.
func findLatestMigrationVersion(dir string) int64 {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	re := regexp.MustCompile(`^0*([0-9]+)_`)
	var max int64
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		m := re.FindStringSubmatch(name)
		if len(m) < 2 {
			continue
		}
		v, _ := strconv.ParseInt(m[1], 10, 64)
		if v > max {
			max = v
		}
	}

	return max
}
