package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/sijms/go-ora/v2"
)

// NewMigrateOracleDB opens a plain database/sql handle for migrations.
func NewMigrateOracleDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping database: %v", err)
	}

	return db, nil
}

// Migration versions are tracked in SCHEMA_MIGRATIONS. golang-migrate has no
// Oracle database driver, so its source driver handles discovery and ordering
// while execution and bookkeeping happen here.

func openSource(migrationsDir string) (source.Driver, error) {
	drv, err := (&file.File{}).Open("file://" + migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("could not open migrations directory %s: %v", migrationsDir, err)
	}
	return drv, nil
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		BEGIN
			EXECUTE IMMEDIATE 'CREATE TABLE schema_migrations (version NUMBER PRIMARY KEY, applied_at TIMESTAMP DEFAULT SYSTIMESTAMP)';
		EXCEPTION
			WHEN OTHERS THEN
				IF SQLCODE != -955 THEN RAISE; END IF;
		END;`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations table: %v", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[uint]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %v", err)
	}
	defer rows.Close()

	applied := make(map[uint]bool)
	for rows.Next() {
		var v uint
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func readStatements(r io.ReadCloser) ([]string, error) {
	defer r.Close()
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// Oracle takes one statement per Exec. Statements are separated by a
	// semicolon at end of line; PL/SQL blocks end with a lone slash.
	var stmts []string
	var current strings.Builder
	inBlock := false
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		upper := strings.ToUpper(trimmed)
		if strings.HasPrefix(upper, "BEGIN") || strings.HasPrefix(upper, "DECLARE") {
			inBlock = true
		}
		if inBlock && trimmed == "/" {
			stmts = append(stmts, current.String())
			current.Reset()
			inBlock = false
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if !inBlock && strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			stmts = append(stmts, strings.TrimSuffix(stmt, ";"))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts, nil
}

func applyMigration(db *sql.DB, r io.ReadCloser, identifier string) error {
	stmts, err := readStatements(r)
	if err != nil {
		return fmt.Errorf("could not read migration %s: %v", identifier, err)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %v", identifier, err)
		}
	}
	return nil
}

// MigrateUp applies every pending up migration in version order.
func MigrateUp(db *sql.DB, migrationsDir string) error {
	drv, err := openSource(migrationsDir)
	if err != nil {
		return err
	}
	defer drv.Close()

	if err := ensureVersionTable(db); err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	version, err := drv.First()
	for err == nil {
		if !applied[version] {
			r, identifier, rErr := drv.ReadUp(version)
			if rErr != nil {
				return fmt.Errorf("could not read up migration %d: %v", version, rErr)
			}
			if aErr := applyMigration(db, r, identifier); aErr != nil {
				return aErr
			}
			if _, iErr := db.Exec("INSERT INTO schema_migrations (version) VALUES (:1)", version); iErr != nil {
				return fmt.Errorf("could not record migration %d: %v", version, iErr)
			}
			log.Printf("Executed migration: %s", identifier)
		}
		version, err = drv.Next(version)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not walk migrations: %v", err)
	}

	log.Println("Migrations applied successfully!")
	return nil
}

// MigrateDown rolls back the most recent migration, or all of them.
func MigrateDown(db *sql.DB, migrationsDir string, all bool) error {
	drv, err := openSource(migrationsDir)
	if err != nil {
		return err
	}
	defer drv.Close()

	if err := ensureVersionTable(db); err != nil {
		return err
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		log.Println("No migrations to roll back")
		return nil
	}

	var versions []uint
	v, err := drv.First()
	for err == nil {
		if applied[v] {
			versions = append(versions, v)
		}
		v, err = drv.Next(v)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not walk migrations: %v", err)
	}

	rolledBack := 0
	for i := len(versions) - 1; i >= 0; i-- {
		version := versions[i]
		r, identifier, rErr := drv.ReadDown(version)
		if rErr != nil {
			return fmt.Errorf("could not read down migration %d: %v", version, rErr)
		}
		if aErr := applyMigration(db, r, identifier); aErr != nil {
			return aErr
		}
		if _, dErr := db.Exec("DELETE FROM schema_migrations WHERE version = :1", version); dErr != nil {
			return fmt.Errorf("could not unrecord migration %d: %v", version, dErr)
		}
		log.Printf("Rolled back migration: %s", identifier)
		rolledBack++
		if !all {
			break
		}
	}

	if all {
		log.Println("Successfully rolled back all migrations")
	} else {
		log.Printf("Successfully rolled back %d migration(s)", rolledBack)
	}
	return nil
}
