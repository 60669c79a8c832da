package db

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

var ErrMigrationChanged = errors.New("applied migration changed")

type sqlMigration struct {
	Version  string
	Order    int
	Name     string
	SQL      string
	Checksum string
}

// schemaMigration is one row of the schema_migrations bookkeeping table.
type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name"`
	Checksum  string    `gorm:"column:checksum"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// migrate applies every migration in files that schema_migrations does not
// record yet, one transaction per file, and returns the applied file names.
// A recorded migration whose checksum no longer matches fails with
// ErrMigrationChanged.
func migrate(ctx context.Context, database *gorm.DB, files fs.FS) ([]string, error) {
	database = database.WithContext(ctx)
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  checksum TEXT NOT NULL DEFAULT '',
  applied_at DATETIME NOT NULL
)`).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	migrations, err := loadEmbeddedMigrations(files)
	if err != nil {
		return nil, err
	}

	var recorded []schemaMigration
	if err := database.Find(&recorded).Error; err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	checksums := make(map[string]string, len(recorded))
	for _, row := range recorded {
		checksums[row.Version] = row.Checksum
	}

	var applied []string
	for _, migration := range migrations {
		if checksum, done := checksums[migration.Version]; done {
			if checksum != "" && checksum != migration.Checksum {
				return applied, fmt.Errorf("%w: %s", ErrMigrationChanged, migration.Name)
			}
			continue
		}
		if err := database.Transaction(func(tx *gorm.DB) error {
			return applyMigration(tx, migration)
		}); err != nil {
			return applied, err
		}
		applied = append(applied, migration.Name)
	}
	return applied, nil
}

func loadEmbeddedMigrations(files fs.FS) ([]sqlMigration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]sqlMigration, 0, len(entries))
	owners := make(map[string]string, len(entries))
	for _, entry := range entries {
		matches := migrationNamePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || matches == nil {
			continue
		}

		version := matches[1]
		if owner, taken := owners[version]; taken {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, owner, entry.Name())
		}
		owners[version] = entry.Name()

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version of %s: %w", entry.Name(), err)
		}
		content, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		sum := sha256.Sum256(content)
		migrations = append(migrations, sqlMigration{
			Version:  version,
			Order:    order,
			Name:     entry.Name(),
			SQL:      string(content),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migrations, func(a, b sqlMigration) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), strings.Compare(a.Name, b.Name))
	})
	return migrations, nil
}

func applyMigration(tx *gorm.DB, migration sqlMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s has no statements", migration.Name)
	}

	for _, statement := range statements {
		present, err := addsExistingColumn(tx, statement)
		if err != nil {
			return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
		}
		if present {
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration %s: %w", migration.Name, err)
		}
	}

	return tx.Create(&schemaMigration{
		Version:   migration.Version,
		Name:      migration.Name,
		Checksum:  migration.Checksum,
		AppliedAt: time.Now().UTC(),
	}).Error
}

func splitSQLStatements(sqlText string) []string {
	var statements []string
	for part := range strings.SplitSeq(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// addsExistingColumn reports whether statement is an ADD COLUMN for a column
// the table already has. SQLite has no ADD COLUMN IF NOT EXISTS.
func addsExistingColumn(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}
	return tableColumnExists(database, unquoteIdentifier(matches[1]), unquoteIdentifier(matches[2]))
}

type pragmaColumn struct {
	Name string `gorm:"column:name"`
}

func tableColumnExists(database *gorm.DB, tableName string, columnName string) (bool, error) {
	var columns []pragmaColumn
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(tableName, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("table_info %s: %w", tableName, err)
	}
	return slices.ContainsFunc(columns, func(column pragmaColumn) bool {
		return strings.EqualFold(column.Name, columnName)
	}), nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
