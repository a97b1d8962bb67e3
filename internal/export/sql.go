package export

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"catalog-crawl/internal/domain"
)

const (
	defaultSQLTable = "courses"
	pingTimeout     = 5 * time.Second
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// OpenSQL connects with one of the registered drivers ("sqlite" or "postgres")
// and verifies the connection.
func OpenSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// one writer at a time
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("export: ping %s: %w", driver, err)
	}
	return db, nil
}

type sqlRow struct {
	Identifier      string         `db:"identifier"`
	Prerequisite    sql.NullString `db:"prerequisite"`
	Corequisite     sql.NullString `db:"corequisite"`
	Description     sql.NullString `db:"description"`
	Credit          sql.NullString `db:"credit"`
	RequirementTags sql.NullString `db:"requirement_tags"`
}

func toSQLRow(r domain.CourseRecord) sqlRow {
	return sqlRow{
		Identifier:      r.Identifier.String(),
		Prerequisite:    nullString(domain.Deref(r.Prerequisite)),
		Corequisite:     nullString(domain.Deref(r.Corequisite)),
		Description:     nullString(domain.Deref(r.Description)),
		Credit:          nullString(creditString(r.Credit)),
		RequirementTags: nullString(joinTags(r.RequirementTags)),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SQLSink replaces the contents of one table with the crawl result.
// The whole replace runs in a single transaction: readers see the old set or the new one.
type SQLSink struct {
	DB    *sqlx.DB
	Table string
}

func (s SQLSink) table() (string, error) {
	t := s.Table
	if t == "" {
		t = defaultSQLTable
	}
	if !tableName.MatchString(t) {
		return "", fmt.Errorf("export: invalid table name %q", t)
	}
	return t, nil
}

func (s SQLSink) Write(ctx context.Context, records []domain.CourseRecord) (err error) {
	table, err := s.table()
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("export: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
	identifier       TEXT PRIMARY KEY,
	prerequisite     TEXT,
	corequisite      TEXT,
	description      TEXT,
	credit           TEXT,
	requirement_tags TEXT
)`); err != nil {
		return fmt.Errorf("export: create %s: %w", table, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("export: clear %s: %w", table, err)
	}

	insert := `INSERT INTO ` + table + ` (identifier, prerequisite, corequisite, description, credit, requirement_tags)
VALUES (:identifier, :prerequisite, :corequisite, :description, :credit, :requirement_tags)`
	for _, r := range records {
		if _, err = tx.NamedExecContext(ctx, insert, toSQLRow(r)); err != nil {
			return fmt.Errorf("export: insert %s: %w", r.Identifier, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("export: commit: %w", err)
	}
	return nil
}
