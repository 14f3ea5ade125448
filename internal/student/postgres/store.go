package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sumo-go/internal/student"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store reads students from a Postgres mirror of the spreadsheet
type Store struct {
	db *sqlx.DB
}

type studentRow struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Points     int            `db:"points"`
	Level      sql.NullString `db:"level"`
	ClassName  sql.NullString `db:"class_name"`
	Rank       sql.NullInt64  `db:"rank"`
	Violations pq.StringArray `db:"violations"`
}

func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded schema migrations
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Find(ctx context.Context, id string) (*student.Student, error) {
	query := `
		SELECT id, name, points, level, class_name, rank, violations
		FROM students
		WHERE id = $1`

	var row studentRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	return row.toStudent(), nil
}

func (r studentRow) toStudent() *student.Student {
	st := &student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Points:    r.Points,
		Level:     r.Level.String,
		ClassName: r.ClassName.String,
	}
	if r.Rank.Valid {
		rank := int(r.Rank.Int64)
		st.Rank = &rank
	}
	if len(r.Violations) > 0 {
		st.Violations = append([]string(nil), r.Violations...)
	}
	return st
}
