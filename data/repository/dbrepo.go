package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"event-calendar-api/data/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

// EventRepo is the persistence contract for events. Mutations that must be
// atomic as a group run inside WithinTx; the repo handed to the callback is
// bound to the transaction.
type EventRepo interface {
	Connection() *sqlx.DB
	RunMigrations(dbName string) error
	Insert(ctx context.Context, e models.Event) (models.Event, error)
	GetByID(ctx context.Context, id int64) (models.Event, bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	GetAll(ctx context.Context) ([]models.Event, error)
	DeleteByID(ctx context.Context, id int64) error
	GetFiltered(ctx context.Context, f EventFilter) ([]models.Event, error)
	Save(ctx context.Context, e models.Event) error
	WithinTx(ctx context.Context, fn func(EventRepo) error) error
}

type SqlRepo struct {
	DB *sqlx.DB
	tx *sqlx.Tx
}

func NewSqlRepo(db *sqlx.DB) *SqlRepo {
	return &SqlRepo{DB: db}
}

func (sr *SqlRepo) Connection() *sqlx.DB {
	return sr.DB
}

// ext returns the executor statements run against: the transaction when
// inside WithinTx, the pool otherwise.
func (sr *SqlRepo) ext() sqlx.ExtContext {
	if sr.tx != nil {
		return sr.tx
	}
	return sr.DB
}

func (sr *SqlRepo) RunMigrations(dbName string) error {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return fmt.Errorf("failed to get current file path")
	}

	dir := filepath.Dir(filename)
	migrationsDir := filepath.Join(dir, "../migrations")
	// Convert backslashes to forward slashes for Windows compatibility
	migrationsDir = strings.ReplaceAll(migrationsDir, "\\", "/")

	log.Infof("Resolved migrations directory: %s", migrationsDir)

	driver, err := migratepgx.WithInstance(sr.DB.DB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, dbName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Info("Migrations complete")
	return nil
}

const eventColumns = "id, title, description, start_date_time, end_date_time, is_completed"

const insertEventStmt = `INSERT INTO event (title, description, start_date_time, end_date_time, is_completed)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`

const saveEventStmt = `INSERT INTO event (id, title, description, start_date_time, end_date_time, is_completed)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		start_date_time = EXCLUDED.start_date_time,
		end_date_time = EXCLUDED.end_date_time,
		is_completed = EXCLUDED.is_completed`

// Insert persists a new event and returns it with the id the database
// assigned. Any id on the argument is ignored.
func (sr *SqlRepo) Insert(ctx context.Context, e models.Event) (models.Event, error) {
	var id int64
	err := sqlx.GetContext(ctx, sr.ext(), &id, insertEventStmt,
		e.Title, e.Description, e.StartDateTime, e.EndDateTime, e.IsCompleted)
	if err != nil {
		return models.Event{}, fmt.Errorf("error inserting event: %w", err)
	}

	e.ID = id
	return e, nil
}

// GetByID returns the event and true when present; a merely-absent id is
// (zero, false, nil), not an error.
func (sr *SqlRepo) GetByID(ctx context.Context, id int64) (models.Event, bool, error) {
	var e models.Event
	err := sqlx.GetContext(ctx, sr.ext(), &e,
		"SELECT "+eventColumns+" FROM event WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, false, nil
	}
	if err != nil {
		return models.Event{}, false, fmt.Errorf("error querying event %d: %w", id, err)
	}
	return e, true, nil
}

func (sr *SqlRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, sr.ext(), &exists,
		"SELECT EXISTS (SELECT 1 FROM event WHERE id = $1)", id)
	if err != nil {
		return false, fmt.Errorf("error checking event %d: %w", id, err)
	}
	return exists, nil
}

func (sr *SqlRepo) GetAll(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := sqlx.SelectContext(ctx, sr.ext(), &events,
		"SELECT "+eventColumns+" FROM event")
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	return events, nil
}

// DeleteByID removes the row if present and is silent when it is not;
// callers wanting a not-found failure check existence first.
func (sr *SqlRepo) DeleteByID(ctx context.Context, id int64) error {
	if _, err := sr.ext().ExecContext(ctx, "DELETE FROM event WHERE id = $1", id); err != nil {
		return fmt.Errorf("error deleting event %d: %w", id, err)
	}
	return nil
}

// GetFiltered returns the events matching every condition the filter
// carries. The filter is translated into a single prepared SELECT; an
// empty filter selects everything.
func (sr *SqlRepo) GetFiltered(ctx context.Context, f EventFilter) ([]models.Event, error) {
	ds := goqu.Dialect("postgres").
		From(models.Event{}.TableName()).
		Select("id", "title", "description", "start_date_time", "end_date_time", "is_completed").
		Prepared(true)

	if exprs := f.expressions(); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("error building filter query: %w", err)
	}

	events := []models.Event{}
	if err := sqlx.SelectContext(ctx, sr.ext(), &events, query, args...); err != nil {
		return nil, fmt.Errorf("error querying filtered events: %w", err)
	}
	return events, nil
}

// Save upserts the event at its id, preserving the id.
func (sr *SqlRepo) Save(ctx context.Context, e models.Event) error {
	_, err := sr.ext().ExecContext(ctx, saveEventStmt,
		e.ID, e.Title, e.Description, e.StartDateTime, e.EndDateTime, e.IsCompleted)
	if err != nil {
		return fmt.Errorf("error saving event %d: %w", e.ID, err)
	}
	return nil
}

// WithinTx runs fn against a repo bound to a single transaction, committing
// when fn returns nil and rolling back otherwise. Calls nested inside an
// open transaction reuse it.
func (sr *SqlRepo) WithinTx(ctx context.Context, fn func(EventRepo) error) error {
	if sr.tx != nil {
		return fn(sr)
	}

	tx, err := sr.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&SqlRepo{DB: sr.DB, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("failed to roll back transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
