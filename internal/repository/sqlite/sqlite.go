package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"servermap/internal/domain"
	"servermap/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.ViewRepository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.ViewRepository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS views (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		main_application TEXT NOT NULL,
		main_service_type TEXT NOT NULL,
		period TEXT NOT NULL,
		end_date_time TEXT NOT NULL,
		filter TEXT,
		hint TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_views_name ON views(name);
	CREATE INDEX IF NOT EXISTS idx_views_main_application ON views(main_application);
	`

	_, err := r.db.Exec(schema)
	return err
}

// GetView loads a single view
func (r *Repository) GetView(ctx context.Context, id string) (*domain.View, error) {
	var row viewRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+viewColumns+` FROM views WHERE id = ?`, id,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("view %s: %w", id, domain.ErrViewNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query view: %w", err)
	}
	return row.toDomain()
}

// ListViews returns all views, most recently updated first
func (r *Repository) ListViews(ctx context.Context) ([]domain.View, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+viewColumns+` FROM views ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	views := make([]domain.View, 0)
	for rows.Next() {
		var row viewRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		view, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating views: %w", err)
	}
	return views, nil
}

// CreateView inserts a new view
func (r *Repository) CreateView(ctx context.Context, view *domain.View) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO views (`+viewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		viewInsertArgs(view)...)
	if err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}
	return nil
}

// UpdateView replaces the stored state of an existing view
func (r *Repository) UpdateView(ctx context.Context, view *domain.View) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE views
		SET name = ?, main_application = ?, main_service_type = ?, period = ?,
			end_date_time = ?, filter = ?, hint = ?, updated_at = ?
		WHERE id = ?`,
		view.Name,
		view.MainApplication,
		view.MainServiceTypeName,
		view.Period,
		view.EndDateTime,
		stringToNull(view.Filters),
		stringToNull(view.Hints),
		formatTime(view.UpdatedAt),
		view.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update view: %w", err)
	}
	return requireAffected(result, view.ID)
}

// DeleteView removes a view
func (r *Repository) DeleteView(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	return requireAffected(result, id)
}

// ImportViews upserts views in a single transaction
func (r *Repository) ImportViews(ctx context.Context, views []domain.View) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO views (`+viewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	for i := range views {
		if _, err := stmt.ExecContext(ctx, viewInsertArgs(&views[i])...); err != nil {
			return fmt.Errorf("failed to import view %s: %w", views[i].ID, err)
		}
	}

	return tx.Commit()
}

func requireAffected(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("view %s: %w", id, domain.ErrViewNotFound)
	}
	return nil
}
