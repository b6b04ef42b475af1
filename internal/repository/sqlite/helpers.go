package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"servermap/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// ============================================================================
// Time Helpers
// ============================================================================

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// ============================================================================
// View Row Scanner
// ============================================================================
//
// CRITICAL: Column order must match between:
// - viewColumns constant
// - scanArgs() return slice
// - viewInsertArgs()

const viewColumns = `id, name, main_application, main_service_type, period, end_date_time, filter, hint, created_at, updated_at`

// viewRow holds all columns from a view query for scanning
type viewRow struct {
	ID              string
	Name            string
	MainApplication string
	MainServiceType string
	Period          string
	EndDateTime     string
	Filter          sql.NullString
	Hint            sql.NullString
	CreatedAt       string
	UpdatedAt       string
}

// scanArgs returns pointers to all fields for sql.Scan()
func (r *viewRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Name,
		&r.MainApplication,
		&r.MainServiceType,
		&r.Period,
		&r.EndDateTime,
		&r.Filter,
		&r.Hint,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// toDomain converts a row to a domain.View
func (r *viewRow) toDomain() (*domain.View, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("view %s: created_at: %w", r.ID, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("view %s: updated_at: %w", r.ID, err)
	}

	return &domain.View{
		ID:                  r.ID,
		Name:                r.Name,
		MainApplication:     r.MainApplication,
		MainServiceTypeName: r.MainServiceType,
		Navigation: domain.Navigation{
			Filters:     nullToString(r.Filter),
			Hints:       nullToString(r.Hint),
			Period:      r.Period,
			EndDateTime: r.EndDateTime,
		},
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// viewInsertArgs returns the values for an INSERT in viewColumns order
func viewInsertArgs(view *domain.View) []interface{} {
	return []interface{}{
		view.ID,
		view.Name,
		view.MainApplication,
		view.MainServiceTypeName,
		view.Period,
		view.EndDateTime,
		stringToNull(view.Filters),
		stringToNull(view.Hints),
		formatTime(view.CreatedAt),
		formatTime(view.UpdatedAt),
	}
}
