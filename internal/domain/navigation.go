package domain

import (
	"errors"
	"time"
)

// ErrViewNotFound is returned when a saved view does not exist
var ErrViewNotFound = errors.New("view not found")

// NavigationState exposes the previously serialized state carried by the
// address bar. An empty string means the value is absent.
type NavigationState interface {
	Filter() string
	Hint() string
	ReadablePeriod() string
	QueryEndDateTime() string
}

// Navigation is a plain NavigationState
type Navigation struct {
	Filters     string `json:"filter,omitempty" yaml:"filter,omitempty"`
	Hints       string `json:"hint,omitempty" yaml:"hint,omitempty"`
	Period      string `json:"period" yaml:"period"`
	EndDateTime string `json:"endDateTime" yaml:"endDateTime"`
}

// Filter returns the serialized filter list
func (n Navigation) Filter() string { return n.Filters }

// Hint returns the serialized short hint
func (n Navigation) Hint() string { return n.Hints }

// ReadablePeriod returns the display period, e.g. "5m"
func (n Navigation) ReadablePeriod() string { return n.Period }

// QueryEndDateTime returns the query end timestamp
func (n Navigation) QueryEndDateTime() string { return n.EndDateTime }

// View is a named, persisted navigation state centered on one application
type View struct {
	ID                  string    `json:"id" yaml:"id"`
	Name                string    `json:"name" yaml:"name"`
	MainApplication     string    `json:"mainApplication" yaml:"mainApplication"`
	MainServiceTypeName string    `json:"mainServiceTypeName" yaml:"mainServiceTypeName"`
	Navigation          `yaml:",inline"`
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// ViewSet is the import/export document for saved views
type ViewSet struct {
	Version int    `json:"version" yaml:"version"`
	Views   []View `json:"views" yaml:"views"`
}

// NewViewSet creates an empty view set at the current document version
func NewViewSet() *ViewSet {
	return &ViewSet{
		Version: 1,
		Views:   make([]View, 0),
	}
}
