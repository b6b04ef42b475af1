package repository

import (
	"context"

	"servermap/internal/domain"
)

// ViewRepository defines the interface for saved view persistence
type ViewRepository interface {
	// Read operations
	GetView(ctx context.Context, id string) (*domain.View, error)
	ListViews(ctx context.Context) ([]domain.View, error)

	// Write operations
	CreateView(ctx context.Context, view *domain.View) error
	UpdateView(ctx context.Context, view *domain.View) error
	DeleteView(ctx context.Context, id string) error

	// Bulk operations
	ImportViews(ctx context.Context, views []domain.View) error

	// Close releases resources
	Close() error
}
