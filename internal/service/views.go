package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servermap/internal/domain"
	"servermap/internal/filtermap"
	"servermap/internal/repository"
)

// ErrInvalid is returned when a view or filter fails validation
var ErrInvalid = errors.New("invalid request")

// ViewService handles saved view business logic
type ViewService struct {
	repo     repository.ViewRepository
	merger   *filtermap.Merger
	eventBus *EventBus
	logger   *zap.Logger
	now      func() time.Time
}

// NewViewService creates a new view service
func NewViewService(repo repository.ViewRepository, merger *filtermap.Merger, eventBus *EventBus, logger *zap.Logger) *ViewService {
	if merger == nil {
		merger = filtermap.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		repo:     repo,
		merger:   merger,
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Merger returns the merger used to compose addresses
func (s *ViewService) Merger() *filtermap.Merger {
	return s.merger
}

// GetView retrieves a view by ID
func (s *ViewService) GetView(ctx context.Context, id string) (*domain.View, error) {
	return s.repo.GetView(ctx, id)
}

// ListViews retrieves all views
func (s *ViewService) ListViews(ctx context.Context) ([]domain.View, error) {
	return s.repo.ListViews(ctx)
}

// CreateView validates and stores a new view. ID and timestamps are assigned
// here; any values set by the caller are replaced.
func (s *ViewService) CreateView(ctx context.Context, view *domain.View) error {
	if err := validateView(view); err != nil {
		return err
	}

	now := s.now()
	view.ID = uuid.NewString()
	view.CreatedAt = now
	view.UpdatedAt = now

	if err := s.repo.CreateView(ctx, view); err != nil {
		return err
	}

	s.logger.Info("view created", zap.String("id", view.ID), zap.String("name", view.Name))
	s.publish(EventViewCreated, view)
	return nil
}

// DeleteView removes a view
func (s *ViewService) DeleteView(ctx context.Context, id string) error {
	if err := s.repo.DeleteView(ctx, id); err != nil {
		return err
	}

	s.logger.Info("view deleted", zap.String("id", id))
	s.publish(EventViewDeleted, map[string]string{"id": id})
	return nil
}

// BuildURL composes the filtered map address for nav with filter and hint
// applied. nav may be nil.
func (s *ViewService) BuildURL(nav domain.NavigationState, filter domain.Filter, hint domain.HintUpdate) (string, error) {
	if err := validateFilter(filter); err != nil {
		return "", err
	}
	if filter.MainApplication == "" || filter.MainServiceTypeName == "" {
		return "", fmt.Errorf("%w: main application and service type are required", ErrInvalid)
	}
	return s.merger.FilteredMapURL(nav, filter, hint)
}

// ApplyFilter merges filter and hint into the stored state of a view and
// returns the address of the resulting filtered map. A filter without a main
// application is centered on the view's own.
func (s *ViewService) ApplyFilter(ctx context.Context, id string, filter domain.Filter, hint domain.HintUpdate) (string, *domain.View, error) {
	if err := validateFilter(filter); err != nil {
		return "", nil, err
	}

	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return "", nil, err
	}

	if filter.MainApplication == "" {
		filter.MainApplication = view.MainApplication
		filter.MainServiceTypeName = view.MainServiceTypeName
	}

	url, err := s.merger.FilteredMapURL(view.Navigation, filter, hint)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build address: %w", err)
	}

	next, err := s.nextNavigation(view.Navigation, filter, hint)
	if err != nil {
		return "", nil, err
	}
	view.Navigation = next
	view.UpdatedAt = s.now()

	if err := s.repo.UpdateView(ctx, view); err != nil {
		return "", nil, err
	}

	s.logger.Debug("filter applied",
		zap.String("view", view.ID),
		zap.String("from", filter.FromApplication),
		zap.String("to", filter.ToApplication),
		zap.Bool("hinted", !hint.IsZero()))
	s.publish(EventViewUpdated, map[string]interface{}{
		"view": view,
		"url":  url,
	})
	return url, view, nil
}

// nextNavigation serializes the merged state the same way FilteredMapURL
// embeds it in the address.
func (s *ViewService) nextNavigation(nav domain.Navigation, filter domain.Filter, hint domain.HintUpdate) (domain.Navigation, error) {
	filters, err := domain.EncodeJSON(s.merger.MergeFilters(nav, filter))
	if err != nil {
		return nav, fmt.Errorf("failed to encode filters: %w", err)
	}
	nav.Filters = string(filters)

	if nav.Hints != "" || !hint.IsZero() {
		short := filtermap.ParseLongHintToShortHint(s.merger.MergeHints(nav, hint))
		hints, err := domain.EncodeJSON(short)
		if err != nil {
			return nav, fmt.Errorf("failed to encode hint: %w", err)
		}
		nav.Hints = string(hints)
	}
	return nav, nil
}

// ViewFromAddress saves the state carried by a filtered map address as a
// new view.
func (s *ViewService) ViewFromAddress(ctx context.Context, name, address string) (*domain.View, error) {
	parsed, err := s.merger.ParseAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	view := &domain.View{
		Name:                name,
		MainApplication:     parsed.MainApplication,
		MainServiceTypeName: parsed.MainServiceTypeName,
		Navigation: domain.Navigation{
			Filters:     parsed.Filter(),
			Hints:       parsed.Hint(),
			Period:      parsed.ReadablePeriod(),
			EndDateTime: parsed.QueryEndDateTime(),
		},
	}
	if err := s.CreateView(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

// ImportViews upserts every view in set. Views without an ID get one, and
// missing timestamps are set to now.
func (s *ViewService) ImportViews(ctx context.Context, set *domain.ViewSet) error {
	now := s.now()
	for i := range set.Views {
		v := &set.Views[i]
		if err := validateView(v); err != nil {
			return fmt.Errorf("view %d: %w", i, err)
		}
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = v.CreatedAt
		}
	}

	if err := s.repo.ImportViews(ctx, set.Views); err != nil {
		return err
	}

	s.logger.Info("views imported", zap.Int("count", len(set.Views)))
	s.publish(EventViewsImported, map[string]int{"count": len(set.Views)})
	return nil
}

// ExportViews returns all stored views as a document
func (s *ViewService) ExportViews(ctx context.Context) (*domain.ViewSet, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, err
	}
	set := domain.NewViewSet()
	set.Views = views
	return set, nil
}

func (s *ViewService) publish(t EventType, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(Event{Type: t, Payload: payload})
}

func validateView(view *domain.View) error {
	if view.Name == "" {
		return fmt.Errorf("%w: view name is required", ErrInvalid)
	}
	if view.MainApplication == "" {
		return fmt.Errorf("%w: main application is required", ErrInvalid)
	}
	if view.MainServiceTypeName == "" {
		return fmt.Errorf("%w: main service type is required", ErrInvalid)
	}
	return nil
}

func validateFilter(f domain.Filter) error {
	if f.FromServiceType == "" || f.ToServiceType == "" {
		return fmt.Errorf("%w: filter service types are required", ErrInvalid)
	}
	if f.ToApplication == "" {
		return fmt.Errorf("%w: filter target application is required", ErrInvalid)
	}
	if f.FromApplication == "" && f.FromServiceType != domain.ServiceTypeUser {
		return fmt.Errorf("%w: filter source application is required", ErrInvalid)
	}
	return nil
}
