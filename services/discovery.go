package services

import (
	"context"
	"strings"
	"sync"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

// minQueryLength is the shortest query that triggers a new search; shorter
// queries only filter the batch already loaded.
const minQueryLength = 3

// FilterVenues is the last stage before display. A venue is kept when its
// name or description contains searchQuery (ignoring case), its category is
// selectedCategory (or selectedCategory is All), and it is active with an
// active discount.
func FilterVenues(venues []models.Venue, searchQuery, selectedCategory string) []models.Venue {
	q := strings.ToLower(searchQuery)
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if !matchesText(v, q) {
			continue
		}
		if selectedCategory != models.CategoryAll && v.Category != selectedCategory {
			continue
		}
		if !v.IsActive || v.CurrentDiscount == nil || !v.CurrentDiscount.IsActive {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DiscoverView is what the discover screen renders.
type DiscoverView struct {
	Category      string              `json:"category"`
	Query         string              `json:"query"`
	Categories    []string            `json:"categories"`
	Venues        []models.Venue      `json:"venues"`
	Count         int                 `json:"count"`
	Location      State               `json:"location"`
	LocationError *apierrors.APIError `json:"location_error,omitempty"`
	Warning       *apierrors.APIError `json:"warning,omitempty"`
	Loading       bool                `json:"loading"`
	Empty         bool                `json:"empty"`
}

// DiscoveryController coordinates location, search and the user's category
// and query selection. Requests are never cancelled by newer ones; a result
// is applied only if no newer load has been applied and the controller has
// not been closed.
type DiscoveryController struct {
	provider *LocationProvider
	places   *PlacesService
	radius   float64
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	alive    bool
	category string
	query    string
	venues   []models.Venue
	warning  *apierrors.APIError
	pending  int
	issued   uint64
	applied  uint64
}

func NewDiscoveryController(provider *LocationProvider, places *PlacesService, radiusMeters float64, logger *zap.SugaredLogger) *DiscoveryController {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &DiscoveryController{
		provider: provider,
		places:   places,
		radius:   radiusMeters,
		logger:   logger,
		alive:    true,
		category: models.CategoryAll,
	}
}

// Refresh reloads venues around the current fix, or acquires a location
// first when there is none yet.
func (c *DiscoveryController) Refresh(ctx context.Context) (DiscoverView, error) {
	if err := c.checkAlive(); err != nil {
		return DiscoverView{}, err
	}

	fix := c.provider.Current().Fix
	if fix == nil {
		state, err := c.provider.Acquire(ctx)
		if err != nil && state.Fix == nil {
			c.logger.Warnw("discover refresh without location", "error", err)
			return c.View(), nil
		}
		fix = state.Fix
	}
	return c.load(ctx, fix.Coordinate, "", false)
}

// SetCategory changes the selected category and reloads when a fix exists.
func (c *DiscoveryController) SetCategory(ctx context.Context, category string) (DiscoverView, error) {
	if category == "" {
		category = models.CategoryAll
	}
	if !models.IsCategory(category) {
		return DiscoverView{}, apierrors.NewAPIError(apierrors.ErrInvalidInput.Code, "Unknown category", apierrors.ErrInvalidInput.Status, category)
	}

	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return DiscoverView{}, apierrors.ErrDiscoveryClosed
	}
	c.category = category
	c.mu.Unlock()

	fix := c.provider.Current().Fix
	if fix == nil {
		return c.View(), nil
	}
	return c.load(ctx, fix.Coordinate, "", false)
}

// SetQuery changes the search text. Queries of at least minQueryLength
// characters re-run the search with the query; a failed search keeps the
// batch already shown.
func (c *DiscoveryController) SetQuery(ctx context.Context, query string) (DiscoverView, error) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return DiscoverView{}, apierrors.ErrDiscoveryClosed
	}
	c.query = query
	c.mu.Unlock()

	fix := c.provider.Current().Fix
	if fix == nil || len(query) < minQueryLength {
		return c.View(), nil
	}
	return c.load(ctx, fix.Coordinate, query, true)
}

func (c *DiscoveryController) load(ctx context.Context, origin models.Coordinate, query string, keepOnFailure bool) (DiscoverView, error) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return DiscoverView{}, apierrors.ErrDiscoveryClosed
	}
	c.issued++
	seq := c.issued
	c.pending++
	category := c.category
	c.mu.Unlock()

	result, err := c.places.SearchNearby(ctx, SearchParams{
		Origin:       origin,
		RadiusMeters: c.radius,
		Category:     category,
		Query:        query,
	})

	c.mu.Lock()
	c.pending--
	switch {
	case !c.alive:
		c.mu.Unlock()
		c.logger.Debugw("dropping discover result after close", "seq", seq)
		return DiscoverView{}, apierrors.ErrDiscoveryClosed
	case seq < c.applied:
		c.logger.Debugw("dropping stale discover result", "seq", seq, "applied", c.applied)
	case err != nil:
		c.warning = apierrors.Wrap(err, apierrors.ErrInternal.Code, apierrors.ErrInternal.Message, apierrors.ErrInternal.Status)
	case result.Fallback() && keepOnFailure:
		c.applied = seq
		c.warning = result.Warning
	default:
		c.applied = seq
		c.venues = result.Venues
		c.warning = result.Warning
	}
	c.mu.Unlock()

	return c.View(), nil
}

// View returns the filtered venues and banners.
func (c *DiscoveryController) View() DiscoverView {
	location := c.provider.Current()

	c.mu.Lock()
	defer c.mu.Unlock()

	venues := FilterVenues(c.venues, c.query, c.category)
	view := DiscoverView{
		Category:   c.category,
		Query:      c.query,
		Categories: models.Categories,
		Venues:     venues,
		Count:      len(venues),
		Location:   location,
		Warning:    c.warning,
		Loading:    c.pending > 0 || location.Loading,
	}
	if location.Phase == PhaseFailed {
		view.LocationError = location.Err
	}
	view.Empty = len(venues) == 0 && !view.Loading && location.Fix != nil
	return view
}

// Close stops the controller from applying any further results.
func (c *DiscoveryController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alive = false
}

func (c *DiscoveryController) checkAlive() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive {
		return apierrors.ErrDiscoveryClosed
	}
	return nil
}
