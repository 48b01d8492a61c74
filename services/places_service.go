package services

import (
	"context"
	"expvar"
	"fmt"
	"strings"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"
	"go-happyhour/utils/validate"

	"go.uber.org/zap"
)

var (
	searchesTotal  = expvar.NewInt("places_searches")
	fallbacksTotal = expvar.NewInt("places_fallbacks")
)

// SearchParams is the provider-agnostic nearby query.
type SearchParams struct {
	Origin       models.Coordinate
	RadiusMeters float64 `validate:"gte=0,lte=50000"`
	Category     string  `validate:"venuecategory"`
	Query        string  `validate:"max=100"`
}

// SearchResult carries the venues and, when the source failed and the static
// fallback set was served instead, the retrieval warning to show.
type SearchResult struct {
	Venues  []models.Venue      `json:"venues"`
	Source  string              `json:"source"`
	Warning *apierrors.APIError `json:"warning,omitempty"`
}

// Fallback reports whether the venues come from the static fallback set.
func (r SearchResult) Fallback() bool {
	return r.Warning != nil
}

// VenueRecorder keeps render-ready snapshots of surfaced venues.
type VenueRecorder interface {
	Record(ctx context.Context, venues []models.Venue) error
}

// PlacesService answers nearby searches from a single PlaceSource. Callers
// never see which source it is.
type PlacesService struct {
	source   PlaceSource
	fallback FallbackStore
	recorder VenueRecorder
	logger   *zap.SugaredLogger
}

func NewPlacesService(source PlaceSource, fallback FallbackStore, logger *zap.SugaredLogger) *PlacesService {
	return &PlacesService{
		source:   source,
		fallback: fallback,
		logger:   logger,
	}
}

// WithRecorder makes every successful search record its venues.
func (s *PlacesService) WithRecorder(r VenueRecorder) *PlacesService {
	s.recorder = r
	return s
}

// SearchNearby returns surfaceable venues around p.Origin, nearest first.
// When p.Query is set only venues whose name or description contain it
// (case-insensitively) are kept. A failing source yields the fallback set
// and a PLACE_RETRIEVAL_FAILED warning instead of an error; the returned
// error is reserved for invalid parameters.
func (s *PlacesService) SearchNearby(ctx context.Context, p SearchParams) (SearchResult, error) {
	if err := p.Origin.Validate(); err != nil {
		return SearchResult{}, apierrors.WithDetails(apierrors.ErrInvalidInput, err)
	}
	if err := validate.Struct(p); err != nil {
		return SearchResult{}, apierrors.WithDetails(apierrors.ErrInvalidInput, err)
	}
	if p.RadiusMeters == 0 {
		p.RadiusMeters = DefaultRadiusMeters
	}
	if p.Category == models.CategoryAll {
		p.Category = ""
	}

	searchesTotal.Add(1)
	venues, err := s.source.Nearby(ctx, NearbyQuery{
		Origin:       p.Origin,
		RadiusMeters: p.RadiusMeters,
		Category:     p.Category,
	})
	if err != nil {
		fallbacksTotal.Add(1)
		s.logger.Errorw("place retrieval failed, serving fallback", "source", s.source.Name(), "error", err)
		return s.fallbackResult(ctx, p.Origin, err), nil
	}

	venues = MatchQuery(Surfaceable(venues), p.Query)
	SortByDistance(p.Origin, venues)

	if s.recorder != nil && len(venues) > 0 {
		if err := s.recorder.Record(ctx, venues); err != nil {
			s.logger.Warnw("failed to record venue snapshots", "error", err)
		}
	}

	s.logger.Infow("nearby search", "source", s.source.Name(), "lat", p.Origin.Latitude, "lon", p.Origin.Longitude,
		"radius", p.RadiusMeters, "category", p.Category, "query", p.Query, "count", len(venues))
	return SearchResult{Venues: venues, Source: s.source.Name()}, nil
}

func (s *PlacesService) fallbackResult(ctx context.Context, origin models.Coordinate, cause error) SearchResult {
	venues, err := s.fallback.Venues(ctx)
	if err != nil || len(venues) == 0 {
		s.logger.Warnw("fallback store unavailable, using built-in set", "error", err)
		venues = StaticFallbackVenues()
	}
	venues = Surfaceable(venues)
	SortByDistance(origin, venues)
	return SearchResult{
		Venues:  venues,
		Source:  "fallback",
		Warning: apierrors.WithDetails(apierrors.ErrPlaceRetrievalFailed, fmt.Errorf("%s: %w", s.source.Name(), cause)),
	}
}

// Surfaceable keeps only venues that satisfy the activity invariant.
func Surfaceable(venues []models.Venue) []models.Venue {
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if v.Surfaceable() {
			out = append(out, v)
		}
	}
	return out
}

// MatchQuery keeps venues whose name or description contains query,
// ignoring case. An empty query keeps everything.
func MatchQuery(venues []models.Venue, query string) []models.Venue {
	q := strings.ToLower(query)
	if q == "" {
		return venues
	}
	out := make([]models.Venue, 0, len(venues))
	for _, v := range venues {
		if matchesText(v, q) {
			out = append(out, v)
		}
	}
	return out
}

func matchesText(v models.Venue, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(v.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(v.Description), lowerQuery)
}
