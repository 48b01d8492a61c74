package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"

	"go.uber.org/zap"
)

const (
	DefaultLocationTimeout = 10 * time.Second
	DefaultLocationMaxAge  = 60 * time.Second
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseAcquiring Phase = "acquiring"
	PhaseReady     Phase = "ready"
	PhaseFailed    Phase = "failed"
)

// State is a snapshot of the provider. Fix survives a failed refresh so
// callers can keep showing the last known place next to the error.
type State struct {
	Phase   Phase               `json:"phase"`
	Fix     *models.LocationFix `json:"fix,omitempty"`
	Loading bool                `json:"loading"`
	Err     *apierrors.APIError `json:"error,omitempty"`
}

// LocationSource is the device side of location acquisition.
type LocationSource interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

type acquisition struct {
	done  chan struct{}
	state State
	err   error
}

// LocationProvider acquires and enriches location fixes. At most one
// acquisition runs at a time; callers arriving while one is pending wait for
// it instead of starting another.
type LocationProvider struct {
	source   LocationSource
	geocoder ReverseGeocoder
	timeout  time.Duration
	maxAge   time.Duration
	logger   *zap.SugaredLogger
	now      func() time.Time

	mu       sync.Mutex
	state    State
	inflight *acquisition
	closed   bool
}

func NewLocationProvider(source LocationSource, geocoder ReverseGeocoder, timeout, maxAge time.Duration, logger *zap.SugaredLogger) *LocationProvider {
	if timeout <= 0 {
		timeout = DefaultLocationTimeout
	}
	if maxAge < 0 {
		maxAge = 0
	}
	return &LocationProvider{
		source:   source,
		geocoder: geocoder,
		timeout:  timeout,
		maxAge:   maxAge,
		logger:   logger,
		now:      time.Now,
		state:    State{Phase: PhaseIdle},
	}
}

// Acquire returns a fix, reusing the last one while it is younger than the
// max age. It blocks until the acquisition it started or joined finishes, or
// until ctx is done; leaving early does not cancel the acquisition.
func (p *LocationProvider) Acquire(ctx context.Context) (State, error) {
	return p.acquire(ctx, true)
}

// Refresh always goes back to the source, ignoring the reuse window.
func (p *LocationProvider) Refresh(ctx context.Context) (State, error) {
	return p.acquire(ctx, false)
}

func (p *LocationProvider) acquire(ctx context.Context, reuse bool) (State, error) {
	p.mu.Lock()
	if p.closed {
		state := p.snapshot()
		p.mu.Unlock()
		return state, apierrors.ErrProviderClosed
	}
	if reuse && p.inflight == nil && p.fresh() {
		state := p.snapshot()
		p.mu.Unlock()
		return state, nil
	}

	a := p.inflight
	if a == nil {
		a = &acquisition{done: make(chan struct{})}
		p.inflight = a
		p.state.Phase = PhaseAcquiring
		p.state.Err = nil
		go p.run(context.WithoutCancel(ctx), a)
	}
	p.mu.Unlock()

	select {
	case <-a.done:
		return a.state, a.err
	case <-ctx.Done():
		return p.Current(), ctx.Err()
	}
}

func (p *LocationProvider) run(parent context.Context, a *acquisition) {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	fix, apiErr := p.locate(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	defer close(a.done)
	p.inflight = nil

	if p.closed {
		p.logger.Debugw("dropping location result after close")
		a.state, a.err = p.snapshot(), apierrors.ErrProviderClosed
		return
	}

	if apiErr != nil {
		p.state = State{Phase: PhaseFailed, Fix: p.state.Fix, Err: apiErr}
		p.logger.Warnw("location acquisition failed", "code", apiErr.Code, "details", apiErr.Details)
		a.state, a.err = p.snapshot(), apiErr
		return
	}

	p.state = State{Phase: PhaseReady, Fix: &fix}
	p.logger.Infow("location acquired", "lat", fix.Latitude, "lon", fix.Longitude, "city", fix.City)
	a.state = p.snapshot()
}

func (p *LocationProvider) locate(ctx context.Context) (models.LocationFix, *apierrors.APIError) {
	if p.source == nil {
		return models.LocationFix{}, apierrors.ErrLocationUnavailable
	}

	granted, err := p.source.RequestPermission(ctx)
	if err != nil {
		return models.LocationFix{}, classifyLocationError(err)
	}
	if !granted {
		return models.LocationFix{}, apierrors.ErrLocationPermissionDenied
	}

	coord, err := p.source.CurrentPosition(ctx)
	if err != nil {
		return models.LocationFix{}, classifyLocationError(err)
	}
	if err := coord.Validate(); err != nil {
		return models.LocationFix{}, apierrors.WithDetails(apierrors.ErrLocationUnknown, err)
	}

	fix := models.LocationFix{Coordinate: coord, AcquiredAt: p.now()}
	if p.geocoder != nil {
		place := p.geocoder.Resolve(ctx, coord)
		fix.Address, fix.City, fix.Country = place.Address, place.City, place.Country
	}
	return fix, nil
}

func classifyLocationError(err error) *apierrors.APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.ErrLocationTimeout
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return apierrors.WithDetails(apierrors.ErrLocationUnknown, err)
}

// Current returns the latest state without touching the source.
func (p *LocationProvider) Current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Close retires the provider. Pending acquisitions finish but their results
// are discarded.
func (p *LocationProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// fresh and snapshot expect p.mu to be held.
func (p *LocationProvider) fresh() bool {
	if p.state.Phase != PhaseReady || p.state.Fix == nil {
		return false
	}
	return p.now().Sub(p.state.Fix.AcquiredAt) < p.maxAge
}

func (p *LocationProvider) snapshot() State {
	s := p.state
	s.Loading = p.inflight != nil
	if s.Fix != nil {
		fix := *s.Fix
		s.Fix = &fix
	}
	return s
}

// StaticSource always grants permission and reports a fixed coordinate.
type StaticSource struct {
	Coordinate models.Coordinate
}

func (s StaticSource) RequestPermission(context.Context) (bool, error) { return true, nil }

func (s StaticSource) CurrentPosition(context.Context) (models.Coordinate, error) {
	return s.Coordinate, nil
}

// ReportedSource serves the position last reported by the client. Until a
// position arrives it is unavailable; a reported denial revokes permission
// until the next position.
type ReportedSource struct {
	mu     sync.RWMutex
	coord  *models.Coordinate
	denied bool
}

func NewReportedSource() *ReportedSource {
	return &ReportedSource{}
}

// Report records a position pinged by the client.
func (s *ReportedSource) Report(coord models.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return apierrors.WithDetails(apierrors.ErrInvalidInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coord = &coord
	s.denied = false
	return nil
}

// Deny records that the client refused location access.
func (s *ReportedSource) Deny() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied = true
}

func (s *ReportedSource) RequestPermission(context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.denied, nil
}

func (s *ReportedSource) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinate{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.coord == nil {
		return models.Coordinate{}, apierrors.WithDetails(apierrors.ErrLocationUnavailable, errors.New("no position reported yet"))
	}
	return *s.coord, nil
}
