package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-happyhour/models"
	apierrors "go-happyhour/utils/errors"
)

// fakeSource counts position requests. With release set, CurrentPosition
// blocks until release is closed or ctx ends; entered, when set, is signalled
// on entry.
type fakeSource struct {
	mu      sync.Mutex
	granted bool
	coord   models.Coordinate
	err     error
	entered chan struct{}
	release chan struct{}
	calls   int
}

func (s *fakeSource) RequestPermission(context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.granted, nil
}

func (s *fakeSource) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	s.mu.Lock()
	s.calls++
	coord, err, entered, release := s.coord, s.err, s.entered, s.release
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.Coordinate{}, ctx.Err()
		}
	}
	return coord, err
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestProvider(source LocationSource) *LocationProvider {
	return NewLocationProvider(source, NewNativeGeocoder(NewRegionCatalog()), time.Second, time.Minute, nopLogger)
}

func TestLocationProviderAcquire(t *testing.T) {
	p := newTestProvider(&fakeSource{granted: true, coord: bangkok})
	if st := p.Current(); st.Phase != PhaseIdle || st.Fix != nil {
		t.Fatalf("initial state = %+v", st)
	}

	st, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if st.Phase != PhaseReady || st.Loading || st.Err != nil {
		t.Fatalf("state = %+v", st)
	}
	if st.Fix.Coordinate != bangkok || st.Fix.City != "Bangkok" || st.Fix.Country != "Thailand" {
		t.Fatalf("fix = %+v", st.Fix)
	}
	if st.Fix.AcquiredAt.IsZero() {
		t.Fatal("fix has no acquisition time")
	}
}

func TestLocationProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		source LocationSource
		want   *apierrors.APIError
	}{
		{"permission denied", &fakeSource{granted: false}, apierrors.ErrLocationPermissionDenied},
		{"nothing reported", NewReportedSource(), apierrors.ErrLocationUnavailable},
		{"no source", nil, apierrors.ErrLocationUnavailable},
		{"source error", &fakeSource{granted: true, err: errors.New("gps exploded")}, apierrors.ErrLocationUnknown},
		{"invalid coordinate", &fakeSource{granted: true, coord: models.Coordinate{Latitude: 200}}, apierrors.ErrLocationUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(tt.source)
			st, err := p.Acquire(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if st.Phase != PhaseFailed || !errors.Is(st.Err, tt.want) {
				t.Fatalf("state = %+v", st)
			}
		})
	}
}

func TestLocationProviderDeniedAfterReport(t *testing.T) {
	reported := NewReportedSource()
	p := NewLocationProvider(reported, nil, time.Second, 0, nopLogger)

	if err := reported.Report(bangkok); err != nil {
		t.Fatalf("Report: %v", err)
	}
	st, err := p.Acquire(context.Background())
	if err != nil || st.Fix.Coordinate != bangkok {
		t.Fatalf("Acquire = %+v, %v", st, err)
	}

	reported.Deny()
	st, err = p.Refresh(context.Background())
	if !errors.Is(err, apierrors.ErrLocationPermissionDenied) {
		t.Fatalf("err = %v", err)
	}
	if st.Fix == nil || st.Fix.Coordinate != bangkok {
		t.Fatal("a failed refresh should keep the last fix")
	}

	if err := reported.Report(models.Coordinate{Latitude: 95}); !errors.Is(err, apierrors.ErrInvalidInput) {
		t.Fatalf("Report(invalid) = %v", err)
	}
}

func TestLocationProviderGeocodeFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewLocationProvider(&fakeSource{granted: true, coord: bangkok}, NewWebGeocoder(srv.URL, nopLogger), time.Second, time.Minute, nopLogger)
	st, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if st.Fix.Coordinate != bangkok || st.Fix.City != "" || st.Fix.Address != "" {
		t.Fatalf("fix = %+v", st.Fix)
	}
}

func TestLocationProviderReusesFreshFix(t *testing.T) {
	source := &fakeSource{granted: true, coord: bangkok}
	p := newTestProvider(source)
	now := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	if _, err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	now = now.Add(30 * time.Second)
	if _, err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if source.callCount() != 1 {
		t.Fatalf("calls = %d, want the fix reused", source.callCount())
	}

	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if source.callCount() != 2 {
		t.Fatalf("calls = %d, Refresh must bypass reuse", source.callCount())
	}

	now = now.Add(2 * time.Minute)
	if _, err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if source.callCount() != 3 {
		t.Fatalf("calls = %d, a stale fix must be replaced", source.callCount())
	}
}

func TestLocationProviderJoinsInFlight(t *testing.T) {
	source := &fakeSource{granted: true, coord: bangkok, entered: make(chan struct{}), release: make(chan struct{})}
	p := newTestProvider(source)

	type outcome struct {
		st  State
		err error
	}
	results := make(chan outcome, 2)
	acquire := func() {
		st, err := p.Acquire(context.Background())
		results <- outcome{st, err}
	}

	go acquire()
	<-source.entered
	go acquire()

	st := p.Current()
	if st.Phase != PhaseAcquiring || !st.Loading {
		t.Fatalf("state while pending = %+v", st)
	}

	close(source.release)
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil || r.st.Phase != PhaseReady || r.st.Fix.Coordinate != bangkok {
			t.Fatalf("outcome %d = %+v, %v", i, r.st, r.err)
		}
	}
	if source.callCount() != 1 {
		t.Fatalf("calls = %d, want one shared acquisition", source.callCount())
	}
}

func TestLocationProviderCallerCancelDoesNotCancelAcquisition(t *testing.T) {
	source := &fakeSource{granted: true, coord: bangkok, entered: make(chan struct{}), release: make(chan struct{})}
	p := newTestProvider(source)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := p.Acquire(ctx)
		errc <- err
	}()
	<-source.entered
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}

	close(source.release)
	st, err := p.Acquire(context.Background())
	if err != nil || st.Phase != PhaseReady {
		t.Fatalf("Acquire = %+v, %v", st, err)
	}
	if source.callCount() != 1 {
		t.Fatalf("calls = %d", source.callCount())
	}
}

func TestLocationProviderTimeout(t *testing.T) {
	source := &fakeSource{granted: true, coord: bangkok, release: make(chan struct{})}
	p := NewLocationProvider(source, nil, 20*time.Millisecond, time.Minute, nopLogger)

	st, err := p.Acquire(context.Background())
	if !errors.Is(err, apierrors.ErrLocationTimeout) {
		t.Fatalf("err = %v", err)
	}
	if st.Phase != PhaseFailed {
		t.Fatalf("phase = %s", st.Phase)
	}
}

func TestLocationProviderCloseDropsLateResult(t *testing.T) {
	source := &fakeSource{granted: true, coord: bangkok, entered: make(chan struct{}), release: make(chan struct{})}
	p := newTestProvider(source)

	errc := make(chan error, 1)
	go func() {
		_, err := p.Acquire(context.Background())
		errc <- err
	}()
	<-source.entered
	p.Close()
	close(source.release)

	if err := <-errc; !errors.Is(err, apierrors.ErrProviderClosed) {
		t.Fatalf("err = %v", err)
	}
	if st := p.Current(); st.Fix != nil || st.Phase == PhaseReady {
		t.Fatalf("late result applied: %+v", st)
	}
	if _, err := p.Acquire(context.Background()); !errors.Is(err, apierrors.ErrProviderClosed) {
		t.Fatalf("Acquire after close = %v", err)
	}
}
