package main

import (
	"context"
	"errors"
	"expvar"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go-happyhour/config"
	"go-happyhour/handlers"
	"go-happyhour/middleware"
	"go-happyhour/models"
	"go-happyhour/services"
	"go-happyhour/utils/logger"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sugar := logger.New(cfg.LogLevel)
	defer sugar.Sync()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	catalog := services.NewRegionCatalog()
	discounts := services.NewDiscountGenerator(rand.New(rand.NewSource(seed)))

	// Places source
	var source services.PlaceSource
	if cfg.GooglePlacesAPIKey != "" {
		source = services.NewGooglePlacesSource(cfg.GooglePlacesAPIKey, cfg.GooglePlacesURL, discounts, sugar)
	} else {
		source = services.NewPlaceSynthesizer(catalog, discounts, rand.New(rand.NewSource(seed+1)), sugar)
	}

	// Fallback dataset
	var fallback services.FallbackStore = services.StaticFallbackStore{}
	if cfg.MongoURI != "" {
		store, err := services.NewMongoFallbackStore(ctx, cfg.MongoURI, cfg.MongoDatabase, sugar)
		if err != nil {
			sugar.Warnw("MongoDB unavailable, using built-in fallback venues", "error", err)
		} else {
			defer store.Close(context.Background())
			fallback = store
		}
	}

	places := services.NewPlacesService(source, fallback, sugar)

	// Redis snapshots
	var cache *services.SnapshotCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		cache = services.NewSnapshotCache(client, cfg.SnapshotTTL, sugar)
		if err := cache.Ping(ctx); err != nil {
			sugar.Warnw("Redis unavailable, venue snapshots disabled", "error", err)
			client.Close()
			cache = nil
		} else {
			defer client.Close()
			places.WithRecorder(cache)
		}
	}

	// Location
	var geocoder services.ReverseGeocoder = services.NewNativeGeocoder(catalog)
	if cfg.Geocoder == "web" {
		geocoder = services.NewWebGeocoder(cfg.GeocoderURL, sugar)
	}
	var (
		locationSource services.LocationSource
		reported       *services.ReportedSource
	)
	if cfg.LocationSource == "reported" {
		reported = services.NewReportedSource()
		locationSource = reported
	} else {
		locationSource = services.StaticSource{Coordinate: models.Coordinate{Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude}}
	}
	provider := services.NewLocationProvider(locationSource, geocoder, cfg.LocationTimeout, cfg.LocationMaxAge, sugar)
	defer provider.Close()

	discovery := services.NewDiscoveryController(provider, places, cfg.SearchRadius, sugar)
	defer discovery.Close()

	session := services.NewSession(cfg.JWTSecret, sugar)
	session.Subscribe(func(st services.SessionState) {
		if st.User != nil && !st.IsLoading {
			sugar.Debugw("session changed", "user_id", st.User.ID, "role", st.User.Role)
		}
	})

	expvar.NewString("version").Set(version)
	expvar.NewString("places_source").Set(source.Name())
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("location_phase", expvar.Func(func() any {
		return provider.Current().Phase
	}))

	r := newRouter(cfg, sugar, routes{
		deals:    handlers.NewDealsHandler(places, provider, cfg.SearchRadius, sugar),
		venues:   handlers.NewVenueHandler(cache),
		location: handlers.NewLocationHandler(provider, reported, sugar),
		discover: handlers.NewDiscoverHandler(discovery),
		auth:     handlers.NewAuthHandler(session),
	})

	if err := run(cfg.Addr, r, sugar); err != nil {
		sugar.Fatal(err)
	}
}

type routes struct {
	deals    *handlers.DealsHandler
	venues   *handlers.VenueHandler
	location *handlers.LocationHandler
	discover *handlers.DiscoverHandler
	auth     *handlers.AuthHandler
}

func newRouter(cfg config.Config, sugar *zap.SugaredLogger, h routes) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.ErrorMiddleware(sugar))
	r.Use(middleware.LoggingMiddleware(sugar))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", h.auth.LoginUser).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/logout", h.auth.LogoutUser).Methods("POST", "OPTIONS")

	// User routes
	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Use(middleware.JWTMiddleware(cfg.JWTSecret))
	userRouter.HandleFunc("/ping", h.location.PingLocation).Methods("POST", "OPTIONS")

	// Location routes
	r.HandleFunc("/location", h.location.GetLocation).Methods("GET", "OPTIONS")
	r.HandleFunc("/location/refresh", h.location.RefreshLocation).Methods("POST", "OPTIONS")

	// Deal and venue routes
	r.HandleFunc("/deals/nearby", h.deals.GetNearbyDeals).Methods("GET", "OPTIONS")
	r.HandleFunc("/venues/recent", h.venues.GetRecentVenues).Methods("GET", "OPTIONS")
	r.HandleFunc("/venues/{id}", h.venues.GetVenue).Methods("GET", "OPTIONS")

	// Discover screen routes
	discoverRouter := r.PathPrefix("/discover").Subrouter()
	discoverRouter.HandleFunc("", h.discover.GetView).Methods("GET", "OPTIONS")
	discoverRouter.HandleFunc("/category", h.discover.SetCategory).Methods("PUT", "OPTIONS")
	discoverRouter.HandleFunc("/query", h.discover.SetQuery).Methods("PUT", "OPTIONS")
	discoverRouter.HandleFunc("/refresh", h.discover.Refresh).Methods("POST", "OPTIONS")

	r.Handle("/debug/vars", expvar.Handler()).Methods("GET")
	return r
}

func run(addr string, handler http.Handler, sugar *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sugar.Infow("signal caught", "signal", s.String())
		shutdown <- srv.Shutdown(ctx)
	}()

	sugar.Infow("server has started", "addr", addr, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}

	sugar.Infow("server has stopped", "addr", addr)
	return nil
}
