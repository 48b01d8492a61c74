package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go-happyhour/utils/validate"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string   `validate:"required"`
	AllowedOrigins []string `validate:"dive,required"`
	JWTSecret      string   `validate:"required"`
	LogLevel       string

	// Places backend. An empty key keeps the service on synthetic data.
	GooglePlacesAPIKey string
	GooglePlacesURL    string  `validate:"omitempty,url"`
	SearchRadius       float64 `validate:"gt=0,lte=50000"`
	RandomSeed         int64

	RedisAddr     string
	RedisDB       int `validate:"gte=0"`
	SnapshotTTL   time.Duration
	MongoURI      string
	MongoDatabase string

	Geocoder         string        `validate:"oneof=native web"`
	GeocoderURL      string        `validate:"omitempty,url"`
	LocationSource   string        `validate:"oneof=static reported"`
	DefaultLatitude  float64       `validate:"latitude"`
	DefaultLongitude float64       `validate:"longitude"`
	LocationTimeout  time.Duration `validate:"gt=0"`
	LocationMaxAge   time.Duration `validate:"gte=0"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	p := parser{lookup: lookup}
	cfg := Config{
		Addr:               p.str("ADDR", ":8080"),
		AllowedOrigins:     p.list("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:8081"}),
		JWTSecret:          p.str("JWT_SECRET", ""),
		LogLevel:           p.str("LOG_LEVEL", "info"),
		GooglePlacesAPIKey: p.str("GOOGLE_PLACES_API_KEY", ""),
		GooglePlacesURL:    p.str("GOOGLE_PLACES_URL", "https://maps.googleapis.com/maps/api/place"),
		SearchRadius:       p.float("SEARCH_RADIUS", 5000),
		RandomSeed:         int64(p.int("RANDOM_SEED", 0)),
		RedisAddr:          p.str("REDIS_ADDR", ""),
		RedisDB:            p.int("REDIS_DB", 0),
		SnapshotTTL:        p.duration("SNAPSHOT_TTL", time.Hour),
		MongoURI:           p.str("MONGODB_URI", ""),
		MongoDatabase:      p.str("MONGODB_DATABASE", "happyhour_db"),
		Geocoder:           p.str("GEOCODER", "native"),
		GeocoderURL:        p.str("GEOCODER_URL", "https://api.bigdatacloud.net/data/reverse-geocode-client"),
		LocationSource:     p.str("LOCATION_SOURCE", "static"),
		DefaultLatitude:    p.float("DEFAULT_LATITUDE", 13.7563),
		DefaultLongitude:   p.float("DEFAULT_LONGITUDE", 100.5018),
		LocationTimeout:    p.duration("LOCATION_TIMEOUT", 10*time.Second),
		LocationMaxAge:     p.duration("LOCATION_MAX_AGE", 60*time.Second),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) str(key, def string) string {
	if v, ok := p.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (p *parser) list(key string, def []string) []string {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (p *parser) int(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value for %s: %w", key, err)
	}
}
