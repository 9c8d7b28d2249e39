package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"courtfinder/pkg/client"
	"courtfinder/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	OverpassBaseURL  string
	OverpassTimeout  time.Duration
	CourtCacheTTL    time.Duration
	DefaultRadiusKm  int
	MaxRadiusKm      int
	NearbyCourtCount int

	ReviewsPerPage    int
	MaxReviewsPerPage int

	TrustMin int
	TrustMax int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, DefaultRedisPassword),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		OverpassBaseURL:  getEnvStr(EnvOverpassBaseURL, DefaultOverpassBaseURL),
		OverpassTimeout:  getEnvDuration(EnvOverpassTimeout, DefaultOverpassTimeout),
		CourtCacheTTL:    getEnvDuration(EnvCourtCacheTTL, DefaultCourtCacheTTL),
		DefaultRadiusKm:  getEnvNum(EnvDefaultRadiusKm, DefaultDefaultRadiusKm),
		MaxRadiusKm:      getEnvNum(EnvMaxRadiusKm, DefaultMaxRadiusKm),
		NearbyCourtCount: getEnvNum(EnvNearbyCourtCount, DefaultNearbyCourtCount),

		ReviewsPerPage:    getEnvNum(EnvReviewsPerPage, DefaultReviewsPerPage),
		MaxReviewsPerPage: getEnvNum(EnvMaxReviewsPerPage, DefaultMaxReviewsPerPage),

		TrustMin: getEnvNum(EnvTrustMin, DefaultTrustMin),
		TrustMax: getEnvNum(EnvTrustMax, DefaultTrustMax),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}

	if cfg.OverpassBaseURL == "" {
		errors = append(errors, "OverpassBaseURL cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.OverpassTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("OverpassTimeout must be positive, got: %s", cfg.OverpassTimeout))
	}
	if cfg.CourtCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("CourtCacheTTL must be positive, got: %s", cfg.CourtCacheTTL))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.DefaultRadiusKm <= 0 {
		errors = append(errors, fmt.Sprintf("DefaultRadiusKm must be positive, got: %d", cfg.DefaultRadiusKm))
	}
	if cfg.MaxRadiusKm < cfg.DefaultRadiusKm {
		errors = append(errors, fmt.Sprintf("MaxRadiusKm (%d) must be >= DefaultRadiusKm (%d)", cfg.MaxRadiusKm, cfg.DefaultRadiusKm))
	}
	if cfg.NearbyCourtCount <= 0 {
		errors = append(errors, fmt.Sprintf("NearbyCourtCount must be positive, got: %d", cfg.NearbyCourtCount))
	}

	if cfg.ReviewsPerPage <= 0 {
		errors = append(errors, fmt.Sprintf("ReviewsPerPage must be positive, got: %d", cfg.ReviewsPerPage))
	}
	if cfg.MaxReviewsPerPage < cfg.ReviewsPerPage {
		errors = append(errors, fmt.Sprintf("MaxReviewsPerPage (%d) must be >= ReviewsPerPage (%d)", cfg.MaxReviewsPerPage, cfg.ReviewsPerPage))
	}

	if cfg.TrustMax <= cfg.TrustMin {
		errors = append(errors, fmt.Sprintf("TrustMax (%d) must be > TrustMin (%d)", cfg.TrustMax, cfg.TrustMin))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"overpass_base_url", cfg.OverpassBaseURL,
		"overpass_timeout", cfg.OverpassTimeout,
		"court_cache_ttl", cfg.CourtCacheTTL,
		"default_radius_km", cfg.DefaultRadiusKm,
		"max_radius_km", cfg.MaxRadiusKm,
		"nearby_court_count", cfg.NearbyCourtCount,
		"reviews_per_page", cfg.ReviewsPerPage,
		"max_reviews_per_page", cfg.MaxReviewsPerPage,
		"trust_min", cfg.TrustMin,
		"trust_max", cfg.TrustMax,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

// NormalizePerPage bounds a caller supplied page size to [1, max].
func NormalizePerPage(perPage, fallback, max int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > max {
		return max
	}
	return perPage
}

// NormalizePage bounds a caller supplied page number to >= 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
