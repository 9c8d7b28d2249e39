package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "courtfinder"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPassword = ""
	DefaultRedisDB       = 0

	DefaultPort = "8080"

	DefaultOverpassBaseURL  = "https://overpass-api.de/api/interpreter"
	DefaultOverpassTimeout  = 25 * time.Second
	DefaultCourtCacheTTL    = 24 * time.Hour
	DefaultDefaultRadiusKm  = 5
	DefaultMaxRadiusKm      = 50
	DefaultNearbyCourtCount = 20

	DefaultReviewsPerPage    = 10
	DefaultMaxReviewsPerPage = 50

	DefaultTrustMin = -100
	DefaultTrustMax = 100

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
