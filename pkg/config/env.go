package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvOverpassBaseURL  = "OVERPASS_BASE_URL"
	EnvOverpassTimeout  = "OVERPASS_TIMEOUT"
	EnvCourtCacheTTL    = "COURT_CACHE_TTL"
	EnvDefaultRadiusKm  = "DEFAULT_RADIUS_KM"
	EnvMaxRadiusKm      = "MAX_RADIUS_KM"
	EnvNearbyCourtCount = "NEARBY_COURT_COUNT"

	EnvReviewsPerPage    = "REVIEWS_PER_PAGE"
	EnvMaxReviewsPerPage = "MAX_REVIEWS_PER_PAGE"

	EnvTrustMin = "TRUST_MIN"
	EnvTrustMax = "TRUST_MAX"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
