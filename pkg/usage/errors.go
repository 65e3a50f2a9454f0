package usage

import "errors"

// Domain errors for usage store operations
var (
	// ErrInvalidKey is returned for empty counter keys.
	ErrInvalidKey = errors.New("usage.errors.invalid_key")

	// ErrFailedToParseRedisConnString indicates a malformed Redis URL.
	ErrFailedToParseRedisConnString = errors.New("usage.errors.failed_to_parse_redis_conn_string")

	// ErrRedisNotReady indicates the Redis server could not be reached
	// within the configured retry budget.
	ErrRedisNotReady = errors.New("usage.errors.redis_not_ready")
)
