package server

import "time"

// Config holds HTTP API settings.
type Config struct {
	Addr string

	// RatePerSecond and Burst size the token bucket each client IP gets.
	RatePerSecond float64
	Burst         int

	AllowedOrigins []string
	MaxBodyBytes   int64

	// ParseCacheTTL is how long parse results stay cached by document hash.
	ParseCacheTTL time.Duration
}

// DefaultConfig returns the settings of `quizbank serve`.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8080",
		RatePerSecond:  10,
		Burst:          20,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   20 << 20,
		ParseCacheTTL:  10 * time.Minute,
	}
}
