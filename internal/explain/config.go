package explain

import "time"

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Every is the minimum spacing between requests once Burst is used up.
	Every time.Duration
	Burst int
}

// DefaultConfig returns the settings used by the CLI, server and TUI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   600,
		Temperature: 0.3,
		Every:       5 * time.Second,
		Burst:       3,
	}
}
