package tasks

import "time"

// Config holds configuration for the task queue system.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// LoadTimeout bounds a single dump load, up to MaxLoadTimeout. Default: 12h
	LoadTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue.
	// Must exceed LoadTimeout. Default: 13h
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:         1,
		LoadTimeout:     12 * time.Hour,
		ReleaseAfter:    13 * time.Hour,
		CleanupInterval: time.Hour,
	}
}
