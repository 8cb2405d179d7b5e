package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Dumps
		Load
		LoadSchedule
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // silent, error, warn, info
	}
	Dumps struct {
		AuthorsPath string
		WorksPath   string
	}
	Load struct {
		ProgressEvery int // Log progress every N lines (0 disables)
	}
	LoadSchedule struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * 0" = Sundays at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		LoadTimeout     time.Duration
		ReleaseAfter    time.Duration // Must exceed LoadTimeout
		CleanupInterval time.Duration
	}
)

// loadDotEnv reads an optional .env file. Variables already present in the
// environment win.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("WARNING: failed to load %s: %v", path, err)
	}
}

func NewConfig() *Config {
	loadDotEnv(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_log_level", "warn")
	v.SetDefault("authors_dump_path", DefaultAuthorsDumpPath)
	v.SetDefault("works_dump_path", DefaultWorksDumpPath)
	v.SetDefault("load_progress_every", 100000)

	// Scheduled reload defaults
	v.SetDefault("load_schedule_enabled", false)
	v.SetDefault("load_schedule", "0 3 * * 0") // Weekly, Sunday 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_load_timeout", "12h")
	v.SetDefault("task_release_after", "13h")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Dumps: Dumps{
			AuthorsPath: v.GetString("AUTHORS_DUMP_PATH"),
			WorksPath:   v.GetString("WORKS_DUMP_PATH"),
		},
		Load: Load{
			ProgressEvery: v.GetInt("LOAD_PROGRESS_EVERY"),
		},
		LoadSchedule: LoadSchedule{
			Enabled:  v.GetBool("LOAD_SCHEDULE_ENABLED"),
			Schedule: v.GetString("LOAD_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			LoadTimeout:     v.GetDuration("TASK_LOAD_TIMEOUT"),
			ReleaseAfter:    releaseAfter(v.GetDuration("TASK_RELEASE_AFTER"), v.GetDuration("TASK_LOAD_TIMEOUT")),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}

// releaseMargin is added to the load timeout when the configured release
// delay is too short.
const releaseMargin = time.Hour

// releaseAfter keeps a running load from being released to another worker
// before its own timeout fires.
func releaseAfter(release, loadTimeout time.Duration) time.Duration {
	if release > loadTimeout {
		return release
	}
	clamped := loadTimeout + releaseMargin
	log.Printf("WARNING: TASK_RELEASE_AFTER (%s) does not exceed TASK_LOAD_TIMEOUT (%s); using %s",
		release, loadTimeout, clamped)
	return clamped
}
