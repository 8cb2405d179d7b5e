package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/betterreads-loader/internal/config"
	"github.com/mrlokans/betterreads-loader/internal/database"
	http_controllers "github.com/mrlokans/betterreads-loader/internal/http"
	"github.com/mrlokans/betterreads-loader/internal/loader"
	"github.com/mrlokans/betterreads-loader/internal/scheduler"
	"github.com/mrlokans/betterreads-loader/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting BetterReads loader v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(database.ParseLogLevel(cfg.Database.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// A run left in "running" belongs to a process that died mid-load. Pending
	// runs are kept: their queued tasks are picked up again on start.
	if n, err := db.Loads.FailInterrupted(context.Background(), "interrupted: process stopped during load"); err != nil {
		log.Printf("[LOAD] Failed to clear interrupted runs: %v", err)
	} else if n > 0 {
		log.Printf("[LOAD] Marked %d interrupted run(s) as failed", n)
	}

	service := loader.NewService(db.Authors, db.Books, db.Loads, cfg.Load.ProgressEvery)
	defaults := loader.Paths{Authors: cfg.Dumps.AuthorsPath, Works: cfg.Dumps.WorksPath}

	routerCfg := http_controllers.RouterConfig{
		Database: db,
		Authors:  db.Authors,
		Books:    db.Books,
		Stats:    db,
		Runs:     db.Loads,
		Version:  version,
	}

	// Background context shared by the task queue and the scheduler
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var taskClient *tasks.Client
	var trigger scheduler.TriggerFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			LoadTimeout:     cfg.Tasks.LoadTimeout,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(tasks.NewLoadDumpsQueue(service, taskCfg))
		go taskClient.Start(bgCtx)

		submitter := tasks.NewLoadSubmitter(taskClient, service, db.Loads, defaults)
		routerCfg.Submitter = submitter
		routerCfg.Tasks = taskClient

		trigger = func(ctx context.Context) (string, error) {
			sub, err := submitter.Submit(ctx, tasks.LoadRequest{})
			return sub.RunID, err
		}
	} else {
		log.Printf("Task queue disabled; POST /api/loads is unavailable")
		trigger = func(ctx context.Context) (string, error) {
			report, err := service.Execute(ctx, "", defaults)
			return report.RunID, err
		}
	}

	var loadScheduler *scheduler.LoadScheduler
	if cfg.LoadSchedule.Enabled {
		loadScheduler = scheduler.NewLoadScheduler(cfg.LoadSchedule.Schedule, trigger, db.Loads)
		if err := loadScheduler.Start(bgCtx); err != nil {
			log.Fatalf("Failed to start load scheduler: %v", err)
		}
	} else {
		log.Printf("Load scheduler: disabled")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if loadScheduler != nil {
			loadScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		bgCancel()
	}

	Serve(router, cfg, onShutdown)
}
