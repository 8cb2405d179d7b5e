package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates the HTTP router. Load and task endpoints are only
// registered when the corresponding dependencies are present.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Runs, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.Authors != nil && cfg.Books != nil && cfg.Stats != nil {
		catalog := NewCatalogController(cfg.Authors, cfg.Books, cfg.Stats)
		api.GET("/authors/:id", catalog.GetAuthor)
		api.GET("/authors/:id/books", catalog.GetAuthorBooks)
		api.GET("/books/:id", catalog.GetBook)
		api.GET("/stats", catalog.GetStats)
	}

	if cfg.Runs != nil {
		loads := NewLoadsController(cfg.Runs, cfg.Submitter)
		api.GET("/loads", loads.ListRuns)
		api.GET("/loads/:id", loads.GetRun)
		api.POST("/loads", loads.StartLoad)
	}

	if cfg.Tasks != nil {
		taskController := NewTasksController(cfg.Tasks)
		api.GET("/tasks/:id", taskController.GetTaskStatus)
	}

	return router
}
