package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/betterreads-loader/internal/tasks"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
)

// LoadsController exposes load history and lets clients request a reload.
type LoadsController struct {
	runs      LoadRunReader
	submitter LoadSubmitter
}

func NewLoadsController(runs LoadRunReader, submitter LoadSubmitter) *LoadsController {
	return &LoadsController{runs: runs, submitter: submitter}
}

// ListRuns handles GET /api/loads
func (lc *LoadsController) ListRuns(c *gin.Context) {
	limit, ok := parseLimit(c, defaultRunsLimit, maxRunsLimit)
	if !ok {
		return
	}

	runs, err := lc.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "list loads")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"loads": runs, "count": len(runs)})
}

// GetRun handles GET /api/loads/:id
func (lc *LoadsController) GetRun(c *gin.Context) {
	run, found, err := lc.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get load")
		return
	}
	if !found {
		respondNotFound(c, "load")
		return
	}
	c.IndentedJSON(http.StatusOK, run)
}

// StartLoad handles POST /api/loads
// An empty body loads the configured dumps.
func (lc *LoadsController) StartLoad(c *gin.Context) {
	if lc.submitter == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled", "tasks_disabled")
		return
	}

	var req tasks.LoadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	sub, err := lc.submitter.Submit(c.Request.Context(), req)
	if errors.Is(err, tasks.ErrLoadActive) {
		respondError(c, http.StatusConflict, err.Error(), "load_active")
		return
	}
	if err != nil {
		respondInternalError(c, err, "start load")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"run_id":  sub.RunID,
		"task_id": sub.TaskID,
		"message": "load enqueued",
	})
}
