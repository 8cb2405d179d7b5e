package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/betterreads-loader/internal/database"
	"github.com/mrlokans/betterreads-loader/internal/entities"
)

const (
	healthHealthy   = "healthy"
	healthUnhealthy = "unhealthy"
)

type HealthResponse struct {
	Status   string            `json:"status"`
	Time     string            `json:"time"`
	Version  string            `json:"version,omitempty"`
	Checks   map[string]string `json:"checks"`
	LastLoad *LastLoad         `json:"last_load,omitempty"`
}

// LastLoad summarises the most recent load run.
type LastLoad struct {
	ID         string              `json:"id"`
	Status     entities.LoadStatus `json:"status"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}

// HealthController reports database reachability and the state of the
// latest load. A failed load does not make the service unhealthy.
type HealthController struct {
	db      *database.Database
	runs    LoadRunReader
	version string
}

func NewHealthController(db *database.Database, runs LoadRunReader, version string) *HealthController {
	return &HealthController{db: db, runs: runs, version: version}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  healthHealthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{},
	}

	if h.db == nil {
		resp.Checks["database"] = "not configured"
	} else if err := h.db.Ping(); err != nil {
		resp.Checks["database"] = "error: " + err.Error()
		resp.Status = healthUnhealthy
	} else {
		resp.Checks["database"] = "ok"
	}

	if h.runs != nil && resp.Status == healthHealthy {
		h.checkLastLoad(c, &resp)
	}

	code := http.StatusOK
	if resp.Status != healthHealthy {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

func (h *HealthController) checkLastLoad(c *gin.Context, resp *HealthResponse) {
	runs, err := h.runs.ListRuns(c.Request.Context(), 1)
	if err != nil {
		resp.Checks["last_load"] = "error: " + err.Error()
		resp.Status = healthUnhealthy
		return
	}
	if len(runs) == 0 {
		resp.Checks["last_load"] = "none"
		return
	}

	run := runs[0]
	resp.Checks["last_load"] = string(run.Status)
	resp.LastLoad = &LastLoad{
		ID:         run.ID,
		Status:     run.Status,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
}
