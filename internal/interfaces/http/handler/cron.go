package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pms/backend/internal/infrastructure/scheduler"
)

// CronHandler exposes the background job scheduler
type CronHandler struct {
	BaseHandler
	scheduler *scheduler.Scheduler
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(sched *scheduler.Scheduler) *CronHandler {
	return &CronHandler{scheduler: sched}
}

// ConfigureJobRequest updates a job's schedule
type ConfigureJobRequest struct {
	Spec    string `json:"spec" binding:"required"`
	Enabled bool   `json:"enabled"`
}

// Status lists all registered jobs with their schedules and last runs
func (h *CronHandler) Status(c *gin.Context) {
	h.Success(c, h.scheduler.Status())
}

// Configure updates the cron spec for a named job
func (h *CronHandler) Configure(c *gin.Context) {
	name := c.Param("job")

	var req ConfigureJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.scheduler.Configure(name, req.Spec, req.Enabled); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, h.scheduler.Status())
}

// Run triggers a job immediately, outside its schedule
func (h *CronHandler) Run(c *gin.Context) {
	name := c.Param("job")

	if err := h.scheduler.RunNow(c.Request.Context(), name); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	h.Success(c, gin.H{"job": name, "triggered": true})
}
