package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleProcessTasks is the scheduler trigger: an external cron hits it on a
// fixed interval to drain due webhook tasks.
func (s *Server) HandleProcessTasks(c *gin.Context) {
	stats, err := s.processor.RunOnce(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordTaskResult("done", stats.Done)
		s.metrics.RecordTaskResult("retried", stats.Retried)
		s.metrics.RecordTaskResult("failed", stats.Failed)
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"picked":  stats.Picked,
		"done":    stats.Done,
		"retried": stats.Retried,
		"failed":  stats.Failed,
	})
}
