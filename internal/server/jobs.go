package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) SchedulerStats(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.scheduler.Stats()})
}

// RunSchedulerNow triggers a status sweep outside the normal interval.
// Concurrent triggers are coalesced by the scheduler's single-flight guard.
func (s *Server) RunSchedulerNow(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.scheduler.RunOnce(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"triggered": true}})
}
