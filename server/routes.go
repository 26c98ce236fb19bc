package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/status", s.Status)
	r.GET("/status/:run", s.RunStatus)
	r.GET("/health", s.HealthCheck)
}
