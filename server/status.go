package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sp0x/solrctl/operations"
	"github.com/sp0x/solrctl/status"
)

type statusResponse struct {
	Summary status.Summary        `json:"summary"`
	Runs    []operations.Progress `json:"runs"`
}

func (s *Server) Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Summary: s.board.Summary(),
		Runs:    s.board.Runs(),
	})
}

func (s *Server) RunStatus(c *gin.Context) {
	run := c.Param("run")
	p, ok := s.board.Run(run)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run " + run})
		return
	}
	c.JSON(http.StatusOK, p)
}
