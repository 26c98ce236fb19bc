package server

import "github.com/gin-gonic/gin"

type storeHealthCheckResponse struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthCheckResponse struct {
	Ok      bool                                `json:"ok"`
	Version string                              `json:"version,omitempty"`
	Failed  int                                 `json:"failed"`
	Stores  map[string]storeHealthCheckResponse `json:"stores,omitempty"`
}

// HealthCheck reports whether every finished run succeeded and every watched store answers.
func (s *Server) HealthCheck(c *gin.Context) {
	summary := s.board.Summary()
	output := healthCheckResponse{
		Ok:      summary.Failed == 0,
		Version: s.version,
		Failed:  summary.Failed,
	}
	if s.connectivity != nil && len(s.stores) > 0 {
		output.Stores = make(map[string]storeHealthCheckResponse)
		for _, addr := range s.stores {
			err := s.connectivity.Test(c.Request.Context(), addr)
			res := storeHealthCheckResponse{Ok: err == nil}
			if err != nil {
				res.Error = err.Error()
				output.Ok = false
			}
			output.Stores[addr.String()] = res
		}
	}
	c.JSON(200, output)
}
