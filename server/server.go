// Package server exposes the progress of running operations over http.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/sp0x/solrctl/status"
	"github.com/sp0x/solrctl/store"
)

type Server struct {
	board        *status.Board
	version      string
	engine       *gin.Engine
	connectivity *status.ConnectivityCache
	stores       []store.Address
}

// New creates a server over the given board.
func New(board *status.Board, version string) *Server {
	s := &Server{
		board:   board,
		version: version,
	}
	r := gin.New()
	r.Use(gin.Recovery())
	s.setupRoutes(r)
	pprof.Register(r)
	s.engine = r
	return s
}

// Watch adds the reachability of stores to the health check.
func (s *Server) Watch(connectivity *status.ConnectivityCache, stores ...store.Address) *Server {
	s.connectivity = connectivity
	s.stores = append(s.stores, stores...)
	return s
}

// Handler returns the http handler serving the routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on port. It blocks until the listener fails.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Infof("Status server listening on %s", addr)
	return http.ListenAndServe(addr, s.engine)
}

// StartInBackground runs Start in its own goroutine and logs its failure.
func (s *Server) StartInBackground(port int) {
	go func() {
		if err := s.Start(port); err != nil && err != http.ErrServerClosed {
			log.Warningf("Status server stopped: %v", err)
		}
	}()
}
