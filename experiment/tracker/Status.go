package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Status serves the reports of a running training loop over HTTP:
//
//	GET /status   the latest report, 204 before the first one
//	GET /reports  all reports so far
//
// Track may be called concurrently with the HTTP handlers.
type Status struct {
	mu      sync.RWMutex
	reports []Report

	handler http.Handler
	server  *http.Server
}

// NewStatus returns a new Status Tracker. The server is not started
// until Start is called, Handler can be used to serve it elsewhere.
func NewStatus(addr string) *Status {
	s := &Status{}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/status", s.handleStatus)
	r.GET("/reports", s.handleReports)

	s.handler = r
	s.server = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the status server
func (s *Status) Handler() http.Handler {
	return s.handler
}

// Start starts serving in a new goroutine. Errors other than the
// server being shut down are sent on the returned channel.
func (s *Status) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("start: %w", err)
		}
	}()
	return errCh
}

// Shutdown gracefully stops the server
func (s *Status) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Track stores the report
func (s *Status) Track(r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

// Save is a no-op, the server keeps serving until it is shut down
func (s *Status) Save() error {
	return nil
}

func (s *Status) handleStatus(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, s.reports[len(s.reports)-1])
}

func (s *Status) handleReports(c *gin.Context) {
	s.mu.RLock()
	reports := make([]Report, len(s.reports))
	copy(reports, s.reports)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"count":   len(reports),
		"reports": reports,
	})
}
