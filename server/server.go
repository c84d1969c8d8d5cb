// Package server exposes charts and indicator panels over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/chartlab/chart"
	"github.com/rustyeddy/chartlab/datasource"
	"github.com/rustyeddy/chartlab/internal/logging"
	"github.com/rustyeddy/chartlab/market"
	"github.com/rustyeddy/chartlab/store"
)

var log = logging.For("server")

// RunStore persists computed panels; nil disables the run endpoints.
type RunStore interface {
	SaveRun(ctx context.Context, symbol string, iv market.Interval, series []market.NamedSeries) (store.Run, error)
	RunSeries(ctx context.Context, runID string) ([]market.NamedSeries, error)
}

type Server struct {
	source   datasource.Source
	builder  *chart.Builder
	defaults chart.Selection
	runs     RunStore

	router *gin.Engine
}

func New(source datasource.Source, builder *chart.Builder, defaults chart.Selection, runs RunStore) *Server {
	s := &Server{
		source:   source,
		builder:  builder,
		defaults: defaults,
		runs:     runs,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/charts/:stockId", s.getChart)
	r.GET("/api/charts/:stockId/indicators", s.getIndicators)

	if s.runs != nil {
		r.POST("/api/charts/:stockId/runs", s.saveRun)
		r.GET("/api/runs/:runId", s.getRun)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) getChart(c *gin.Context) {
	set, ok := s.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, set)
}

func (s *Server) getIndicators(c *gin.Context) {
	mp, ok := s.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mp)
}

func (s *Server) saveRun(c *gin.Context) {
	mp, ok := s.build(c)
	if !ok {
		return
	}
	run, err := s.runs.SaveRun(c.Request.Context(), mp.Symbol, mp.Interval, mp.Flatten())
	if err != nil {
		log.WithError(err).Error("save run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, run)
}

func (s *Server) getRun(c *gin.Context) {
	runID := c.Param("runId")
	series, err := s.runs.RunSeries(c.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := store.WriteNamedCSV(c.Writer, series); err != nil {
			log.WithError(err).Warn("writing run csv failed")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"runId": runID, "series": series})
}

// fetch resolves :stockId and ?interval= and loads the candles.
func (s *Server) fetch(c *gin.Context) (*market.CandleSet, bool) {
	iv, err := market.ParseInterval(c.DefaultQuery("interval", string(market.Day)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	symbol := c.Param("stockId")
	set, err := s.source.Fetch(c.Request.Context(), symbol, iv)
	if err != nil {
		log.WithError(err).Warnf("fetching %s/%s failed", symbol, iv)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}
	return set, true
}

func (s *Server) build(c *gin.Context) (*chart.MultiPanel, bool) {
	sel := s.defaults
	if set := c.Query("set"); set != "" {
		var err error
		sel, err = chart.ParseSelection(set)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
	}

	candles, ok := s.fetch(c)
	if !ok {
		return nil, false
	}

	mp, err := s.builder.Build(c.Request.Context(), candles, sel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return mp, true
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.WithField("status", c.Writer.Status()).
			WithField("latency", time.Since(started)).
			Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
