// Package server exposes the menu service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/menu-proxy/pkg/logging"
	"github.com/Sternrassler/menu-proxy/pkg/metrics"
	"github.com/Sternrassler/menu-proxy/pkg/service"
)

// missingShopGUIDMessage is the fixed client error body for /menu without shopGuid.
const missingShopGUIDMessage = "shopGuid?"

var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "menu_http_requests_total",
	Help: "Total HTTP requests served by route and status code",
}, []string{"route", "code"})

// MenuService serves assembled menus. *service.Service satisfies it.
type MenuService interface {
	Menu(ctx context.Context, shopGUID string) (service.Result, error)
}

// Pinger reports whether the cache store is reachable. *cache.Manager satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the HTTP routes to the menu service.
type Server struct {
	menus  MenuService
	cache  Pinger
	logger zerolog.Logger
}

// New creates a new HTTP server.
func New(menus MenuService, cache Pinger) *Server {
	return &Server{
		menus:  menus,
		cache:  cache,
		logger: logging.NewLogger("http"),
	}
}

// Handler builds the gin engine with all routes and middleware.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/menu", s.menuHandler)
	r.GET("/health", healthHandler)
	r.GET("/ready", s.readyHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}

// menuHandler serves GET /menu?shopGuid=<id>.
func (s *Server) menuHandler(c *gin.Context) {
	shopGUID := c.Query("shopGuid")
	if shopGUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingShopGUIDMessage})
		return
	}

	res, err := s.menus.Menu(c.Request.Context(), shopGUID)
	if err != nil {
		if errors.Is(err, service.ErrMissingShopGUID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": missingShopGUIDMessage})
			return
		}
		s.logger.Error().Err(err).Str("shop_guid", shopGUID).Msg("Menu request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if res.Source == service.SourceCache {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", res.Body)
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) readyHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.cache.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Readiness check failed")
		c.String(http.StatusServiceUnavailable, "cache unavailable")
		return
	}
	c.String(http.StatusOK, "OK")
}

// requestLogger logs each request through zerolog and counts it.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("cache", c.Writer.Header().Get("X-Cache")).
			Msg("Request served")
	}
}

// ListenAndServe runs the server on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("menu-proxy listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
