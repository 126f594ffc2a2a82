// Package service orchestrates the cache-fronted menu pipeline: cache read,
// upstream fetch, tree assembly and cache write.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/menu-proxy/pkg/cache"
	"github.com/Sternrassler/menu-proxy/pkg/menu"
)

// DefaultTTL is the menu cache lifetime when none is configured.
const DefaultTTL = time.Hour

var (
	// ErrMissingShopGUID is returned when no shop identifier is given.
	ErrMissingShopGUID = zerr.New("shopGuid?")
)

var (
	menuRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_requests_total",
		Help: "Total menu lookups by source (cache, upstream, error)",
	}, []string{"source"})

	menuAssemblyTruncatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menu_assembly_truncated_total",
		Help: "Total subgroup subtrees dropped for exceeding the nesting bound",
	})
)

// Cache stores serialized assembled menus. *cache.Manager satisfies it.
type Cache interface {
	Get(ctx context.Context, key cache.Key) ([]byte, error)
	Set(ctx context.Context, key cache.Key, data []byte, ttl time.Duration) error
}

// Fetcher loads the raw menu lists for a shop. *upstream.Client satisfies it.
type Fetcher interface {
	FetchRaw(ctx context.Context, shopGUID string) (*menu.Raw, error)
}

// Source tells where a served menu came from.
type Source string

const (
	// SourceCache means the bytes were read from the cache unchanged.
	SourceCache Source = "cache"

	// SourceUpstream means the menu was fetched and assembled for this call.
	SourceUpstream Source = "upstream"
)

// Result is a served menu.
type Result struct {
	// Body is the serialized AssembledMenu.
	Body   []byte
	Source Source
}

// Config holds the service configuration.
type Config struct {
	// TTL is the lifetime of cache entries.
	TTL time.Duration

	// MaxDepth bounds group nesting during assembly.
	MaxDepth int

	// SingleFlight collapses concurrent misses for the same shop into one
	// fetch. Off by default: concurrent misses each fetch and write.
	SingleFlight bool
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() Config {
	return Config{
		TTL:      DefaultTTL,
		MaxDepth: menu.DefaultMaxDepth,
	}
}

// Service serves assembled menus through the cache.
type Service struct {
	cache     Cache
	fetcher   Fetcher
	assembler menu.Assembler
	config    Config
	group     singleflight.Group
	logger    zerolog.Logger
}

// New creates a new menu service.
func New(c Cache, f Fetcher, cfg Config) (*Service, error) {
	if c == nil {
		return nil, zerr.New("cache is required")
	}
	if f == nil {
		return nil, zerr.New("fetcher is required")
	}
	if cfg.TTL <= 0 {
		return nil, zerr.With(zerr.New("ttl must be positive"), "ttl", cfg.TTL.String())
	}

	return &Service{
		cache:     c,
		fetcher:   f,
		assembler: menu.Assembler{MaxDepth: cfg.MaxDepth},
		config:    cfg,
		logger:    log.With().Str("component", "menu-service").Logger(),
	}, nil
}

// Menu returns the assembled menu for a shop, from cache when present.
// Any cache or upstream failure fails the call; a failed fetch never
// writes the cache.
func (s *Service) Menu(ctx context.Context, shopGUID string) (Result, error) {
	if shopGUID == "" {
		return Result{}, ErrMissingShopGUID
	}

	key := cache.MenuKey(shopGUID)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.logger.Debug().Str("shop_guid", shopGUID).Bool("cache_hit", true).Msg("Menu served from cache")
		menuRequestsTotal.WithLabelValues(string(SourceCache)).Inc()
		return Result{Body: data, Source: SourceCache}, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		menuRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, zerr.With(zerr.Wrap(err, "read menu cache"), "shop_guid", shopGUID)
	}

	s.logger.Debug().Str("shop_guid", shopGUID).Bool("cache_hit", false).Msg("Menu cache miss")

	if !s.config.SingleFlight {
		body, err := s.refresh(ctx, key)
		return s.result(body, err)
	}

	v, err, shared := s.group.Do(key.String(), func() (any, error) {
		return s.refresh(ctx, key)
	})
	if shared {
		s.logger.Debug().Str("shop_guid", shopGUID).Msg("Joined in-flight menu fetch")
	}
	body, _ := v.([]byte)
	return s.result(body, err)
}

func (s *Service) result(body []byte, err error) (Result, error) {
	if err != nil {
		menuRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	menuRequestsTotal.WithLabelValues(string(SourceUpstream)).Inc()
	return Result{Body: body, Source: SourceUpstream}, nil
}

// refresh fetches, assembles and caches the menu for key.
func (s *Service) refresh(ctx context.Context, key cache.Key) ([]byte, error) {
	startTime := time.Now()

	raw, err := s.fetcher.FetchRaw(ctx, key.ShopGUID)
	if err != nil {
		return nil, err
	}

	assembled, stats := s.assembler.Assemble(*raw)
	if stats.Truncated > 0 {
		menuAssemblyTruncatedTotal.Add(float64(stats.Truncated))
		s.logger.Warn().
			Str("shop_guid", key.ShopGUID).
			Int("truncated", stats.Truncated).
			Int("max_depth", s.config.MaxDepth).
			Msg("Group nesting exceeds bound, deeper subgroups dropped")
	}

	body, err := json.Marshal(assembled)
	if err != nil {
		return nil, zerr.Wrap(err, "marshal menu")
	}

	if err := s.cache.Set(ctx, key, body, s.config.TTL); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "write menu cache"), "shop_guid", key.ShopGUID)
	}

	s.logger.Debug().
		Str("shop_guid", key.ShopGUID).
		Int("groups", stats.Groups).
		Int("bytes", len(body)).
		Dur("ttl", s.config.TTL).
		Dur("duration", time.Since(startTime)).
		Msg("Cached assembled menu")

	return body, nil
}
