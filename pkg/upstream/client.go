// Package upstream provides the menu API client that fetches the raw group,
// item and supplement lists for a shop.
package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/menu-proxy/pkg/menu"
)

// DefaultBaseURL is the production menu API root.
const DefaultBaseURL = "https://api.ytimes.ru/ex/menu"

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menu_upstream_requests_total",
		Help: "Total upstream menu API requests by resource and status",
	}, []string{"resource", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "menu_upstream_request_duration_seconds",
		Help:    "Upstream menu API request duration in seconds by resource",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"resource"})
)

// Resource names one of the three menu lists.
type Resource string

const (
	// ResourceGroups is the group tree list.
	ResourceGroups Resource = "groups"

	// ResourceItems is the per-group item and goods list.
	ResourceItems Resource = "items"

	// ResourceSupplements is the flat supplement list.
	ResourceSupplements Resource = "supplements"
)

// Path returns the endpoint path of the resource relative to the base URL.
func (r Resource) Path() string {
	switch r {
	case ResourceGroups:
		return "/v2/group/list"
	case ResourceItems:
		return "/item/list"
	case ResourceSupplements:
		return "/supplement/list"
	default:
		return ""
	}
}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the menu API root, without a trailing slash.
	BaseURL string

	// APIKey is sent verbatim in the Authorization header.
	APIKey string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the default instrumented client.
	HTTPClient Doer
}

// DefaultConfig returns a configuration for the production menu API.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
	}
}

// Client fetches raw menu lists from the upstream API.
type Client struct {
	httpClient Doer
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, zerr.New("base url is required")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, zerr.Wrap(err, "parse base url")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		config:     cfg,
		logger:     log.With().Str("component", "upstream").Logger(),
	}, nil
}

// FetchRaw issues the three list requests concurrently and returns their rows.
// The first failure cancels the remaining requests and is returned as is.
func (c *Client) FetchRaw(ctx context.Context, shopGUID string) (*menu.Raw, error) {
	var raw menu.Raw

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.fetchRows(ctx, ResourceGroups, shopGUID, &raw.Groups)
	})
	g.Go(func() error {
		return c.fetchRows(ctx, ResourceItems, shopGUID, &raw.Items)
	})
	g.Go(func() error {
		return c.fetchRows(ctx, ResourceSupplements, shopGUID, &raw.Supplements)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &raw, nil
}

// fetchRows performs one GET and decodes the rows field into dst.
func (c *Client) fetchRows(ctx context.Context, res Resource, shopGUID string, dst any) error {
	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(string(res)).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResourceURL(res, shopGUID), nil)
	if err != nil {
		return zerr.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.config.APIKey)

	c.logger.Debug().
		Str("resource", string(res)).
		Str("shop_guid", shopGUID).
		Msg("Fetching upstream list")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(string(res), "network_error").Inc()
		return zerr.With(zerr.Wrap(err, "upstream "+string(res)+" request failed"), "shop_guid", shopGUID)
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(string(res), strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Resource:   res,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if err := decodeRows(resp.Body, dst); err != nil {
		return zerr.With(zerr.Wrap(err, "decode upstream "+string(res)), "shop_guid", shopGUID)
	}

	return nil
}

// ResourceURL builds the request URL for a resource and shop.
func (c *Client) ResourceURL(res Resource, shopGUID string) string {
	return c.baseURL + res.Path() + "?" + url.Values{"shopGuid": []string{shopGUID}}.Encode()
}
