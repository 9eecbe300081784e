package osm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/pos-import-service/internal/domain"
	"github.com/couchcryptid/pos-import-service/internal/observability"
)

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 512

// Client fetches node documents from the OpenStreetMap API.
// It implements importer.NodeFetcher.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OSM API client. baseURL is used as a prefix that the
// node ID is appended to. rps limits outgoing requests per second, as the
// public API asks heavy users to throttle themselves.
func NewClient(baseURL, userAgent string, timeout time.Duration, rps float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		metrics:   metrics,
		logger:    logger,
	}
}

// FetchNode returns the raw XML body for the given node ID. The body may be
// empty; callers decide what an empty document means.
func (c *Client) FetchNode(ctx context.Context, nodeID string) (string, error) {
	url := c.baseURL + nodeID

	if err := c.limiter.Wait(ctx); err != nil {
		return "", transportError(eris.Wrap(err, "osm: rate limiter"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", transportError(eris.Wrap(err, "osm: create request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.OSMAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.OSMRequests.WithLabelValues("error").Inc()
		return "", transportError(eris.Wrapf(err, "osm: get node %s", nodeID))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.OSMRequests.WithLabelValues("status").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("osm api returned non-success status",
			"node_id", nodeID,
			"status", resp.StatusCode,
		)
		return "", transportError(fmt.Errorf("osm API error: status %d: %s", resp.StatusCode, body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.OSMRequests.WithLabelValues("error").Inc()
		return "", transportError(eris.Wrapf(err, "osm: read node %s", nodeID))
	}

	c.metrics.OSMRequests.WithLabelValues("success").Inc()
	c.logger.Debug("osm node fetched", "node_id", nodeID, "bytes", len(body))
	return string(body), nil
}

func transportError(err error) error {
	return &domain.Error{Kind: domain.KindTransportFailure, Msg: err.Error(), Err: err}
}
