package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"northcheck/pkg/fault"
	"northcheck/pkg/metrics"
	"northcheck/pkg/useragent"
)

const (
	DefaultLinkEndpoint = "https://link-checker.nordvpn.com/v1/public-url-checker/check-url"
	DefaultFileEndpoint = "https://file-checker.nordvpn.com/v1/public-filehash-checker/check"

	// Timeout bounds every remote call. It is not configurable.
	Timeout = 30 * time.Second

	origin  = "https://nordvpn.com"
	referer = "https://nordvpn.com/"

	maxResponseBytes = 4 << 20
)

// Endpoints holds the two service URLs.
type Endpoints struct {
	Link string
	File string
}

// DefaultEndpoints returns the production service URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{Link: DefaultLinkEndpoint, File: DefaultFileEndpoint}
}

// Client sends reputation checks. It makes exactly one attempt per Check:
// no retries, no caching.
type Client struct {
	httpClient *http.Client
	userAgent  string

	mu        sync.RWMutex
	endpoints Endpoints
}

// New returns a Client with the fixed 30 second timeout.
func New(endpoints Endpoints) *Client {
	return NewWithHTTPClient(endpoints, &http.Client{Timeout: Timeout})
}

// NewWithHTTPClient returns a Client using httpClient. A zero Timeout on
// httpClient is replaced with the fixed timeout.
func NewWithHTTPClient(endpoints Endpoints, httpClient *http.Client) *Client {
	if httpClient.Timeout == 0 {
		httpClient.Timeout = Timeout
	}
	return &Client{
		httpClient: httpClient,
		userAgent:  useragent.Current(),
		endpoints:  endpoints,
	}
}

// Endpoints returns the current service URLs.
func (c *Client) Endpoints() Endpoints {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoints
}

// SetEndpoints replaces the service URLs for subsequent checks.
func (c *Client) SetEndpoints(e Endpoints) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = e
}

// Check sends r to its service and returns the response body unmodified.
// Failures are *fault.Error values of kind Timeout, Network, API or
// Unexpected.
func (c *Client) Check(ctx context.Context, r Request) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.do(ctx, r)
	outcome := "ok"
	if err != nil {
		outcome = fault.KindOf(err).String()
	}
	elapsed := time.Since(start)
	metrics.RecordCheck(r.Kind(), outcome, elapsed)
	log.Debugf("%s check finished in %d ms: %s", r.Kind(), elapsed/time.Millisecond, outcome)
	return body, err
}

func (c *Client) do(ctx context.Context, r Request) (json.RawMessage, error) {
	url := r.endpoint(c.Endpoints())

	data, err := json.Marshal(r.payload())
	if err != nil {
		return nil, fault.Wrap(fault.Unexpected, errors.Annotate(err, "encoding request"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fault.Wrap(fault.Unexpected, errors.Annotate(err, "making http post request"))
	}
	c.setHeaders(req)
	log.Debugf("POST %s: %s", url, string(data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if len(body) > maxResponseBytes {
		return nil, fault.Wrap(fault.Unexpected, errors.Errorf("response from %s exceeds %d bytes", url, maxResponseBytes))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("%s responded %d: %s", url, resp.StatusCode, string(body))
		return nil, fault.APIStatus(resp.StatusCode, statusText(resp), body)
	}
	if !json.Valid(body) {
		return nil, fault.Wrap(fault.Unexpected, errors.Errorf("response from %s is not valid JSON", url))
	}
	return json.RawMessage(body), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("accept-language", "en-US,en;q=0.9")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("origin", origin)
	req.Header.Set("referer", referer)
	req.Header.Set("user-agent", c.userAgent)
}

// statusText strips the numeric code from resp.Status.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func classifyTransport(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fault.Wrap(fault.Timeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fault.Wrap(fault.Timeout, err)
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.As(err, &dnsErr):
		return fault.Wrap(fault.Network, err)
	case errors.As(err, &opErr):
		return fault.Wrap(fault.Network, err)
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return fault.Wrap(fault.Network, err)
	}
	return fault.Wrap(fault.Unexpected, err)
}
