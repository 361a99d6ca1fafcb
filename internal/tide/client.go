package tide

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/proxy"

	"github.com/tidescan/tidescan/internal/model"
)

// Default client settings.
const (
	// DefaultTimeout is the HTTP client timeout for each taxonomy read.
	// Taxonomy queries are small JSON responses; 60 seconds is generous
	// enough for slow links without letting a dead connection stall the
	// run indefinitely.
	DefaultTimeout = 60 * time.Second

	// maxBodySize limits the response body size read from the service.
	// Taxonomy listings are small; 5MB prevents memory exhaustion from
	// an unexpected response.
	maxBodySize = 5 * 1024 * 1024
)

// classField is the JSON array field carrying threat classes in the
// taxonomy endpoint's response.
const classField = "threat_class"

// propertyField is the JSON array field carrying threat properties in
// the properties endpoint's response.
const propertyField = "property"

// Client performs authenticated reads against the taxonomy service.
//
// Design decision: The set of status codes treated as success is
// configurable rather than hardcoded to 200. The platform reports
// success with a small family of codes depending on deployment, and
// callers may want to accept 404 as "empty taxonomy" in some setups.
type Client struct {
	// endpoint is the taxonomy endpoint URL.
	endpoint string

	// apiKey authenticates every request via the Authorization header.
	apiKey string

	// okCodes is the set of HTTP status codes treated as success.
	okCodes map[int]struct{}

	// httpClient issues the requests. Replaceable for testing.
	httpClient *http.Client

	// logger records diagnostics for degraded (empty) results.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithOKCodes replaces the set of status codes treated as success.
// The default is {200}.
func WithOKCodes(codes []int) Option {
	return func(c *Client) error {
		if len(codes) == 0 {
			return ErrEmptyOKCodes
		}
		c.okCodes = make(map[int]struct{}, len(codes))
		for _, code := range codes {
			c.okCodes[code] = struct{}{}
		}
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// This is primarily useful for testing with httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the HTTP client timeout for each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.httpClient.Timeout = timeout
		return nil
	}
}

// WithLogger sets the logger used for diagnostics.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithSOCKSProxy routes all requests through a SOCKS5 proxy at the
// given "host:port" address. Useful in restricted-egress environments
// where the platform is only reachable through a jump proxy.
func WithSOCKSProxy(address string) Option {
	return func(c *Client) error {
		if !isValidProxyAddress(address) {
			return ErrInvalidProxyAddress
		}

		// Tor-style SOCKS ports typically run without authentication.
		dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}

		transport := &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
		c.httpClient.Transport = transport
		return nil
	}
}

// NewClient creates a taxonomy client for the given endpoint.
//
// The endpoint must be an absolute http(s) URL and the API key must be
// non-empty. The constructor performs no network activity; the first
// request happens on FetchClasses or FetchProperties.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidEndpoint
	}
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		okCodes:  map[int]struct{}{http.StatusOK: {}},
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Endpoint returns the configured taxonomy endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// isValidProxyAddress checks the "host:port" shape without a full URL
// parse, since the proxy address carries no scheme or path.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// FetchClasses retrieves the ordered list of threat class identifiers.
//
// A response status outside the ok-set or a body without the
// threat_class field logs a diagnostic and yields an empty slice with a
// nil error. Only transport-level failures return a non-nil error.
func (c *Client) FetchClasses(ctx context.Context) ([]model.ThreatClass, error) {
	body, ok, err := c.get(ctx, c.endpoint)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.ThreatClass{}, nil
	}

	ids, ok := extractIDs(body, classField)
	if !ok {
		c.logger.Debug("data format error",
			"field", classField,
			"raw", string(body),
		)
		return []model.ThreatClass{}, nil
	}

	classes := make([]model.ThreatClass, 0, len(ids))
	for _, id := range ids {
		classes = append(classes, model.ThreatClass(id))
	}
	return classes, nil
}

// FetchProperties retrieves the ordered property identifiers associated
// with one threat class. The contract matches FetchClasses: degraded
// responses yield an empty slice, only transport failures error.
func (c *Client) FetchProperties(ctx context.Context, class model.ThreatClass) ([]model.ThreatProperty, error) {
	u := c.endpoint + "/properties?threatclass=" + url.QueryEscape(string(class))

	body, ok, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.ThreatProperty{}, nil
	}

	ids, ok := extractIDs(body, propertyField)
	if !ok {
		c.logger.Debug("data format error",
			"field", propertyField,
			"class", string(class),
			"raw", string(body),
		)
		return []model.ThreatProperty{}, nil
	}

	props := make([]model.ThreatProperty, 0, len(ids))
	for _, id := range ids {
		props = append(props, model.ThreatProperty(id))
	}
	return props, nil
}

// get issues one authenticated GET request. It returns the body and
// true when the response status is in the ok-set. A non-ok status logs
// a diagnostic and returns false with a nil error. Transport failures
// return a non-nil error.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("taxonomy request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if _, ok := c.okCodes[resp.StatusCode]; !ok {
		c.logger.Debug("API error",
			"status", resp.StatusCode,
			"url", rawURL,
		)
		return nil, false, nil
	}

	return body, true, nil
}

// extractIDs pulls the id field from each element of the named JSON
// array, preserving array order. It returns false when the field is
// absent or not an array, which callers report as a data format error.
//
// Design decision: gjson lets us extract the one field we need without
// declaring types for the service's full response shape, and tolerates
// the extra fields the platform includes alongside id.
func extractIDs(body []byte, field string) ([]string, bool) {
	arr := gjson.GetBytes(body, field)
	if !arr.Exists() || !arr.IsArray() {
		return nil, false
	}

	ids := make([]string, 0)
	arr.ForEach(func(_, element gjson.Result) bool {
		if id := element.Get("id"); id.Exists() {
			ids = append(ids, id.String())
		}
		return true
	})
	return ids, true
}
