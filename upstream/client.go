package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonwraymond/safelaw/fault"
)

// maxResponseBytes bounds how much of an upstream payload we will read.
const maxResponseBytes = 4 << 20

// ClientConfig configures the upstream search client.
type ClientConfig struct {
	// BaseURL is the upstream search endpoint.
	BaseURL string

	// ServiceKey is the upstream access credential. It is sent as a query
	// parameter and must never appear in logs or error messages.
	ServiceKey string

	// HTTPClient is the transport to use. Default: http.DefaultClient.
	// Per-call timeouts are the resilience layer's job, so the default
	// client carries no timeout of its own.
	HTTPClient *http.Client
}

// Client calls the upstream search API. It performs exactly one transport
// round trip per Search call; retries, timeouts, and the circuit breaker
// wrap it from the outside.
type Client struct {
	config ClientConfig
}

// NewClient creates a new upstream client.
func NewClient(config ClientConfig) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	return &Client{config: config}
}

// Search performs one upstream round trip for the given parameters.
// All failures come back as classified fault errors.
func (c *Client) Search(ctx context.Context, p Params) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(p), nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindInternal, "building upstream request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		// The wrapped transport error may embed the request URL, which
		// carries the service key. Keep only the classification.
		return nil, fault.New(fault.KindUpstreamUnavailable, "upstream request failed")
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fault.New(fault.KindUpstreamUnavailable, "reading upstream response failed")
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, fault.Wrap(fault.KindMalformedUpstream, "upstream returned a non-JSON payload", err)
	}

	code := env.Response.Header.ResultCode
	switch code {
	case fault.CodeSuccess:
		// fall through to decoding the body
	case fault.CodeNoData:
		return &Result{PageNo: p.PageNo, NumOfRows: p.NumOfRows}, nil
	case "":
		return nil, fault.New(fault.KindMalformedUpstream, "upstream response is missing the result header")
	default:
		return nil, fault.ClassifyCode(code)
	}

	b := env.Response.Body
	return &Result{
		TotalCount: b.TotalCount,
		PageNo:     b.PageNo,
		NumOfRows:  b.NumOfRows,
		Primary:    b.Items.Item,
		Media:      b.TotalMedia,
	}, nil
}

func (c *Client) buildURL(p Params) string {
	q := url.Values{}
	q.Set("serviceKey", c.config.ServiceKey)
	q.Set("searchValue", p.SearchValue)
	q.Set("category", strconv.Itoa(p.Category))
	q.Set("pageNo", strconv.Itoa(p.PageNo))
	q.Set("numOfRows", strconv.Itoa(p.NumOfRows))
	q.Set("dataType", "JSON")
	return c.config.BaseURL + "?" + q.Encode()
}

// classifyStatus maps a non-200 HTTP status to a classified error.
// 5xx and gateway statuses are retryable unavailability; 4xx statuses are
// terminal since retrying an identical bad request cannot succeed.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return fault.New(fault.KindUnauthorized, "upstream rejected the service key")
	case status == http.StatusForbidden:
		return fault.New(fault.KindForbidden, "upstream denied access")
	case status == http.StatusTooManyRequests:
		return fault.New(fault.KindRateLimited, "upstream request quota exceeded")
	case status >= 400 && status < 500:
		return fault.Newf(fault.KindBadRequest, "upstream rejected the request (status %d)", status)
	default:
		return fault.Newf(fault.KindUpstreamUnavailable, "upstream returned status %d", status)
	}
}
