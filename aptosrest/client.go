// Package aptosrest reads account state from an Aptos fullnode REST API.
package aptosrest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/branched-services/go-chunkstage"
)

// AccountResource is the resource type holding an account's sequence number.
const AccountResource = "0x1::account::Account"

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// ErrUnexpectedShape is returned when a response body is not the expected JSON.
var ErrUnexpectedShape = errors.New("aptosrest: unexpected response shape")

// Node error codes for an account or resource that does not exist yet.
const (
	CodeAccountNotFound  = "account_not_found"
	CodeResourceNotFound = "resource_not_found"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	ErrorCode  string // error_code of a JSON error body, if any
	Body       string
}

// NotFound reports whether the node says the account or its resource does
// not exist.
func (e *StatusError) NotFound() bool {
	if e.StatusCode != http.StatusNotFound {
		return false
	}
	return e.ErrorCode == CodeAccountNotFound || e.ErrorCode == CodeResourceNotFound
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aptosrest: GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client is a minimal fullnode REST client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the node at baseURL, e.g.
// https://fullnode.mainnet.aptoslabs.com. A trailing /v1 is accepted.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	base = strings.TrimSuffix(base, "/v1")

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the node URL without the /v1 suffix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SequenceNumber returns the account's current sequence number. An account
// that does not exist yet, or whose resource has no sequence_number field,
// reads as zero.
func (c *Client) SequenceNumber(ctx context.Context, account chunkstage.Address) (uint64, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/resource/%s", c.baseURL, account.Hex(), AccountResource)

	body, err := c.get(ctx, url)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.NotFound() {
			c.logger.Debug("account not found",
				zap.Stringer("account", account),
				zap.String("error_code", se.ErrorCode),
			)
			return 0, nil
		}
		return 0, err
	}

	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("%w: invalid JSON", ErrUnexpectedShape)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return 0, fmt.Errorf("%w: expected object, got %s", ErrUnexpectedShape, doc.Type)
	}

	field := doc.Get("data.sequence_number")
	if !field.Exists() {
		c.logger.Debug("account has no sequence number", zap.Stringer("account", account))
		return 0, nil
	}

	seq, err := parseU64(field)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("read sequence number",
		zap.Stringer("account", account),
		zap.Uint64("sequence", seq),
	)
	return seq, nil
}

// parseU64 accepts the node's string-encoded u64 as well as a bare number.
func parseU64(field gjson.Result) (uint64, error) {
	switch field.Type {
	case gjson.String, gjson.Number:
		seq, err := strconv.ParseUint(field.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: sequence_number %q", ErrUnexpectedShape, field.Raw)
		}
		return seq, nil
	default:
		return 0, fmt.Errorf("%w: sequence_number %s", ErrUnexpectedShape, field.Raw)
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("aptosrest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aptosrest: GET %s: %w", url, err)
	}
	defer func() { io.Copy(io.Discard, resp.Body); resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aptosrest: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
		if gjson.ValidBytes(body) {
			se.ErrorCode = gjson.GetBytes(body, "error_code").String()
		}
		return nil, se
	}

	return body, nil
}
