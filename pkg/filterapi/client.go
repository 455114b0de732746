package filterapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/salesboard/pkg/payload"
)

// Defaults of a zero Client.
const (
	DefaultPath    = "/filter/"
	DefaultTimeout = 10 * time.Second

	csrfHeader   = "X-CSRFToken"
	contentType  = "application/json"
	maxBodyBytes = 32 << 20
	tracerName   = "salesboard/filterapi"
)

// Sentinel errors.
var (
	// ErrMalformedBody is returned when a successful response is not a
	// valid payload.
	ErrMalformedBody = errors.New("malformed response body")
	// ErrTimeout is returned when the request exceeds the client timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNoBaseURL is returned when the client has no endpoint.
	ErrNoBaseURL = errors.New("filter endpoint base url not set")
)

// StatusError is a non-2xx response from the endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("filter endpoint returned %d: %s", e.Code, e.Message)
}

// Client posts filter states to the filter endpoint.
type Client struct {
	BaseURL    string
	Path       string
	CSRFToken  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a client for baseURL with the default path and timeout.
func NewClient(baseURL, csrfToken string) *Client {
	return &Client{BaseURL: baseURL, CSRFToken: csrfToken}
}

// URL returns the full endpoint address.
func (c *Client) URL() string {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}

	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Fetch posts state and parses the response into a payload.
func (c *Client) Fetch(ctx context.Context, state FilterState) (payload.Payload, error) {
	if c.BaseURL == "" {
		return payload.Payload{}, ErrNoBaseURL
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "filterapi.Fetch",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	p, err := c.fetch(ctx, state, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return p, err
}

func (c *Client) fetch(ctx context.Context, state FilterState, span trace.Span) (payload.Payload, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(state)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("encode filters: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), bytes.NewReader(body))
	if err != nil {
		return payload.Payload{}, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	if c.CSRFToken != "" {
		req.Header.Set(csrfHeader, c.CSRFToken)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return payload.Payload{}, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}

		return payload.Payload{}, fmt.Errorf("post filters: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return payload.Payload{}, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}

		return payload.Payload{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return payload.Payload{}, &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	p, err := payload.Parse(raw)
	if err != nil {
		return payload.Payload{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	return p, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	return http.DefaultClient
}

// errorMessage extracts the message of an error response: the "error" field
// of a JSON body, else the plain body, else the status text.
func errorMessage(code int, body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}

	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return envelope.Error
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		return text
	}

	if text := http.StatusText(code); text != "" {
		return text
	}

	return "HTTP error! status: " + strconv.Itoa(code)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
