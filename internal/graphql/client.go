package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/pkg/logger"
	"github.com/google/uuid"
)

// Requester is the one capability the rest of the module needs from the transport.
type Requester interface {
	Send(ctx context.Context, document string, variables map[string]any, bearerToken string) (json.RawMessage, error)
}

type Config struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Error is one entry of a GraphQL response's errors array.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

var ErrEmptyData = errors.New("graphql: response carried no data")

var operationPattern = regexp.MustCompile(`^\s*(?:query|mutation|subscription)\s+([_A-Za-z][_0-9A-Za-z]*)`)

func NewClient(config Config, logger *slog.Logger, metrics *Metrics) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		endpoint:   config.Endpoint,
		timeout:    config.Timeout,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// Send posts one document to the endpoint and returns the data member of the
// payload. Failures are *internal.AppError of exactly one kind: transport,
// HTTP status or GraphQL payload. Nothing is retried.
func (c *Client) Send(ctx context.Context, document string, variables map[string]any, bearerToken string) (json.RawMessage, error) {
	operation := OperationName(document)
	start := time.Now()

	data, err := c.send(ctx, operation, document, variables, bearerToken)
	c.metrics.observe(operation, err, time.Since(start))

	return data, err
}

func (c *Client) send(ctx context.Context, operation, document string, variables map[string]any, bearerToken string) (json.RawMessage, error) {
	body, err := json.Marshal(request{Query: document, Variables: variables})
	if err != nil {
		return nil, internal.NewUnknownError("Failed to encode GraphQL request", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = internal.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := internal.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := c.loggerFor(ctx).With("operation", operation, "request_id", requestID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, internal.NewUnknownError("Failed to create GraphQL request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if bearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	log.Debug("graphql request", "endpoint", c.endpoint, "authenticated", bearerToken != "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("graphql request failed", "error", err)
		return nil, cannotConnect(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("graphql response read failed", "error", err)
		return nil, cannotConnect(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Error("graphql http error", "status", resp.StatusCode, "body", truncate(string(raw), 512))
		return nil, statusError(resp.StatusCode)
	}

	var payload response
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error("graphql response decode failed", "status", resp.StatusCode, "error", err)
		return nil, internal.NewServerError("Invalid response from server.", internal.ErrCodeInvalidResponse).
			WithCause(err)
	}

	if len(payload.Errors) > 0 {
		log.Warn("graphql errors", "errors", payload.Errors)
		return nil, payloadError(payload.Errors)
	}

	log.Debug("graphql response received", "status", resp.StatusCode)
	return payload.Data, nil
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if l, ok := logger.Lookup(ctx); ok {
		return l.With("component", "graphql")
	}
	return c.logger
}

// Do sends document and decodes the data member into T.
func Do[T any](ctx context.Context, r Requester, document string, variables map[string]any, bearerToken string) (T, error) {
	var out T

	data, err := r.Send(ctx, document, variables, bearerToken)
	if err != nil {
		return out, err
	}
	if len(data) == 0 || string(data) == "null" {
		return out, ErrEmptyData
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("graphql: decode data: %w", err)
	}
	return out, nil
}

// OperationName returns the declared operation name of document, or "anonymous".
func OperationName(document string) string {
	m := operationPattern.FindStringSubmatch(document)
	if m == nil {
		return "anonymous"
	}
	return m[1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
