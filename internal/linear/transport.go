package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const apiURL = "https://api.linear.app/graphql"

// APIError is the single error type surfaced by the transport. Callers
// distinguish failure classes by message content only.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func apiErrorf(format string, args ...any) *APIError {
	return &APIError{Message: fmt.Sprintf(format, args...)}
}

// HTTPResponse is the raw outcome of a POST, handed to the response parser.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// Transport issues authenticated POST requests to the Linear GraphQL
// endpoint. One request is in flight at a time; there is no retry logic.
type Transport struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewTransport creates a transport for the production endpoint.
func NewTransport(apiKey string) *Transport {
	return &Transport{
		apiKey:   apiKey,
		endpoint: apiURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewTransportWithEndpoint is used by tests to point at a local server.
func NewTransportWithEndpoint(apiKey, endpoint string) *Transport {
	t := NewTransport(apiKey)
	t.endpoint = endpoint
	return t
}

// Post sends one GraphQL request and returns the raw response. Only
// network-level failures produce an error; HTTP and GraphQL error handling
// is left to the caller (parser or Execute).
func (t *Transport) Post(ctx context.Context, query string, variables map[string]any) (*HTTPResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, apiErrorf("Network error: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apiErrorf("Network error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, apiErrorf("Network error: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apiErrorf("Network error: %v", err)
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(respBody)).Msg("GraphQL response received")
	return &HTTPResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// Execute posts a query and applies the full error taxonomy: HTTP status
// mapping, embedded GraphQL errors, and malformed JSON all become APIErrors.
// On success it returns the raw `data` payload.
func (t *Transport) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	resp, err := t.Post(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, resp.Body)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, apiErrorf("Invalid JSON response")
	}
	if len(envelope.Errors) > 0 {
		return nil, apiErrorf("GraphQL errors: %s", joinGraphQLErrors(envelope.Errors))
	}

	return envelope.Data, nil
}

func classifyStatus(status int, body []byte) *APIError {
	switch status {
	case http.StatusBadRequest:
		var envelope struct {
			Errors []graphQLError `json:"errors"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
			return apiErrorf("Bad Request: %s", joinGraphQLErrors(envelope.Errors))
		}
		return apiErrorf("Bad Request")
	case http.StatusUnauthorized:
		return apiErrorf("Unauthorized - check your API token")
	case http.StatusForbidden:
		return apiErrorf("Forbidden - insufficient permissions")
	case http.StatusTooManyRequests:
		return apiErrorf("Rate limited")
	default:
		return apiErrorf("HTTP %d: %s", status, http.StatusText(status))
	}
}

func joinGraphQLErrors(errs []graphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
