package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// defaultTimeout bounds each request when the caller's context carries
// no deadline of its own.
const defaultTimeout = 15 * time.Second

// Config holds configuration for creating a ClassTrack API Client.
type Config struct {
	// BaseURL is the root URL of the ClassTrack API, for example
	// "https://classtrack.example.com". Required.
	BaseURL string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each request. Defaults to 15 seconds. Ignored
	// when the caller's context already has a deadline.
	Timeout time.Duration

	// Logger is used for structured logging. Defaults to a disabled
	// logger.
	Logger zerolog.Logger
}

// Client is a typed ClassTrack API client. The zero value is not
// usable; create one with NewClient. A Client is safe for concurrent
// use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger

	mu      sync.RWMutex
	session *Session
}

// NewClient creates a ClassTrack API client from the given
// configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, &ValidationError{Field: "baseURL", Message: "base URL is required"}
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, &ValidationError{Field: "baseURL", Message: "base URL must be http or https"}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     config.Logger,
	}, nil
}

// Session returns a copy of the current session, or nil when the
// client is not signed in.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	copied := *c.session
	return &copied
}

// SetSession installs a previously saved session, for example one
// deserialized at application start.
func (c *Client) SetSession(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// do executes a JSON API request. The path is relative to the base URL.
// requestBody is JSON-encoded when non-nil. On 2xx the envelope's data
// field is returned; on non-2xx an *APIError is returned.
func (c *Client) do(ctx context.Context, method, path string, requestBody any) (json.RawMessage, error) {
	var bodyReader io.Reader
	contentType := ""
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("classtrack: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	body, _, err := c.doRaw(ctx, method, path, bodyReader, contentType)
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("classtrack: decoding response: %w", err)
	}
	return envelope.Data, nil
}

// doRaw executes a request and returns the raw response body. Non-2xx
// responses are parsed into *APIError; transport failures become
// *NetworkError.
func (c *Client) doRaw(ctx context.Context, method, path string, bodyReader io.Reader, contentType string) ([]byte, http.Header, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("classtrack: creating request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token := c.accessToken(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, nil, &NetworkError{URL: url, Err: err}
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, nil, &NetworkError{URL: url, Err: err}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Request completed")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, nil, parseAPIError(response.StatusCode, body)
	}

	return body, response.Header, nil
}

// get executes a GET request and decodes the envelope's data into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeData(data, out)
}

// post executes a POST request and decodes the envelope's data into
// out when out is non-nil.
func (c *Client) post(ctx context.Context, path string, requestBody, out any) error {
	data, err := c.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(data, out)
}

// put executes a PUT request and decodes the envelope's data into out
func (c *Client) put(ctx context.Context, path string, requestBody, out any) error {
	data, err := c.do(ctx, http.MethodPut, path, requestBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeData(data, out)
}

// delete executes a DELETE request, discarding any response data
func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// postMultipart executes a multipart/form-data POST. fields carries the
// plain form values; file, when non-nil, is uploaded under fileField.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField string, file *Evidence, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("classtrack: building form: %w", err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(fileField, file.Filename)
		if err != nil {
			return fmt.Errorf("classtrack: building form file: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("classtrack: writing form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("classtrack: closing form: %w", err)
	}

	body, _, err := c.doRaw(ctx, http.MethodPost, path, &buf, writer.FormDataContentType())
	if err != nil {
		return err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("classtrack: decoding response: %w", err)
	}
	if out == nil {
		return nil
	}
	return decodeData(envelope.Data, out)
}

func decodeData(data json.RawMessage, out any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("classtrack: decoding response data: %w", err)
	}
	return nil
}

// parseAPIError builds an *APIError from a non-2xx response body. The
// server wraps errors in an envelope; bodies that fail to parse still
// produce a usable error with the status code.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiError.Code = envelope.Error.Code
		apiError.Message = envelope.Error.Message
	}
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}
	return apiError
}
